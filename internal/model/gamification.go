package model

import (
	"time"

	"github.com/google/uuid"
)

// UserScore is the per-user point aggregate. Created lazily on the first
// award; total_points and the counters are only ever written by the award
// engine.
type UserScore struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	TotalPoints   int       `gorm:"default:0" json:"total_points"`
	MoviesRated   int       `gorm:"default:0" json:"movies_rated"`
	MoviesWatched int       `gorm:"default:0" json:"movies_watched"`
	ListsCreated  int       `gorm:"default:0" json:"lists_created"`
	CommentsMade  int       `gorm:"default:0" json:"comments_made"`
	LastUpdatedAt time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
}

// PointLog is the append-only audit trail of point deltas. TotalAfter
// snapshots the user's total immediately after the delta was applied, so
// replaying deltas from zero reproduces the current total exactly.
type PointLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index:idx_pointlog_user_date,priority:1;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Points     int       `gorm:"not null" json:"points"`
	Reason     string    `gorm:"size:200" json:"reason"`
	TotalAfter int       `gorm:"not null" json:"total_after"`
	CreatedAt  time.Time `gorm:"index:idx_pointlog_user_date,priority:2" json:"created_at"`
}

// ActionLog deduplicates point awards. The composite unique index is the
// idempotence guarantee: a second insert for the same (user, kind, action id)
// conflicts and the award is discarded.
type ActionLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_action_dedup;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	ActionKind string    `gorm:"size:50;uniqueIndex:idx_action_dedup;not null" json:"action_kind"`
	ActionID   string    `gorm:"size:100;uniqueIndex:idx_action_dedup;not null" json:"action_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Badge rows are materialized lazily from the catalog the first time a user
// earns them; the catalog stays the source of truth for thresholds.
type Badge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BadgeID      string    `gorm:"size:50;uniqueIndex;not null" json:"badge_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	RewardPoints int       `gorm:"default:0" json:"reward_points"`
	Icon         string    `gorm:"size:50;default:star" json:"icon"`
	Color        string    `gorm:"size:7;default:#FFD700" json:"color"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_badge;not null" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	BadgeID  uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	Badge    Badge     `json:"badge"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
}
