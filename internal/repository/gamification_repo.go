package repository

import (
	"context"

	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction. The whole award sequence (dedup, increment, log, badge
	// grant) goes through this so concurrent awards cannot double-apply.
	Transaction(ctx context.Context, fn func(tx GamificationRepository) error) error

	FindScore(ctx context.Context, userID uuid.UUID) (*model.UserScore, error)
	ApplyPoints(ctx context.Context, userID uuid.UUID, delta int, counter string) (*model.UserScore, error)
	CreatePointLog(ctx context.Context, entry *model.PointLog) error
	LogAction(ctx context.Context, userID uuid.UUID, actionKind, actionID string) (bool, error)

	EarnedBadgeIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	GetOrCreateBadge(ctx context.Context, badge *model.Badge) error
	GrantBadge(ctx context.Context, userID uuid.UUID, badgeID uint) (bool, error)
	ListUserBadges(ctx context.Context, userID uuid.UUID) ([]model.UserBadge, error)
	CountUserBadges(ctx context.Context, userID uuid.UUID) (int64, error)

	TopScores(ctx context.Context, limit int) ([]model.UserScore, error)
	RecentPointLogs(ctx context.Context, userID uuid.UUID, limit int) ([]model.PointLog, error)
	AllUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type gamificationRepository struct {
	db *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) Transaction(ctx context.Context, fn func(tx GamificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gamificationRepository{db: tx})
	})
}

// FindScore returns a zero-valued score (not persisted) when the user has
// never been awarded points.
func (r *gamificationRepository) FindScore(ctx context.Context, userID uuid.UUID) (*model.UserScore, error) {
	var score model.UserScore
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&score).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &model.UserScore{UserID: userID}, nil
		}
		return nil, err
	}
	return &score, nil
}

// ApplyPoints upserts the user's score, adding delta to total_points and,
// when counter is non-empty, incrementing that counter column. The
// post-increment row is read back so callers get the exact new total.
func (r *gamificationRepository) ApplyPoints(ctx context.Context, userID uuid.UUID, delta int, counter string) (*model.UserScore, error) {
	assignments := map[string]interface{}{
		"total_points":    gorm.Expr("user_scores.total_points + ?", delta),
		"last_updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	}

	initial := model.UserScore{UserID: userID, TotalPoints: delta}
	switch counter {
	case "movies_rated":
		initial.MoviesRated = 1
		assignments[counter] = gorm.Expr("user_scores.movies_rated + 1")
	case "movies_watched":
		initial.MoviesWatched = 1
		assignments[counter] = gorm.Expr("user_scores.movies_watched + 1")
	case "lists_created":
		initial.ListsCreated = 1
		assignments[counter] = gorm.Expr("user_scores.lists_created + 1")
	case "comments_made":
		initial.CommentsMade = 1
		assignments[counter] = gorm.Expr("user_scores.comments_made + 1")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&initial).Error
	if err != nil {
		return nil, err
	}

	var score model.UserScore
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *gamificationRepository) CreatePointLog(ctx context.Context, entry *model.PointLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// LogAction records that the action happened. Returns false when the
// (user, kind, action id) row already exists, i.e. the award is a duplicate.
func (r *gamificationRepository) LogAction(ctx context.Context, userID uuid.UUID, actionKind, actionID string) (bool, error) {
	entry := model.ActionLog{
		UserID:     userID,
		ActionKind: actionKind,
		ActionID:   actionID,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gamificationRepository) EarnedBadgeIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Pluck("badges.badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	earned := make(map[string]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

func (r *gamificationRepository) GetOrCreateBadge(ctx context.Context, badge *model.Badge) error {
	return r.db.WithContext(ctx).
		Where("badge_id = ?", badge.BadgeID).
		Attrs(model.Badge{
			Name:         badge.Name,
			Description:  badge.Description,
			RewardPoints: badge.RewardPoints,
			Icon:         badge.Icon,
			Color:        badge.Color,
		}).
		FirstOrCreate(badge).Error
}

// GrantBadge creates the user-badge row. Returns false when the user already
// holds the badge (including when a concurrent call just granted it).
func (r *gamificationRepository) GrantBadge(ctx context.Context, userID uuid.UUID, badgeID uint) (bool, error) {
	grant := model.UserBadge{UserID: userID, BadgeID: badgeID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gamificationRepository) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]model.UserBadge, error) {
	var badges []model.UserBadge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at DESC").
		Find(&badges).Error
	return badges, err
}

func (r *gamificationRepository) CountUserBadges(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *gamificationRepository) TopScores(ctx context.Context, limit int) ([]model.UserScore, error) {
	var scores []model.UserScore
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("total_points DESC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}

func (r *gamificationRepository) RecentPointLogs(ctx context.Context, userID uuid.UUID, limit int) ([]model.PointLog, error) {
	var logs []model.PointLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *gamificationRepository) AllUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.User{}).Pluck("id", &ids).Error
	return ids, err
}
