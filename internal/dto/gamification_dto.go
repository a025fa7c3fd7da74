package dto

import "time"

type LevelInfo struct {
	CurrentLevel       int     `json:"current_level"`
	LevelName          string  `json:"level_name"`
	NextLevel          int     `json:"next_level,omitempty"`
	NextLevelName      string  `json:"next_level_name"`
	PointsNeeded       int     `json:"points_needed"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CurrentPoints      int     `json:"current_points"`
	LevelMinPoints     int     `json:"level_min_points"`
	LevelMaxPoints     int     `json:"level_max_points"`
}

type UserStatsResponse struct {
	TotalPoints   int       `json:"total_points"`
	MoviesRated   int       `json:"movies_rated"`
	MoviesWatched int       `json:"movies_watched"`
	ListsCreated  int       `json:"lists_created"`
	CommentsMade  int       `json:"comments_made"`
	BadgesEarned  int64     `json:"badges_earned"`
	TotalBadges   int       `json:"total_badges"`
	LevelInfo     LevelInfo `json:"level_info"`
}

type EarnedBadge struct {
	BadgeID     string    `json:"badge_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	EarnedAt    time.Time `json:"earned_at"`
}

type CounterProgress struct {
	Current    int     `json:"current"`
	Required   int     `json:"required"`
	Percentage float64 `json:"percentage"`
}

type BadgeProgress struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Progress    map[string]CounterProgress `json:"progress"`
}

type LeaderboardEntry struct {
	Position    int       `json:"position"`
	Username    string    `json:"username"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	TotalPoints int       `json:"total_points"`
	LevelInfo   LevelInfo `json:"level_info"`
}

type ActivityEntry struct {
	Points     int       `json:"points"`
	Reason     string    `json:"reason"`
	TotalAfter int       `json:"total_after"`
	CreatedAt  time.Time `json:"created_at"`
}
