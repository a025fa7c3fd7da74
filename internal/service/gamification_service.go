package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/cinelog/cinelog-backend/internal/dto"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leaderboardCacheTTL = 60 * time.Second

type GamificationService interface {
	// AwardPoints is the single entry point for all point-earning activity.
	// actionID scopes idempotence; pass "" for awards that must never be
	// deduplicated. Returns false (without error) for unknown action kinds
	// and for duplicate actions.
	AwardPoints(ctx context.Context, userID uuid.UUID, action ActionKind, reason, actionID string) (bool, error)

	// EvaluateBadges grants every badge the user newly qualifies for and
	// applies badge bonus points. Exposed for administrative backfill.
	EvaluateBadges(ctx context.Context, userID uuid.UUID) ([]model.Badge, error)
	BackfillBadges(ctx context.Context) (int, error)

	GetUserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error)
	GetUserBadges(ctx context.Context, userID uuid.UUID) ([]dto.EarnedBadge, error)
	GetUserProgress(ctx context.Context, userID uuid.UUID) (map[string]dto.BadgeProgress, error)
	GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	GetRecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]dto.ActivityEntry, error)
	GetLevelInfo(ctx context.Context, userID uuid.UUID) (*dto.LevelInfo, error)
}

type gamificationService struct {
	repo                repository.GamificationRepository
	redisClient         *redis.Client
	notificationService NotificationService
}

func NewGamificationService(repo repository.GamificationRepository, redisClient *redis.Client, notificationService NotificationService) GamificationService {
	return &gamificationService{
		repo:                repo,
		redisClient:         redisClient,
		notificationService: notificationService,
	}
}

func (s *gamificationService) AwardPoints(ctx context.Context, userID uuid.UUID, action ActionKind, reason, actionID string) (bool, error) {
	delta, known := PointValue(action)
	if !known {
		return false, nil
	}

	granted := false
	var newBadges []model.Badge
	var prevTotal, newTotal int

	err := s.repo.Transaction(ctx, func(tx repository.GamificationRepository) error {
		if actionID != "" {
			created, err := tx.LogAction(ctx, userID, string(action), actionID)
			if err != nil {
				return err
			}
			if !created {
				// Already awarded for this exact action; leave everything
				// untouched.
				return nil
			}
		}

		prev, err := tx.FindScore(ctx, userID)
		if err != nil {
			return err
		}
		prevTotal = prev.TotalPoints

		score, err := tx.ApplyPoints(ctx, userID, delta, string(CounterForAction(action)))
		if err != nil {
			return err
		}

		if err := tx.CreatePointLog(ctx, &model.PointLog{
			UserID:     userID,
			Points:     delta,
			Reason:     reason,
			TotalAfter: score.TotalPoints,
		}); err != nil {
			return err
		}

		newBadges, score, err = s.evaluateBadges(ctx, tx, userID, score)
		if err != nil {
			return err
		}

		newTotal = score.TotalPoints
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !granted {
		return false, nil
	}

	s.afterAward(userID, prevTotal, newTotal, newBadges)
	return true, nil
}

// evaluateBadges walks the catalog in declaration order inside the award
// transaction. The running score is kept current, so a bonus granted early
// in the pass can qualify a points-milestone badge later in the same pass;
// evaluation is deliberately not re-looped to a fixed point — anything that
// only qualifies after the pass is granted on the next award or backfill.
func (s *gamificationService) evaluateBadges(ctx context.Context, tx repository.GamificationRepository, userID uuid.UUID, score *model.UserScore) ([]model.Badge, *model.UserScore, error) {
	earned, err := tx.EarnedBadgeIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var newBadges []model.Badge
	for _, spec := range BadgeCatalog {
		if earned[spec.ID] {
			continue
		}
		if !Qualifies(score, spec) {
			continue
		}

		badge := model.Badge{
			BadgeID:      spec.ID,
			Name:         spec.Name,
			Description:  spec.Description,
			RewardPoints: spec.RewardPoints,
			Icon:         spec.Icon,
			Color:        spec.Color,
		}
		if err := tx.GetOrCreateBadge(ctx, &badge); err != nil {
			return nil, nil, err
		}

		created, err := tx.GrantBadge(ctx, userID, badge.ID)
		if err != nil {
			return nil, nil, err
		}
		if !created {
			// A racing call granted it first; the bonus was theirs.
			continue
		}

		if spec.RewardPoints > 0 {
			// Badge bonuses are never deduplicated and never recurse into
			// another evaluation pass.
			score, err = tx.ApplyPoints(ctx, userID, spec.RewardPoints, "")
			if err != nil {
				return nil, nil, err
			}
			if err := tx.CreatePointLog(ctx, &model.PointLog{
				UserID:     userID,
				Points:     spec.RewardPoints,
				Reason:     fmt.Sprintf("Badge bonus: %s", spec.Name),
				TotalAfter: score.TotalPoints,
			}); err != nil {
				return nil, nil, err
			}
		}

		newBadges = append(newBadges, badge)
	}

	return newBadges, score, nil
}

func (s *gamificationService) EvaluateBadges(ctx context.Context, userID uuid.UUID) ([]model.Badge, error) {
	var newBadges []model.Badge
	var prevTotal, newTotal int

	err := s.repo.Transaction(ctx, func(tx repository.GamificationRepository) error {
		score, err := tx.FindScore(ctx, userID)
		if err != nil {
			return err
		}
		prevTotal = score.TotalPoints
		newBadges, score, err = s.evaluateBadges(ctx, tx, userID, score)
		if err != nil {
			return err
		}
		newTotal = score.TotalPoints
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterAward(userID, prevTotal, newTotal, newBadges)
	return newBadges, nil
}

func (s *gamificationService) BackfillBadges(ctx context.Context) (int, error) {
	userIDs, err := s.repo.AllUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, id := range userIDs {
		badges, err := s.EvaluateBadges(ctx, id)
		if err != nil {
			log.Printf("badge backfill failed for user %s: %v", id, err)
			continue
		}
		total += len(badges)
	}
	return total, nil
}

// afterAward fires the non-transactional side effects: notifications and
// leaderboard cache invalidation. Failures are logged, never returned.
func (s *gamificationService) afterAward(userID uuid.UUID, prevTotal, newTotal int, newBadges []model.Badge) {
	s.invalidateLeaderboard()

	if s.notificationService == nil {
		return
	}

	ctx := context.Background()
	for _, badge := range newBadges {
		notification := &model.Notification{
			UserID:     userID,
			ActorID:    userID,
			EntityID:   userID,
			EntityType: "gamification",
			Type:       "badge_earned",
			Message:    fmt.Sprintf("You earned the %s badge: %s", badge.Name, badge.Description),
		}
		if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to send badge notification to user %s: %v", userID, err)
		}
	}

	prevLevel := LevelInfoFor(prevTotal)
	newLevel := LevelInfoFor(newTotal)
	if newLevel.CurrentLevel > prevLevel.CurrentLevel {
		notification := &model.Notification{
			UserID:     userID,
			ActorID:    userID,
			EntityID:   userID,
			EntityType: "gamification",
			Type:       "level_up",
			Message:    fmt.Sprintf("Congratulations! You reached level %d (%s) with %d points", newLevel.CurrentLevel, newLevel.LevelName, newTotal),
		}
		if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to send level up notification to user %s: %v", userID, err)
		}
	}
}

func (s *gamificationService) GetUserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error) {
	score, err := s.repo.FindScore(ctx, userID)
	if err != nil {
		return nil, err
	}

	badgeCount, err := s.repo.CountUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserStatsResponse{
		TotalPoints:   score.TotalPoints,
		MoviesRated:   score.MoviesRated,
		MoviesWatched: score.MoviesWatched,
		ListsCreated:  score.ListsCreated,
		CommentsMade:  score.CommentsMade,
		BadgesEarned:  badgeCount,
		TotalBadges:   len(BadgeCatalog),
		LevelInfo:     toLevelInfoDTO(LevelInfoFor(score.TotalPoints)),
	}, nil
}

func (s *gamificationService) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]dto.EarnedBadge, error) {
	userBadges, err := s.repo.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges := make([]dto.EarnedBadge, 0, len(userBadges))
	for _, ub := range userBadges {
		badges = append(badges, dto.EarnedBadge{
			BadgeID:     ub.Badge.BadgeID,
			Name:        ub.Badge.Name,
			Description: ub.Badge.Description,
			Icon:        ub.Badge.Icon,
			Color:       ub.Badge.Color,
			EarnedAt:    ub.EarnedAt,
		})
	}
	return badges, nil
}

func (s *gamificationService) GetUserProgress(ctx context.Context, userID uuid.UUID) (map[string]dto.BadgeProgress, error) {
	score, err := s.repo.FindScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned, err := s.repo.EarnedBadgeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := make(map[string]dto.BadgeProgress)
	for _, spec := range BadgeCatalog {
		if earned[spec.ID] {
			continue
		}

		counters := make(map[string]dto.CounterProgress, len(spec.Requirements))
		for _, req := range spec.Requirements {
			current := CounterValue(score, req.Counter)
			percentage := 100.0
			if req.Min > 0 {
				percentage = math.Min(100, float64(current)/float64(req.Min)*100)
			}
			counters[string(req.Counter)] = dto.CounterProgress{
				Current:    current,
				Required:   req.Min,
				Percentage: math.Round(percentage*100) / 100,
			}
		}

		progress[spec.ID] = dto.BadgeProgress{
			Name:        spec.Name,
			Description: spec.Description,
			Progress:    counters,
		}
	}
	return progress, nil
}

func (s *gamificationService) GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	scores, err := s.repo.TopScores(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		entries = append(entries, dto.LeaderboardEntry{
			Position:    i + 1,
			Username:    score.User.Username,
			AvatarURL:   score.User.AvatarURL,
			TotalPoints: score.TotalPoints,
			LevelInfo:   toLevelInfoDTO(LevelInfoFor(score.TotalPoints)),
		})
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("failed to cache leaderboard: %v", err)
			}
		}
	}
	return entries, nil
}

func (s *gamificationService) GetRecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]dto.ActivityEntry, error) {
	logs, err := s.repo.RecentPointLogs(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.ActivityEntry, 0, len(logs))
	for _, entry := range logs {
		entries = append(entries, dto.ActivityEntry{
			Points:     entry.Points,
			Reason:     entry.Reason,
			TotalAfter: entry.TotalAfter,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return entries, nil
}

func (s *gamificationService) GetLevelInfo(ctx context.Context, userID uuid.UUID) (*dto.LevelInfo, error) {
	score, err := s.repo.FindScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toLevelInfoDTO(LevelInfoFor(score.TotalPoints))
	return &info, nil
}

func (s *gamificationService) invalidateLeaderboard() {
	if s.redisClient == nil {
		return
	}
	ctx := context.Background()
	iter := s.redisClient.Scan(ctx, 0, "leaderboard:top:*", 50).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("failed to drop leaderboard cache key %s: %v", iter.Val(), err)
		}
	}
}

func toLevelInfoDTO(info LevelInfo) dto.LevelInfo {
	return dto.LevelInfo{
		CurrentLevel:       info.CurrentLevel,
		LevelName:          info.LevelName,
		NextLevel:          info.NextLevel,
		NextLevelName:      info.NextLevelName,
		PointsNeeded:       info.PointsNeeded,
		ProgressPercentage: info.ProgressPercentage,
		CurrentPoints:      info.CurrentPoints,
		LevelMinPoints:     info.LevelMinPoints,
		LevelMaxPoints:     info.LevelMaxPoints,
	}
}
