package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/cinelog/cinelog-backend/internal/dto"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGamification(t *testing.T) (GamificationService, *gorm.DB) {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.UserScore{},
		&model.PointLog{},
		&model.ActionLog{},
		&model.Badge{},
		&model.UserBadge{},
	))

	repo := repository.NewGamificationRepository(db)
	return NewGamificationService(repo, nil, nil), db
}

func createUser(t *testing.T, db *gorm.DB, username string) uuid.UUID {
	t.Helper()
	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func userScore(t *testing.T, db *gorm.DB, userID uuid.UUID) model.UserScore {
	t.Helper()
	var score model.UserScore
	require.NoError(t, db.Where("user_id = ?", userID).First(&score).Error)
	return score
}

func badgeIDs(t *testing.T, svc GamificationService, userID uuid.UUID) map[string]bool {
	t.Helper()
	badges, err := svc.GetUserBadges(context.Background(), userID)
	require.NoError(t, err)
	ids := make(map[string]bool, len(badges))
	for _, b := range badges {
		ids[b.BadgeID] = true
	}
	return ids
}

func TestAwardPointsFirstRating(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	granted, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	require.True(t, granted)

	// 10 base points plus the 25-point first_rating bonus
	score := userScore(t, db, userID)
	require.Equal(t, 35, score.TotalPoints)
	require.Equal(t, 1, score.MoviesRated)
	require.Equal(t, 0, score.MoviesWatched)

	earned := badgeIDs(t, svc, userID)
	require.True(t, earned["first_rating"])
	require.True(t, earned["level_1"])
	require.Len(t, earned, 2)

	var logs []model.PointLog
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.Equal(t, 10, logs[0].Points)
	require.Equal(t, 10, logs[0].TotalAfter)
	require.Equal(t, "Rated Inception", logs[0].Reason)
	require.Equal(t, 25, logs[1].Points)
	require.Equal(t, 35, logs[1].TotalAfter)
	require.Equal(t, "Badge bonus: First Critic", logs[1].Reason)
}

func TestAwardPointsDuplicateAction(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	granted, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	require.True(t, granted)

	// Rating the same movie again must leave everything untouched
	granted, err = svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	require.False(t, granted)

	score := userScore(t, db, userID)
	require.Equal(t, 35, score.TotalPoints)
	require.Equal(t, 1, score.MoviesRated)

	var logCount int64
	require.NoError(t, db.Model(&model.PointLog{}).Where("user_id = ?", userID).Count(&logCount).Error)
	require.EqualValues(t, 2, logCount)
}

func TestAwardPointsSameActionIDDifferentKind(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	// Rating and watching the same movie share the imdb id but are
	// distinct actions, so both pay out.
	granted, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = svc.AwardPoints(ctx, userID, ActionWatchMovie, "Watched Inception", "tt1375666")
	require.NoError(t, err)
	require.True(t, granted)

	score := userScore(t, db, userID)
	require.Equal(t, 1, score.MoviesRated)
	require.Equal(t, 1, score.MoviesWatched)
	// 35 from the rating, 5 watch points, 20 first_watch bonus
	require.Equal(t, 60, score.TotalPoints)
}

func TestAwardPointsUnknownAction(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")

	granted, err := svc.AwardPoints(context.Background(), userID, ActionKind("hack_points"), "nope", "x")
	require.NoError(t, err)
	require.False(t, granted)

	var count int64
	require.NoError(t, db.Model(&model.UserScore{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestAwardPointsNegativeDelta(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	granted, err := svc.AwardPoints(ctx, userID, ActionReceiveUnlike, "Received unlike", "unlike_r1_u2")
	require.NoError(t, err)
	require.True(t, granted)

	score := userScore(t, db, userID)
	require.Equal(t, -1, score.TotalPoints)

	// A negative total still reads as level 1
	info, err := svc.GetLevelInfo(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, info.CurrentLevel)
}

func TestAwardPointsMilestoneCascade(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		granted, err := svc.AwardPoints(ctx, userID, ActionRateMovie,
			fmt.Sprintf("Rated movie %d", i), fmt.Sprintf("tt%07d", i))
		require.NoError(t, err)
		require.True(t, granted)
	}

	// The fifth rating lands rating_milestone_5 (+50), whose bonus pushes
	// the total past 100 within the same evaluation pass, which in turn
	// grants points_milestone_100 (+50) and level_2 (+50).
	score := userScore(t, db, userID)
	require.Equal(t, 5, score.MoviesRated)
	require.Equal(t, 225, score.TotalPoints)

	earned := badgeIDs(t, svc, userID)
	require.True(t, earned["first_rating"])
	require.True(t, earned["rating_milestone_5"])
	require.True(t, earned["points_milestone_100"])
	require.True(t, earned["level_1"])
	require.True(t, earned["level_2"])
	require.Len(t, earned, 5)
}

func TestPointLogReplayMatchesTotal(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	actions := []struct {
		kind     ActionKind
		actionID string
	}{
		{ActionRateMovie, "tt0000001"},
		{ActionWatchMovie, "tt0000001"},
		{ActionCreateList, "list_1"},
		{ActionAddToList, "add_to_list_tt0000001_1"},
		{ActionMakeComment, "tt0000001_comment_1"},
		{ActionReceiveLike, "like_r1_u2"},
		{ActionReceiveUnlike, "unlike_r1_u3"},
	}
	for _, a := range actions {
		_, err := svc.AwardPoints(ctx, userID, a.kind, string(a.kind), a.actionID)
		require.NoError(t, err)
	}

	var logs []model.PointLog
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&logs).Error)

	running := 0
	for _, entry := range logs {
		running += entry.Points
		require.Equal(t, running, entry.TotalAfter, "reason=%s", entry.Reason)
	}

	score := userScore(t, db, userID)
	require.Equal(t, running, score.TotalPoints)
}

func TestEvaluateBadgesIsIdempotent(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	total := userScore(t, db, userID).TotalPoints

	// Re-evaluation must not regrant badges or re-pay bonuses
	newBadges, err := svc.EvaluateBadges(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, newBadges)
	require.Equal(t, total, userScore(t, db, userID).TotalPoints)
}

func TestBackfillBadges(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	// A score that predates badge evaluation, e.g. imported data
	require.NoError(t, db.Create(&model.UserScore{
		UserID:      userID,
		TotalPoints: 120,
		MoviesRated: 6,
	}).Error)

	granted, err := svc.BackfillBadges(ctx)
	require.NoError(t, err)
	require.Greater(t, granted, 0)

	earned := badgeIDs(t, svc, userID)
	require.True(t, earned["first_rating"])
	require.True(t, earned["rating_milestone_5"])
	require.True(t, earned["points_milestone_100"])
}

func TestGetUserBadgesMetadata(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)

	// The earned-badge rows must come back joined to full catalog
	// metadata, not bare join rows.
	badges, err := svc.GetUserBadges(ctx, userID)
	require.NoError(t, err)
	require.Len(t, badges, 2)

	byID := make(map[string]dto.EarnedBadge, len(badges))
	for _, b := range badges {
		require.NotEmpty(t, b.BadgeID)
		require.NotEmpty(t, b.Name)
		require.False(t, b.EarnedAt.IsZero())
		byID[b.BadgeID] = b
	}
	require.Equal(t, "First Critic", byID["first_rating"].Name)
	require.Equal(t, "Rated your first movie", byID["first_rating"].Description)
	require.Equal(t, "star", byID["first_rating"].Icon)
	require.Equal(t, "#FFD700", byID["first_rating"].Color)
	require.Equal(t, "Novice", byID["level_1"].Name)
}

func TestGetUserStats(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)

	stats, err := svc.GetUserStats(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 35, stats.TotalPoints)
	require.Equal(t, 1, stats.MoviesRated)
	require.EqualValues(t, 2, stats.BadgesEarned)
	require.Equal(t, len(BadgeCatalog), stats.TotalBadges)
	require.Equal(t, 1, stats.LevelInfo.CurrentLevel)
	require.Equal(t, "Novice", stats.LevelInfo.LevelName)
}

func TestGetUserStatsFreshUser(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")

	stats, err := svc.GetUserStats(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalPoints)
	require.EqualValues(t, 0, stats.BadgesEarned)
	require.Equal(t, 1, stats.LevelInfo.CurrentLevel)
}

func TestGetUserProgress(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)

	progress, err := svc.GetUserProgress(ctx, userID)
	require.NoError(t, err)

	// Earned badges are excluded from the progress map
	require.NotContains(t, progress, "first_rating")
	require.NotContains(t, progress, "level_1")

	milestone, ok := progress["rating_milestone_5"]
	require.True(t, ok)
	counter := milestone.Progress[string(CounterMoviesRated)]
	require.Equal(t, 1, counter.Current)
	require.Equal(t, 5, counter.Required)
	require.InDelta(t, 20.0, counter.Percentage, 0.01)
}

func TestGetLeaderboard(t *testing.T) {
	svc, db := setupGamification(t)
	aliceID := createUser(t, db, "alice")
	bobID := createUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, aliceID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	_, err = svc.AwardPoints(ctx, bobID, ActionMakeComment, "Commented", "tt1375666_comment_1")
	require.NoError(t, err)

	entries, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1, entries[0].Position)
	require.Equal(t, "alice", entries[0].Username)
	require.Equal(t, 35, entries[0].TotalPoints)
	require.Equal(t, "bob", entries[1].Username)

	entries, err = svc.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestGetRecentActivity(t *testing.T) {
	svc, db := setupGamification(t)
	userID := createUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, userID, ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)

	activity, err := svc.GetRecentActivity(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, activity, 2)

	// Newest first: the badge bonus follows the base award
	require.Equal(t, "Badge bonus: First Critic", activity[0].Reason)
	require.Equal(t, 35, activity[0].TotalAfter)
	require.Equal(t, "Rated Inception", activity[1].Reason)
}
