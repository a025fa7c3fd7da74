package service

import (
	"testing"

	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/stretchr/testify/require"
)

func TestPointValue(t *testing.T) {
	v, ok := PointValue(ActionRateMovie)
	require.True(t, ok)
	require.Equal(t, 10, v)

	v, ok = PointValue(ActionReceiveUnlike)
	require.True(t, ok)
	require.Equal(t, -1, v)

	_, ok = PointValue(ActionKind("hack_points"))
	require.False(t, ok)
}

func TestCounterForAction(t *testing.T) {
	require.Equal(t, CounterMoviesRated, CounterForAction(ActionRateMovie))
	require.Equal(t, CounterMoviesWatched, CounterForAction(ActionWatchMovie))
	require.Equal(t, CounterListsCreated, CounterForAction(ActionCreateList))
	require.Equal(t, CounterCommentsMade, CounterForAction(ActionMakeComment))

	// Likes and list additions only move the running total
	require.Equal(t, Counter(""), CounterForAction(ActionReceiveLike))
	require.Equal(t, Counter(""), CounterForAction(ActionAddToList))
}

func TestLevelInfoFor(t *testing.T) {
	cases := []struct {
		total    int
		level    int
		name     string
		nextName string
		needed   int
		progress float64
	}{
		{0, 1, "Novice", "Apprentice", 100, 0},
		{35, 1, "Novice", "Apprentice", 65, 35},
		{99, 1, "Novice", "Apprentice", 1, 99},
		{100, 2, "Apprentice", "Enthusiast", 150, 0},
		{225, 2, "Apprentice", "Enthusiast", 25, 83.33},
		{9999, 7, "Mythic", "Divine", 1, 99.98},
	}

	for _, tc := range cases {
		info := LevelInfoFor(tc.total)
		require.Equal(t, tc.level, info.CurrentLevel, "total=%d", tc.total)
		require.Equal(t, tc.name, info.LevelName, "total=%d", tc.total)
		require.Equal(t, tc.nextName, info.NextLevelName, "total=%d", tc.total)
		require.Equal(t, tc.needed, info.PointsNeeded, "total=%d", tc.total)
		require.InDelta(t, tc.progress, info.ProgressPercentage, 0.01, "total=%d", tc.total)
	}
}

func TestLevelInfoForTopLevel(t *testing.T) {
	info := LevelInfoFor(10000)
	require.Equal(t, 8, info.CurrentLevel)
	require.Equal(t, "Divine", info.LevelName)
	require.Equal(t, "Max Level", info.NextLevelName)
	require.Equal(t, 0, info.PointsNeeded)
	require.Equal(t, 100.0, info.ProgressPercentage)
}

func TestLevelInfoForNegativeTotal(t *testing.T) {
	// Totals can go negative through unlikes; they read as level 1 with
	// zero progress.
	info := LevelInfoFor(-5)
	require.Equal(t, 1, info.CurrentLevel)
	require.Equal(t, "Novice", info.LevelName)
	require.Equal(t, 0.0, info.ProgressPercentage)
}

func TestLevelsAreContiguous(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		require.Equal(t, Levels[i-1].MaxPoints+1, Levels[i].MinPoints)
		require.Equal(t, i+1, Levels[i].Number)
	}
}

func TestBadgeCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool, len(BadgeCatalog))
	for _, spec := range BadgeCatalog {
		require.False(t, seen[spec.ID], "duplicate badge id %s", spec.ID)
		seen[spec.ID] = true
		require.NotEmpty(t, spec.Name)
		require.NotEmpty(t, spec.Requirements)
	}
}

func TestBadgeSpecByID(t *testing.T) {
	spec, ok := BadgeSpecByID("first_rating")
	require.True(t, ok)
	require.Equal(t, "First Critic", spec.Name)
	require.Equal(t, 25, spec.RewardPoints)

	_, ok = BadgeSpecByID("nonexistent")
	require.False(t, ok)
}

func TestQualifies(t *testing.T) {
	spec := BadgeSpec{
		ID: "test",
		Requirements: []Requirement{
			{CounterMoviesRated, 5},
			{CounterTotalPoints, 100},
		},
	}

	require.False(t, Qualifies(&model.UserScore{MoviesRated: 5, TotalPoints: 99}, spec))
	require.False(t, Qualifies(&model.UserScore{MoviesRated: 4, TotalPoints: 100}, spec))
	require.True(t, Qualifies(&model.UserScore{MoviesRated: 5, TotalPoints: 100}, spec))
}
