package service

import (
	"math"

	"github.com/cinelog/cinelog-backend/internal/model"
)

// ActionKind is a fixed category of user activity that earns or loses points.
type ActionKind string

const (
	ActionRateMovie     ActionKind = "rate_movie"
	ActionWatchMovie    ActionKind = "watch_movie"
	ActionCreateList    ActionKind = "create_list"
	ActionAddToList     ActionKind = "add_to_list"
	ActionMakeComment   ActionKind = "make_comment"
	ActionReceiveLike   ActionKind = "receive_like"
	ActionReceiveUnlike ActionKind = "receive_unlike"
)

var pointValues = map[ActionKind]int{
	ActionRateMovie:     10,
	ActionWatchMovie:    5,
	ActionCreateList:    15,
	ActionAddToList:     2,
	ActionMakeComment:   5,
	ActionReceiveLike:   1,
	ActionReceiveUnlike: -1,
}

// PointValue returns the point delta for an action kind. The second return
// is false for unknown kinds; callers treat that as a no-op.
func PointValue(action ActionKind) (int, bool) {
	v, ok := pointValues[action]
	return v, ok
}

// Counter identifies a UserScore activity counter. The value doubles as the
// database column name used for atomic increments.
type Counter string

const (
	CounterMoviesRated   Counter = "movies_rated"
	CounterMoviesWatched Counter = "movies_watched"
	CounterListsCreated  Counter = "lists_created"
	CounterCommentsMade  Counter = "comments_made"
	CounterTotalPoints   Counter = "total_points"
)

var counterGetters = map[Counter]func(*model.UserScore) int{
	CounterMoviesRated:   func(s *model.UserScore) int { return s.MoviesRated },
	CounterMoviesWatched: func(s *model.UserScore) int { return s.MoviesWatched },
	CounterListsCreated:  func(s *model.UserScore) int { return s.ListsCreated },
	CounterCommentsMade:  func(s *model.UserScore) int { return s.CommentsMade },
	CounterTotalPoints:   func(s *model.UserScore) int { return s.TotalPoints },
}

// CounterValue reads a named counter off a score. Unknown counters read as 0
// so an out-of-catalog requirement can never qualify.
func CounterValue(score *model.UserScore, counter Counter) int {
	if getter, ok := counterGetters[counter]; ok {
		return getter(score)
	}
	return 0
}

// actionCounters maps an action kind to the counter it increments. Actions
// without an entry (likes/unlikes, list additions) only move total_points.
var actionCounters = map[ActionKind]Counter{
	ActionRateMovie:   CounterMoviesRated,
	ActionWatchMovie:  CounterMoviesWatched,
	ActionCreateList:  CounterListsCreated,
	ActionMakeComment: CounterCommentsMade,
}

// CounterForAction returns the counter column incremented by an action, or
// "" when the action has none.
func CounterForAction(action ActionKind) Counter {
	return actionCounters[action]
}

// Level is an inclusive [MinPoints, MaxPoints] band over total points.
type Level struct {
	Number    int    `json:"number"`
	MinPoints int    `json:"min_points"`
	MaxPoints int    `json:"max_points"`
	Name      string `json:"name"`
}

// Levels are contiguous and evaluated in ascending order; the first band
// containing the total wins, and the top band is unbounded.
var Levels = []Level{
	{Number: 1, MinPoints: 0, MaxPoints: 99, Name: "Novice"},
	{Number: 2, MinPoints: 100, MaxPoints: 249, Name: "Apprentice"},
	{Number: 3, MinPoints: 250, MaxPoints: 499, Name: "Enthusiast"},
	{Number: 4, MinPoints: 500, MaxPoints: 999, Name: "Expert"},
	{Number: 5, MinPoints: 1000, MaxPoints: 1999, Name: "Master"},
	{Number: 6, MinPoints: 2000, MaxPoints: 3999, Name: "Legend"},
	{Number: 7, MinPoints: 4000, MaxPoints: 9999, Name: "Mythic"},
	{Number: 8, MinPoints: 10000, MaxPoints: math.MaxInt, Name: "Divine"},
}

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

// LevelInfoFor computes the level band containing totalPoints and the
// progress towards the next band. Totals below the first band (negative)
// fall back to level 1.
func LevelInfoFor(totalPoints int) LevelInfo {
	current := Levels[0]
	for _, lvl := range Levels {
		if totalPoints >= lvl.MinPoints && totalPoints <= lvl.MaxPoints {
			current = lvl
			break
		}
	}

	info := LevelInfo{
		CurrentLevel:   current.Number,
		LevelName:      current.Name,
		CurrentPoints:  totalPoints,
		LevelMinPoints: current.MinPoints,
		LevelMaxPoints: current.MaxPoints,
	}

	if current.Number < len(Levels) {
		next := Levels[current.Number] // levels are 1-based, slice is 0-based
		info.NextLevel = next.Number
		info.NextLevelName = next.Name
		info.PointsNeeded = next.MinPoints - totalPoints
		progress := float64(totalPoints-current.MinPoints) / float64(next.MinPoints-current.MinPoints) * 100
		info.ProgressPercentage = math.Round(math.Min(100, math.Max(0, progress))*100) / 100
	} else {
		info.NextLevelName = "Max Level"
		info.PointsNeeded = 0
		info.ProgressPercentage = 100
	}

	return info
}

// Requirement is a minimum threshold on a named counter.
type Requirement struct {
	Counter Counter `json:"counter"`
	Min     int     `json:"min"`
}

// BadgeSpec is a catalog entry. A user qualifies when every requirement's
// counter is at or above its minimum.
type BadgeSpec struct {
	ID           string
	Name         string
	Description  string
	RewardPoints int
	Icon         string
	Color        string
	Requirements []Requirement
}

// Qualifies reports whether a score meets every requirement of a badge.
func Qualifies(score *model.UserScore, spec BadgeSpec) bool {
	for _, req := range spec.Requirements {
		if CounterValue(score, req.Counter) < req.Min {
			return false
		}
	}
	return true
}

// BadgeCatalog declaration order is the evaluation (and granting) order.
var BadgeCatalog = []BadgeSpec{
	// Rating badges
	{ID: "first_rating", Name: "First Critic", Description: "Rated your first movie",
		RewardPoints: 25, Icon: "star", Color: "#FFD700",
		Requirements: []Requirement{{CounterMoviesRated, 1}}},
	{ID: "rating_milestone_5", Name: "Movie Critic", Description: "Rated 5 movies",
		RewardPoints: 50, Icon: "star_rate", Color: "#FFA500",
		Requirements: []Requirement{{CounterMoviesRated, 5}}},
	{ID: "rating_milestone_10", Name: "Film Enthusiast", Description: "Rated 10 movies",
		RewardPoints: 100, Icon: "stars", Color: "#FF6347",
		Requirements: []Requirement{{CounterMoviesRated, 10}}},
	{ID: "rating_milestone_25", Name: "Cinema Expert", Description: "Rated 25 movies",
		RewardPoints: 200, Icon: "star_half", Color: "#9370DB",
		Requirements: []Requirement{{CounterMoviesRated, 25}}},
	{ID: "rating_milestone_50", Name: "Movie Master", Description: "Rated 50 movies",
		RewardPoints: 400, Icon: "star_border", Color: "#32CD32",
		Requirements: []Requirement{{CounterMoviesRated, 50}}},
	{ID: "rating_milestone_100", Name: "Legendary Critic", Description: "Rated 100 movies",
		RewardPoints: 1000, Icon: "star_purple500", Color: "#FF1493",
		Requirements: []Requirement{{CounterMoviesRated, 100}}},

	// Watching badges
	{ID: "first_watch", Name: "First Viewer", Description: "Watched your first movie",
		RewardPoints: 20, Icon: "visibility", Color: "#87CEEB",
		Requirements: []Requirement{{CounterMoviesWatched, 1}}},
	{ID: "watch_milestone_5", Name: "Movie Watcher", Description: "Watched 5 movies",
		RewardPoints: 40, Icon: "visibility", Color: "#4682B4",
		Requirements: []Requirement{{CounterMoviesWatched, 5}}},
	{ID: "watch_milestone_10", Name: "Film Viewer", Description: "Watched 10 movies",
		RewardPoints: 80, Icon: "visibility", Color: "#191970",
		Requirements: []Requirement{{CounterMoviesWatched, 10}}},
	{ID: "watch_milestone_25", Name: "Cinema Goer", Description: "Watched 25 movies",
		RewardPoints: 150, Icon: "visibility", Color: "#4B0082",
		Requirements: []Requirement{{CounterMoviesWatched, 25}}},
	{ID: "watch_milestone_50", Name: "Movie Marathoner", Description: "Watched 50 movies",
		RewardPoints: 300, Icon: "visibility", Color: "#8A2BE2",
		Requirements: []Requirement{{CounterMoviesWatched, 50}}},
	{ID: "watch_milestone_100", Name: "Ultimate Viewer", Description: "Watched 100 movies",
		RewardPoints: 800, Icon: "visibility", Color: "#FF00FF",
		Requirements: []Requirement{{CounterMoviesWatched, 100}}},

	// List creation badges
	{ID: "first_list", Name: "List Creator", Description: "Created your first personal list",
		RewardPoints: 30, Icon: "playlist_add", Color: "#90EE90",
		Requirements: []Requirement{{CounterListsCreated, 1}}},
	{ID: "list_milestone_3", Name: "List Organizer", Description: "Created 3 personal lists",
		RewardPoints: 60, Icon: "playlist_add_check", Color: "#228B22",
		Requirements: []Requirement{{CounterListsCreated, 3}}},
	{ID: "list_milestone_5", Name: "List Master", Description: "Created 5 personal lists",
		RewardPoints: 120, Icon: "playlist_play", Color: "#006400",
		Requirements: []Requirement{{CounterListsCreated, 5}}},

	// Comment badges
	{ID: "first_comment", Name: "First Commenter", Description: "Made your first comment",
		RewardPoints: 15, Icon: "comment", Color: "#98FB98",
		Requirements: []Requirement{{CounterCommentsMade, 1}}},
	{ID: "comment_milestone_5", Name: "Active Commenter", Description: "Made 5 comments",
		RewardPoints: 30, Icon: "comment", Color: "#00FF7F",
		Requirements: []Requirement{{CounterCommentsMade, 5}}},
	{ID: "comment_milestone_10", Name: "Discussion Starter", Description: "Made 10 comments",
		RewardPoints: 60, Icon: "forum", Color: "#00CED1",
		Requirements: []Requirement{{CounterCommentsMade, 10}}},
	{ID: "comment_milestone_25", Name: "Community Voice", Description: "Made 25 comments",
		RewardPoints: 120, Icon: "forum", Color: "#20B2AA",
		Requirements: []Requirement{{CounterCommentsMade, 25}}},
	{ID: "comment_milestone_50", Name: "Discussion Leader", Description: "Made 50 comments",
		RewardPoints: 250, Icon: "forum", Color: "#008B8B",
		Requirements: []Requirement{{CounterCommentsMade, 50}}},

	// Points milestone badges
	{ID: "points_milestone_100", Name: "Point Collector", Description: "Earned 100 points",
		RewardPoints: 50, Icon: "emoji_events", Color: "#FFD700",
		Requirements: []Requirement{{CounterTotalPoints, 100}}},
	{ID: "points_milestone_250", Name: "Point Hunter", Description: "Earned 250 points",
		RewardPoints: 100, Icon: "emoji_events", Color: "#C0C0C0",
		Requirements: []Requirement{{CounterTotalPoints, 250}}},
	{ID: "points_milestone_500", Name: "Point Champion", Description: "Earned 500 points",
		RewardPoints: 200, Icon: "emoji_events", Color: "#CD7F32",
		Requirements: []Requirement{{CounterTotalPoints, 500}}},
	{ID: "points_milestone_1000", Name: "Point Legend", Description: "Earned 1000 points",
		RewardPoints: 500, Icon: "emoji_events", Color: "#FF1493",
		Requirements: []Requirement{{CounterTotalPoints, 1000}}},

	// Level badges
	{ID: "level_1", Name: "Novice", Description: "Reached Level 1",
		RewardPoints: 0, Icon: "grade", Color: "#B0B0B0",
		Requirements: []Requirement{{CounterTotalPoints, 0}}},
	{ID: "level_2", Name: "Apprentice", Description: "Reached Level 2",
		RewardPoints: 50, Icon: "grade", Color: "#CD7F32",
		Requirements: []Requirement{{CounterTotalPoints, 100}}},
	{ID: "level_3", Name: "Enthusiast", Description: "Reached Level 3",
		RewardPoints: 100, Icon: "grade", Color: "#C0C0C0",
		Requirements: []Requirement{{CounterTotalPoints, 250}}},
	{ID: "level_4", Name: "Expert", Description: "Reached Level 4",
		RewardPoints: 200, Icon: "grade", Color: "#FFD700",
		Requirements: []Requirement{{CounterTotalPoints, 500}}},
	{ID: "level_5", Name: "Master", Description: "Reached Level 5",
		RewardPoints: 500, Icon: "grade", Color: "#FF1493",
		Requirements: []Requirement{{CounterTotalPoints, 1000}}},
	{ID: "level_6", Name: "Legend", Description: "Reached Level 6",
		RewardPoints: 1000, Icon: "grade", Color: "#FF00FF",
		Requirements: []Requirement{{CounterTotalPoints, 2000}}},
	{ID: "level_7", Name: "Mythic", Description: "Reached Level 7",
		RewardPoints: 2000, Icon: "grade", Color: "#8A2BE2",
		Requirements: []Requirement{{CounterTotalPoints, 4000}}},
	{ID: "level_8", Name: "Divine", Description: "Reached Level 8",
		RewardPoints: 5000, Icon: "grade", Color: "#FFD700",
		Requirements: []Requirement{{CounterTotalPoints, 10000}}},
}

// BadgeSpecByID looks up a catalog entry by its badge id.
func BadgeSpecByID(id string) (BadgeSpec, bool) {
	for _, spec := range BadgeCatalog {
		if spec.ID == id {
			return spec, true
		}
	}
	return BadgeSpec{}, false
}
