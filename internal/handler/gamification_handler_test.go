package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/cinelog/cinelog-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGamificationRouter(t *testing.T) (*gin.Engine, *gorm.DB, service.GamificationService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	userRepo := repository.NewUserRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)
	svc := service.NewGamificationService(gamificationRepo, nil, nil)
	h := NewGamificationHandler(svc, userRepo)

	r := gin.New()
	r.GET("/api/leaderboard", h.GetLeaderboard)
	r.GET("/api/users/:username/stats", h.GetUserStats)
	r.GET("/api/users/:username/badges", h.GetUserBadges)
	return r, db, svc
}

func seedUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func httpGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetUserStatsEndpoint(t *testing.T) {
	r, db, svc := setupGamificationRouter(t)
	user := seedUser(t, db, "alice")

	_, err := svc.AwardPoints(context.Background(), user.ID, service.ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)

	w := httpGet(r, "/api/users/alice/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			TotalPoints  int `json:"total_points"`
			MoviesRated  int `json:"movies_rated"`
			BadgesEarned int `json:"badges_earned"`
			LevelInfo    struct {
				CurrentLevel int    `json:"current_level"`
				LevelName    string `json:"level_name"`
			} `json:"level_info"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 35, body.Data.TotalPoints)
	require.Equal(t, 1, body.Data.MoviesRated)
	require.Equal(t, 2, body.Data.BadgesEarned)
	require.Equal(t, 1, body.Data.LevelInfo.CurrentLevel)
	require.Equal(t, "Novice", body.Data.LevelInfo.LevelName)
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	r, _, _ := setupGamificationRouter(t)

	w := httpGet(r, "/api/users/ghost/stats")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserBadgesEndpoint(t *testing.T) {
	r, db, svc := setupGamificationRouter(t)
	user := seedUser(t, db, "alice")

	_, err := svc.AwardPoints(context.Background(), user.ID, service.ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)

	w := httpGet(r, "/api/users/alice/badges")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			BadgeID string `json:"badge_id"`
			Name    string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)

	ids := make(map[string]bool)
	for _, b := range body.Data {
		ids[b.BadgeID] = true
	}
	require.True(t, ids["first_rating"])
	require.True(t, ids["level_1"])
}

func TestGetLeaderboardEndpoint(t *testing.T) {
	r, db, svc := setupGamificationRouter(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.AwardPoints(ctx, alice.ID, service.ActionRateMovie, "Rated Inception", "tt1375666")
	require.NoError(t, err)
	_, err = svc.AwardPoints(ctx, bob.ID, service.ActionMakeComment, "Commented", "tt1375666_comment_1")
	require.NoError(t, err)

	w := httpGet(r, "/api/leaderboard")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Position    int    `json:"position"`
			Username    string `json:"username"`
			TotalPoints int    `json:"total_points"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "alice", body.Data[0].Username)
	require.Equal(t, 1, body.Data[0].Position)
	require.Equal(t, "bob", body.Data[1].Username)

	// limit is clamped to a sane range
	w = httpGet(r, "/api/leaderboard?limit=-3")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
}
