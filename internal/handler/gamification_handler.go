package handler

import (
	"net/http"
	"strconv"

	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/cinelog/cinelog-backend/internal/service"
	"github.com/cinelog/cinelog-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GamificationHandler struct {
	service  service.GamificationService
	userRepo repository.UserRepository
}

func NewGamificationHandler(service service.GamificationService, userRepo repository.UserRepository) *GamificationHandler {
	return &GamificationHandler{service: service, userRepo: userRepo}
}

func (h *GamificationHandler) GetMyStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	h.respondStats(c, userID)
}

func (h *GamificationHandler) GetUserStats(c *gin.Context) {
	userID, ok := h.resolveUsername(c)
	if !ok {
		return
	}
	h.respondStats(c, userID)
}

func (h *GamificationHandler) respondStats(c *gin.Context, userID uuid.UUID) {
	stats, err := h.service.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *GamificationHandler) GetUserBadges(c *gin.Context) {
	userID, ok := h.resolveUsername(c)
	if !ok {
		return
	}

	badges, err := h.service.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": badges})
}

func (h *GamificationHandler) GetMyProgress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	progress, err := h.service.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": progress})
}

func (h *GamificationHandler) GetMyLevel(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	level, err := h.service.GetLevelInfo(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": level})
}

func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, _ := strconv.Atoi(limitStr)

	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	leaderboard, err := h.service.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leaderboard})
}

func (h *GamificationHandler) GetMyActivity(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limitStr := c.DefaultQuery("limit", "20")
	limit, _ := strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	activity, err := h.service.GetRecentActivity(c.Request.Context(), userID, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activity})
}

// BackfillBadges re-evaluates badges for every user. Admin only, used
// after new badges are introduced.
func (h *GamificationHandler) BackfillBadges(c *gin.Context) {
	granted, err := h.service.BackfillBadges(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"badges_granted": granted}})
}

func (h *GamificationHandler) resolveUsername(c *gin.Context) (uuid.UUID, bool) {
	username := c.Param("username")
	user, err := h.userRepo.FindByUsername(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return uuid.Nil, false
	}
	return user.ID, true
}
