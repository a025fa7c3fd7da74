package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cinelog/cinelog-backend/internal/dto"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/cinelog/cinelog-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, reviewID uuid.UUID, input dto.CreateCommentInput) (*model.Comment, error)
	GetReviewComments(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]model.Comment, error)
}

type commentService struct {
	repo                repository.CommentRepository
	reviewRepo          repository.ReviewRepository
	gamification        GamificationService
	notificationService NotificationService
	redisClient         *redis.Client
	rateLimit           time.Duration
}

func NewCommentService(repo repository.CommentRepository, reviewRepo repository.ReviewRepository, gamification GamificationService, notificationService NotificationService, redisClient *redis.Client, rateLimit time.Duration) CommentService {
	return &commentService{
		repo:                repo,
		reviewRepo:          reviewRepo,
		gamification:        gamification,
		notificationService: notificationService,
		redisClient:         redisClient,
		rateLimit:           rateLimit,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, reviewID uuid.UUID, input dto.CreateCommentInput) (*model.Comment, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "make_comment", s.rateLimit)
	if err != nil {
		log.Printf("rate limit check failed for user %s: %v", userID, err)
	} else if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "make_comment")
		return nil, RateLimitError(ttl)
	}

	comment := model.Comment{
		UserID:   userID,
		ReviewID: reviewID,
		Body:     input.Body,
	}
	if err := s.repo.Create(ctx, &comment); err != nil {
		return nil, err
	}

	if _, err := s.gamification.AwardPoints(ctx, userID, ActionMakeComment,
		fmt.Sprintf("Commented on a review of %s", review.Movie.Title),
		fmt.Sprintf("%s_comment_%s", review.Movie.ImdbID, comment.ID)); err != nil {
		log.Printf("failed to award comment points to user %s: %v", userID, err)
	}

	if review.UserID != userID && s.notificationService != nil {
		notification := &model.Notification{
			UserID:     review.UserID,
			ActorID:    userID,
			EntityID:   reviewID,
			EntityType: "review",
			Type:       "review_comment",
			Message:    fmt.Sprintf("Someone commented on your review of %s", review.Movie.Title),
		}
		if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to send comment notification to user %s: %v", review.UserID, err)
		}
	}

	return &comment, nil
}

func (s *commentService) GetReviewComments(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]model.Comment, error) {
	return s.repo.FindByReview(ctx, reviewID, limit, offset)
}
