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

type ReviewService interface {
	// RateMovie creates or updates the user's review. Points are awarded
	// through the engine's dedup key (the movie's imdb id), so re-rating
	// never earns twice.
	RateMovie(ctx context.Context, userID, movieID uuid.UUID, input dto.RateMovieInput) (*model.Review, error)
	GetMovieReviews(ctx context.Context, movieID uuid.UUID, limit, offset int) ([]dto.ReviewResponse, error)

	LikeReview(ctx context.Context, userID, reviewID uuid.UUID) error
	UnlikeReview(ctx context.Context, userID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo                repository.ReviewRepository
	movieRepo           repository.MovieRepository
	gamification        GamificationService
	notificationService NotificationService
	redisClient         *redis.Client
	rateLimit           time.Duration
}

func NewReviewService(repo repository.ReviewRepository, movieRepo repository.MovieRepository, gamification GamificationService, notificationService NotificationService, redisClient *redis.Client, rateLimit time.Duration) ReviewService {
	return &reviewService{
		repo:                repo,
		movieRepo:           movieRepo,
		gamification:        gamification,
		notificationService: notificationService,
		redisClient:         redisClient,
		rateLimit:           rateLimit,
	}
}

func (s *reviewService) RateMovie(ctx context.Context, userID, movieID uuid.UUID, input dto.RateMovieInput) (*model.Review, error) {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "rate_movie", s.rateLimit)
	if err != nil {
		log.Printf("rate limit check failed for user %s: %v", userID, err)
	} else if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "rate_movie")
		return nil, RateLimitError(ttl)
	}

	review := model.Review{
		UserID:  userID,
		MovieID: movieID,
		Rating:  input.Rating,
		Body:    input.Body,
	}
	if _, err := s.repo.Upsert(ctx, &review); err != nil {
		return nil, err
	}

	if _, err := s.gamification.AwardPoints(ctx, userID, ActionRateMovie,
		fmt.Sprintf("Rated %s", movie.Title), movie.ImdbID); err != nil {
		log.Printf("failed to award rating points to user %s: %v", userID, err)
	}

	return &review, nil
}

func (s *reviewService) GetMovieReviews(ctx context.Context, movieID uuid.UUID, limit, offset int) ([]dto.ReviewResponse, error) {
	reviews, err := s.repo.FindByMovie(ctx, movieID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		likes, unlikes, err := s.repo.LikeCounts(ctx, review.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.ReviewResponse{
			ID:        review.ID,
			Username:  review.User.Username,
			Rating:    review.Rating,
			Body:      review.Body,
			Likes:     likes,
			Unlikes:   unlikes,
			CreatedAt: review.CreatedAt,
		})
	}
	return responses, nil
}

func (s *reviewService) LikeReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.toggleVote(ctx, userID, reviewID, 1)
}

func (s *reviewService) UnlikeReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.toggleVote(ctx, userID, reviewID, -1)
}

func (s *reviewService) toggleVote(ctx context.Context, userID, reviewID uuid.UUID, value int) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	_, current, err := s.repo.ToggleLike(ctx, userID, reviewID, value)
	if err != nil {
		return err
	}

	// Award the review author only when a vote lands, never for removals
	// or self-votes. The dedup keys mirror the vote direction, so a user
	// flip-flopping on the same review pays out each direction at most once.
	if current == 0 || review.UserID == userID {
		return nil
	}

	var action ActionKind
	var actionID, reason string
	if current > 0 {
		action = ActionReceiveLike
		actionID = fmt.Sprintf("like_%s_%s", reviewID, userID)
		reason = fmt.Sprintf("Received like on review for %s", review.Movie.Title)
	} else {
		action = ActionReceiveUnlike
		actionID = fmt.Sprintf("unlike_%s_%s", reviewID, userID)
		reason = fmt.Sprintf("Received unlike on review for %s", review.Movie.Title)
	}

	if _, err := s.gamification.AwardPoints(ctx, review.UserID, action, reason, actionID); err != nil {
		log.Printf("failed to award vote points to user %s: %v", review.UserID, err)
	}

	if current > 0 && s.notificationService != nil {
		notification := &model.Notification{
			UserID:     review.UserID,
			ActorID:    userID,
			EntityID:   reviewID,
			EntityType: "review",
			Type:       "review_like",
			Message:    fmt.Sprintf("Someone liked your review of %s", review.Movie.Title),
		}
		if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to send like notification to user %s: %v", review.UserID, err)
		}
	}
	return nil
}
