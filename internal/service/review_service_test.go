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

func setupReviews(t *testing.T) (ReviewService, *gorm.DB, uuid.UUID) {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Movie{},
		&model.Review{},
		&model.ReviewLike{},
		&model.UserScore{},
		&model.PointLog{},
		&model.ActionLog{},
		&model.Badge{},
		&model.UserBadge{},
	))

	movieRepo := repository.NewMovieRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	gamificationSvc := NewGamificationService(repository.NewGamificationRepository(db), nil, nil)
	svc := NewReviewService(reviewRepo, movieRepo, gamificationSvc, nil, nil, 0)

	movie := model.Movie{ImdbID: "tt1375666", Title: "Inception", Year: "2010"}
	require.NoError(t, movieRepo.Create(context.Background(), &movie))
	return svc, db, movie.ID
}

func TestRateMovieAwardsOnce(t *testing.T) {
	svc, db, movieID := setupReviews(t)
	authorID := createUser(t, db, "author")
	ctx := context.Background()

	review, err := svc.RateMovie(ctx, authorID, movieID, dto.RateMovieInput{Rating: 8, Body: "great"})
	require.NoError(t, err)
	require.Equal(t, 8, review.Rating)

	score := userScore(t, db, authorID)
	require.Equal(t, 35, score.TotalPoints)
	require.Equal(t, 1, score.MoviesRated)

	// Re-rating updates the review in place and pays nothing extra
	review, err = svc.RateMovie(ctx, authorID, movieID, dto.RateMovieInput{Rating: 3, Body: "on rewatch, not so much"})
	require.NoError(t, err)
	require.Equal(t, 3, review.Rating)

	var reviewCount int64
	require.NoError(t, db.Model(&model.Review{}).Count(&reviewCount).Error)
	require.EqualValues(t, 1, reviewCount)

	score = userScore(t, db, authorID)
	require.Equal(t, 35, score.TotalPoints)
	require.Equal(t, 1, score.MoviesRated)
}

func TestLikeToggleAwardsAuthor(t *testing.T) {
	svc, db, movieID := setupReviews(t)
	authorID := createUser(t, db, "author")
	likerID := createUser(t, db, "liker")
	ctx := context.Background()

	review, err := svc.RateMovie(ctx, authorID, movieID, dto.RateMovieInput{Rating: 8})
	require.NoError(t, err)
	require.Equal(t, 35, userScore(t, db, authorID).TotalPoints)

	// A landed like pays the author one point
	require.NoError(t, svc.LikeReview(ctx, likerID, review.ID))
	require.Equal(t, 36, userScore(t, db, authorID).TotalPoints)

	// Liking again removes the vote; removals pay nothing
	require.NoError(t, svc.LikeReview(ctx, likerID, review.ID))
	require.Equal(t, 36, userScore(t, db, authorID).TotalPoints)

	// Re-liking hits the dedup key, so the author is not paid twice
	require.NoError(t, svc.LikeReview(ctx, likerID, review.ID))
	require.Equal(t, 36, userScore(t, db, authorID).TotalPoints)

	// Flipping to an unlike lands the negative award once
	require.NoError(t, svc.UnlikeReview(ctx, likerID, review.ID))
	require.Equal(t, 35, userScore(t, db, authorID).TotalPoints)
}

func TestSelfVoteNoAward(t *testing.T) {
	svc, db, movieID := setupReviews(t)
	authorID := createUser(t, db, "author")
	ctx := context.Background()

	review, err := svc.RateMovie(ctx, authorID, movieID, dto.RateMovieInput{Rating: 8})
	require.NoError(t, err)

	require.NoError(t, svc.LikeReview(ctx, authorID, review.ID))
	require.Equal(t, 35, userScore(t, db, authorID).TotalPoints)
}
