package repository

import (
	"context"

	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	// Upsert creates the user's review for a movie or updates it in place.
	// Returns true when the review was newly created.
	Upsert(ctx context.Context, review *model.Review) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByMovie(ctx context.Context, movieID uuid.UUID, limit, offset int) ([]model.Review, error)
	FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*model.Review, error)

	// ToggleLike applies a like (+1) or unlike (-1) vote. Returns the
	// previous and new vote values (0 means no vote).
	ToggleLike(ctx context.Context, userID, reviewID uuid.UUID, value int) (int, int, error)
	LikeCounts(ctx context.Context, reviewID uuid.UUID) (int64, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) (bool, error) {
	var existing model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", review.UserID, review.MovieID).
		First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return false, err
		}
		if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	existing.Rating = review.Rating
	existing.Body = review.Body
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	*review = existing
	return false, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Movie").
		Where("id = ?", id).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByMovie(ctx context.Context, movieID uuid.UUID, limit, offset int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ToggleLike(ctx context.Context, userID, reviewID uuid.UUID, value int) (int, int, error) {
	var previous, current int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ReviewLike
		err := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if err == nil {
			previous = existing.Value
			if existing.Value == value {
				// Same vote again removes it
				current = 0
				return tx.Where("user_id = ? AND review_id = ?", userID, reviewID).
					Delete(&model.ReviewLike{}).Error
			}
			current = value
			return tx.Model(&model.ReviewLike{}).
				Where("user_id = ? AND review_id = ?", userID, reviewID).
				Update("value", value).Error
		}

		previous = 0
		current = value
		return tx.Create(&model.ReviewLike{UserID: userID, ReviewID: reviewID, Value: value}).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return previous, current, nil
}

func (r *reviewRepository) LikeCounts(ctx context.Context, reviewID uuid.UUID) (int64, int64, error) {
	var likes, unlikes int64
	if err := r.db.WithContext(ctx).Model(&model.ReviewLike{}).
		Where("review_id = ? AND value = ?", reviewID, 1).
		Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.ReviewLike{}).
		Where("review_id = ? AND value = ?", reviewID, -1).
		Count(&unlikes).Error; err != nil {
		return 0, 0, err
	}
	return likes, unlikes, nil
}
