package repository

import (
	"context"

	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	FindByImdbID(ctx context.Context, imdbID string) (*model.Movie, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.Movie, error)

	// MarkWatched returns false when the user had already marked the movie
	// watched; only the first watch earns points.
	MarkWatched(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	ListWatched(ctx context.Context, userID uuid.UUID) ([]model.WatchedMovie, error)
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindByImdbID(ctx context.Context, imdbID string) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).Where("imdb_id = ?", imdbID).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, limit, offset int) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) MarkWatched(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	watched := model.WatchedMovie{UserID: userID, MovieID: movieID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&watched)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *movieRepository) ListWatched(ctx context.Context, userID uuid.UUID) ([]model.WatchedMovie, error) {
	var watched []model.WatchedMovie
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Movie").
		Order("watched_at DESC").
		Find(&watched).Error
	return watched, err
}
