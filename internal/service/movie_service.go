package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cinelog/cinelog-backend/internal/dto"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/cinelog/cinelog-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovieService interface {
	CreateMovie(ctx context.Context, input dto.CreateMovieInput) (*model.Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]model.Movie, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]dto.MovieSearchHit, error)

	// MarkWatched records the first watch and awards watch points for it.
	MarkWatched(ctx context.Context, userID, movieID uuid.UUID) error
	ListWatched(ctx context.Context, userID uuid.UUID) ([]model.WatchedMovie, error)
}

type movieService struct {
	repo         repository.MovieRepository
	gamification GamificationService
	search       SearchService
}

func NewMovieService(repo repository.MovieRepository, gamification GamificationService, search SearchService) MovieService {
	return &movieService{
		repo:         repo,
		gamification: gamification,
		search:       search,
	}
}

func (s *movieService) CreateMovie(ctx context.Context, input dto.CreateMovieInput) (*model.Movie, error) {
	if _, err := s.repo.FindByImdbID(ctx, input.ImdbID); err == nil {
		return nil, apperror.ErrConflict
	}

	movie := model.Movie{
		ImdbID:    input.ImdbID,
		Title:     input.Title,
		Year:      input.Year,
		Genre:     input.Genre,
		Plot:      input.Plot,
		PosterURL: input.PosterURL,
	}
	if err := s.repo.Create(ctx, &movie); err != nil {
		return nil, err
	}

	if s.search != nil {
		go func(m model.Movie) {
			if err := s.search.IndexMovie(&m); err != nil {
				log.Printf("failed to index movie %s: %v", m.ImdbID, err)
			}
		}(movie)
	}

	return &movie, nil
}

func (s *movieService) GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return movie, nil
}

func (s *movieService) ListMovies(ctx context.Context, limit, offset int) ([]model.Movie, error) {
	return s.repo.FindAll(ctx, limit, offset)
}

func (s *movieService) SearchMovies(ctx context.Context, query string, limit int) ([]dto.MovieSearchHit, error) {
	if s.search == nil {
		return []dto.MovieSearchHit{}, nil
	}
	return s.search.SearchMovies(query, limit)
}

func (s *movieService) MarkWatched(ctx context.Context, userID, movieID uuid.UUID) error {
	movie, err := s.repo.FindByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	created, err := s.repo.MarkWatched(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if !created {
		// Already on the watched list; nothing to award
		return nil
	}

	if _, err := s.gamification.AwardPoints(ctx, userID, ActionWatchMovie,
		fmt.Sprintf("Watched %s", movie.Title), movie.ImdbID); err != nil {
		log.Printf("failed to award watch points to user %s: %v", userID, err)
	}
	return nil
}

func (s *movieService) ListWatched(ctx context.Context, userID uuid.UUID) ([]model.WatchedMovie, error) {
	return s.repo.ListWatched(ctx, userID)
}
