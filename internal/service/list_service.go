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

type ListService interface {
	CreateList(ctx context.Context, userID uuid.UUID, input dto.CreateListInput) (*model.PersonalList, error)
	GetList(ctx context.Context, id uuid.UUID) (*model.PersonalList, error)
	GetUserLists(ctx context.Context, userID uuid.UUID) ([]model.PersonalList, error)
	AddMovie(ctx context.Context, userID, listID, movieID uuid.UUID) error
	RemoveMovie(ctx context.Context, userID, listID, movieID uuid.UUID) error
}

type listService struct {
	repo         repository.ListRepository
	movieRepo    repository.MovieRepository
	gamification GamificationService
}

func NewListService(repo repository.ListRepository, movieRepo repository.MovieRepository, gamification GamificationService) ListService {
	return &listService{
		repo:         repo,
		movieRepo:    movieRepo,
		gamification: gamification,
	}
}

func (s *listService) CreateList(ctx context.Context, userID uuid.UUID, input dto.CreateListInput) (*model.PersonalList, error) {
	list := model.PersonalList{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, &list); err != nil {
		return nil, err
	}

	if _, err := s.gamification.AwardPoints(ctx, userID, ActionCreateList,
		fmt.Sprintf("Created list %s", list.Name),
		fmt.Sprintf("list_%s", list.ID)); err != nil {
		log.Printf("failed to award list points to user %s: %v", userID, err)
	}

	return &list, nil
}

func (s *listService) GetList(ctx context.Context, id uuid.UUID) (*model.PersonalList, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return list, nil
}

func (s *listService) GetUserLists(ctx context.Context, userID uuid.UUID) ([]model.PersonalList, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *listService) AddMovie(ctx context.Context, userID, listID, movieID uuid.UUID) error {
	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return err
	}

	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	added, err := s.repo.AddItem(ctx, listID, movieID)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	if _, err := s.gamification.AwardPoints(ctx, userID, ActionAddToList,
		fmt.Sprintf("Added %s to %s", movie.Title, list.Name),
		fmt.Sprintf("add_to_list_%s_%s", movie.ImdbID, list.ID)); err != nil {
		log.Printf("failed to award list item points to user %s: %v", userID, err)
	}
	return nil
}

func (s *listService) RemoveMovie(ctx context.Context, userID, listID, movieID uuid.UUID) error {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, listID, movieID)
}

func (s *listService) ownedList(ctx context.Context, userID, listID uuid.UUID) (*model.PersonalList, error) {
	list, err := s.repo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if list.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return list, nil
}
