package repository

import (
	"context"

	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListRepository interface {
	Create(ctx context.Context, list *model.PersonalList) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PersonalList, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.PersonalList, error)

	// AddItem returns false when the movie is already on the list.
	AddItem(ctx context.Context, listID, movieID uuid.UUID) (bool, error)
	RemoveItem(ctx context.Context, listID, movieID uuid.UUID) error
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *model.PersonalList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *listRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PersonalList, error) {
	var list model.PersonalList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Movie").
		Where("id = ?", id).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *listRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.PersonalList, error) {
	var lists []model.PersonalList
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (r *listRepository) AddItem(ctx context.Context, listID, movieID uuid.UUID) (bool, error) {
	item := model.PersonalListItem{ListID: listID, MovieID: movieID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *listRepository) RemoveItem(ctx context.Context, listID, movieID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("list_id = ? AND movie_id = ?", listID, movieID).
		Delete(&model.PersonalListItem{}).Error
}
