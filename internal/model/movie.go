package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Movie struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ImdbID    string    `gorm:"size:20;uniqueIndex;not null" json:"imdb_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Year      string    `gorm:"size:10" json:"year"`
	Genre     string    `gorm:"size:255" json:"genre"`
	Plot      string    `gorm:"type:text" json:"plot"`
	PosterURL *string   `gorm:"type:text" json:"poster_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Review is a user's rating of a movie, one per (user, movie).
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_user_movie;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	MovieID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_user_movie;not null" json:"movie_id"`
	Movie     Movie     `gorm:"foreignKey:MovieID" json:"movie"`
	Rating    int       `gorm:"not null" json:"rating"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReviewLike is a user's like/unlike vote on a review. Value is +1 or -1.
type ReviewLike struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"review_id"`
	Review    Review    `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type WatchedMovie struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"movie_id"`
	Movie     Movie     `gorm:"foreignKey:MovieID" json:"movie"`
	WatchedAt time.Time `gorm:"autoCreateTime" json:"watched_at"`
}

type PersonalList struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID          `gorm:"type:uuid;index;not null" json:"user_id"`
	Name        string             `gorm:"size:100;not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Items       []PersonalListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (l *PersonalList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type PersonalListItem struct {
	ListID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"list_id"`
	MovieID uuid.UUID `gorm:"type:uuid;primaryKey" json:"movie_id"`
	Movie   Movie     `gorm:"foreignKey:MovieID" json:"movie"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	ReviewID  uuid.UUID `gorm:"type:uuid;index;not null" json:"review_id"`
	Review    Review    `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
