package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMovieInput struct {
	ImdbID    string  `json:"imdb_id" binding:"required,max=20"`
	Title     string  `json:"title" binding:"required,max=255"`
	Year      string  `json:"year" binding:"max=10"`
	Genre     string  `json:"genre" binding:"max=255"`
	Plot      string  `json:"plot"`
	PosterURL *string `json:"poster_url"`
}

type RateMovieInput struct {
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
	Body   string `json:"body"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Likes     int64     `json:"likes"`
	Unlikes   int64     `json:"unlikes"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateListInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type AddToListInput struct {
	MovieID uuid.UUID `json:"movie_id" binding:"required"`
}

type CreateCommentInput struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type MovieSearchHit struct {
	ID     string `json:"id"`
	ImdbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Genre  string `json:"genre"`
}
