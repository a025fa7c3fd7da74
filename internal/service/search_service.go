package service

import (
	"log"

	"github.com/cinelog/cinelog-backend/internal/dto"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

const movieIndex = "movies"

type SearchService interface {
	IndexMovie(movie *model.Movie) error
	DeleteMovie(id string) error
	SearchMovies(query string, limit int) ([]dto.MovieSearchHit, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

type meiliMovieDoc struct {
	ID     string `json:"id"`
	ImdbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Genre  string `json:"genre"`
	Plot   string `json:"plot"`
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"genre", "year"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(movieIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update movies filterable attributes: %v", err)
	}

	sortableAttrs := []string{"year"}
	if _, err := s.client.Index(movieIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update movies sortable attributes: %v", err)
	}
}

func (s *searchService) IndexMovie(movie *model.Movie) error {
	doc := meiliMovieDoc{
		ID:     movie.ID.String(),
		ImdbID: movie.ImdbID,
		Title:  movie.Title,
		Year:   movie.Year,
		Genre:  movie.Genre,
		Plot:   movie.Plot,
	}

	task, err := s.client.Index(movieIndex).AddDocuments([]meiliMovieDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed movie %s, task id: %d", movie.ImdbID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteMovie(id string) error {
	_, err := s.client.Index(movieIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchMovies(query string, limit int) ([]dto.MovieSearchHit, error) {
	res, err := s.client.Index(movieIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]dto.MovieSearchHit, 0, len(res.Hits))
	for _, raw := range res.Hits {
		var doc meiliMovieDoc
		if err := raw.Decode(&doc); err != nil {
			continue
		}
		hits = append(hits, dto.MovieSearchHit{
			ID:     doc.ID,
			ImdbID: doc.ImdbID,
			Title:  doc.Title,
			Year:   doc.Year,
			Genre:  doc.Genre,
		})
	}
	return hits, nil
}

func strPtr(s string) *string {
	return &s
}
