package service

import (
	"encoding/json"
	"testing"

	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/require"
)

func TestMeiliMovieDocDecode(t *testing.T) {
	hit := meilisearch.Hit{
		"id":      json.RawMessage(`"b7a9f60e-0000-0000-0000-000000000000"`),
		"imdb_id": json.RawMessage(`"tt1375666"`),
		"title":   json.RawMessage(`"Inception"`),
		"year":    json.RawMessage(`"2010"`),
		"genre":   json.RawMessage(`"Sci-Fi"`),
		"plot":    json.RawMessage(`"A thief steals secrets through dreams."`),
	}

	var doc meiliMovieDoc
	require.NoError(t, hit.Decode(&doc))
	require.Equal(t, "tt1375666", doc.ImdbID)
	require.Equal(t, "Inception", doc.Title)
	require.Equal(t, "2010", doc.Year)
	require.Equal(t, "Sci-Fi", doc.Genre)
}

func TestMeiliMovieDocDecodePartialHit(t *testing.T) {
	// Hits missing optional fields decode with zero values, not errors
	hit := meilisearch.Hit{
		"id":    json.RawMessage(`"b7a9f60e-0000-0000-0000-000000000000"`),
		"title": json.RawMessage(`"Inception"`),
	}

	var doc meiliMovieDoc
	require.NoError(t, hit.Decode(&doc))
	require.Equal(t, "Inception", doc.Title)
	require.Empty(t, doc.ImdbID)
}
