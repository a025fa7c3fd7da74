package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cinelog/cinelog-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRateLimitNilClient(t *testing.T) {
	// Without redis the limiter is a no-op: everything is allowed
	allowed, err := CheckAndSetRateLimit(context.Background(), nil, uuid.New(), "rate_movie", 10*time.Second)
	require.NoError(t, err)
	require.True(t, allowed)

	ttl, err := GetRateLimitTTL(context.Background(), nil, uuid.New(), "rate_movie")
	require.NoError(t, err)
	require.Zero(t, ttl)
}

func TestRateLimitError(t *testing.T) {
	err := RateLimitError(0)
	require.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	require.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))

	err = RateLimitError(2500 * time.Millisecond)
	require.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	require.Contains(t, err.Error(), "try again in 3 seconds")
	require.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))
}
