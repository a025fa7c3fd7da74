package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cinelog/cinelog-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	return rdb.TTL(ctx, key).Result()
}

// RateLimitError reports a throttled action, carrying the remaining
// cooldown when one is known.
func RateLimitError(ttl time.Duration) error {
	if ttl <= 0 {
		return apperror.ErrRateLimitExceeded
	}
	return fmt.Errorf("%w: try again in %d seconds", apperror.ErrRateLimitExceeded, int(math.Ceil(ttl.Seconds())))
}
