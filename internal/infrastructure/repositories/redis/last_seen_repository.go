package redis

import (
	"context"
	"fmt"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisLastSeenStore persists last-seen timestamps so they survive process
// restarts, unlike the rest of this core's state.
type RedisLastSeenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisLastSeenStore(client *redis.Client) ports.LastSeenStore {
	return &RedisLastSeenStore{
		client: client,
		prefix: "wavelink:lastseen:",
	}
}

func (r *RedisLastSeenStore) key(userID domain.UserID) string {
	return r.prefix + string(userID)
}

func (r *RedisLastSeenStore) Touch(ctx context.Context, userID domain.UserID, at time.Time) error {
	if err := r.client.Set(ctx, r.key(userID), at.UnixMilli(), 0).Err(); err != nil {
		return fmt.Errorf("failed to persist last seen: %w", err)
	}
	return nil
}

func (r *RedisLastSeenStore) Get(ctx context.Context, userID domain.UserID) (time.Time, error) {
	millis, err := r.client.Get(ctx, r.key(userID)).Int64()
	if err == redis.Nil {
		return time.Time{}, domain.ErrUserNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last seen: %w", err)
	}
	return time.UnixMilli(millis), nil
}
