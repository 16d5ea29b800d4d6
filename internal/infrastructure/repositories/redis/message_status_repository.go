package redis

import (
	"context"
	"fmt"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisMessageStatusStore struct {
	client *redis.Client
	prefix string
}

func NewRedisMessageStatusStore(client *redis.Client) ports.MessageStatusStore {
	return &RedisMessageStatusStore{
		client: client,
		prefix: "wavelink:msgstatus:",
	}
}

func (r *RedisMessageStatusStore) key(messageID domain.MessageID) string {
	return r.prefix + string(messageID)
}

func (r *RedisMessageStatusStore) MarkDelivered(ctx context.Context, messageID domain.MessageID) error {
	// seen is terminal, never downgrade it back to delivered
	current, err := r.client.Get(ctx, r.key(messageID)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read message status: %w", err)
	}
	if current == string(domain.StatusSeen) {
		return nil
	}

	if err := r.client.Set(ctx, r.key(messageID), string(domain.StatusDelivered), 0).Err(); err != nil {
		return fmt.Errorf("failed to mark message delivered: %w", err)
	}
	return nil
}

func (r *RedisMessageStatusStore) MarkSeen(ctx context.Context, messageIDs []domain.MessageID) error {
	if len(messageIDs) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, id := range messageIDs {
		pipe.Set(ctx, r.key(id), string(domain.StatusSeen), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark messages seen: %w", err)
	}
	return nil
}
