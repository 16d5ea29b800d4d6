package repositories

import (
	"context"

	"wavelink/internal/core/ports"
	"wavelink/internal/infrastructure/repositories/memory"
	redisrepo "wavelink/internal/infrastructure/repositories/redis"
	"wavelink/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates collaborator stores, backed by Redis when it is
// enabled and reachable, with in-memory fallback otherwise.
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory stores",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis stores")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory stores")
	}

	return factory, nil
}

func (f *RepositoryFactory) CreateLastSeenStore() ports.LastSeenStore {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisLastSeenStore(f.redisClient)
	}
	return memory.NewLastSeenStore()
}

func (f *RepositoryFactory) CreateMessageStatusStore() ports.MessageStatusStore {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisMessageStatusStore(f.redisClient)
	}
	return memory.NewMessageStatusStore()
}

func (f *RepositoryFactory) CreateGroupDirectory() ports.GroupDirectory {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisGroupDirectory(f.redisClient)
	}
	return memory.NewGroupDirectory()
}

// HealthCheck verifies the backing store is reachable. Memory stores are
// always healthy.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}

// Close releases the Redis connection if one was established.
func (f *RepositoryFactory) Close() error {
	return redisrepo.CloseRedisClient(f.redisClient)
}
