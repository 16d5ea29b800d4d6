package repositories

import (
	"context"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
	"wavelink/pkg/cache"
)

// CachedGroupDirectory memoizes membership lookups for a short TTL. A
// reconnect storm (say, after a deploy) otherwise hits the directory once
// per connection; the subscription snapshot taken at handshake is stale by
// design anyway, so a few seconds of cache changes nothing observable.
type CachedGroupDirectory struct {
	inner ports.GroupDirectory
	cache *cache.Cache
}

func NewCachedGroupDirectory(inner ports.GroupDirectory, ttl time.Duration) *CachedGroupDirectory {
	return &CachedGroupDirectory{
		inner: inner,
		cache: cache.NewCache(ttl),
	}
}

var _ ports.GroupDirectory = (*CachedGroupDirectory)(nil)

func (d *CachedGroupDirectory) GroupsFor(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error) {
	key := "groups:" + string(userID)
	if cached, ok := d.cache.Get(key); ok {
		return cached.([]domain.GroupID), nil
	}

	groups, err := d.inner.GroupsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	d.cache.Set(key, groups)
	return groups, nil
}

func (d *CachedGroupDirectory) Members(ctx context.Context, groupID domain.GroupID) ([]domain.UserID, error) {
	key := "members:" + string(groupID)
	if cached, ok := d.cache.Get(key); ok {
		return cached.([]domain.UserID), nil
	}

	members, err := d.inner.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}

	d.cache.Set(key, members)
	return members, nil
}

// Stop shuts down the cache's cleanup goroutine.
func (d *CachedGroupDirectory) Stop() {
	d.cache.Stop()
}
