package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"wavelink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDirectory struct {
	mu          sync.Mutex
	groupsCalls int
	memberCalls int
}

func (d *countingDirectory) GroupsFor(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groupsCalls++
	return []domain.GroupID{"team"}, nil
}

func (d *countingDirectory) Members(ctx context.Context, groupID domain.GroupID) ([]domain.UserID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.memberCalls++
	return []domain.UserID{"alice"}, nil
}

func TestCachedGroupDirectory_MemoizesLookups(t *testing.T) {
	inner := &countingDirectory{}
	directory := NewCachedGroupDirectory(inner, time.Minute)
	defer directory.Stop()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		groups, err := directory.GroupsFor(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []domain.GroupID{"team"}, groups)
	}
	assert.Equal(t, 1, inner.groupsCalls, "repeat lookups served from cache")

	for i := 0; i < 3; i++ {
		members, err := directory.Members(ctx, "team")
		require.NoError(t, err)
		assert.Equal(t, []domain.UserID{"alice"}, members)
	}
	assert.Equal(t, 1, inner.memberCalls)
}

func TestCachedGroupDirectory_KeysAreScoped(t *testing.T) {
	inner := &countingDirectory{}
	directory := NewCachedGroupDirectory(inner, time.Minute)
	defer directory.Stop()
	ctx := context.Background()

	_, err := directory.GroupsFor(ctx, "alice")
	require.NoError(t, err)
	_, err = directory.GroupsFor(ctx, "bob")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.groupsCalls, "distinct users are distinct cache entries")
}
