package memory

import (
	"context"
	"testing"

	"wavelink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupDirectory_Membership(t *testing.T) {
	directory := NewGroupDirectory()
	ctx := context.Background()

	directory.AddMember("team", "alice")
	directory.AddMember("team", "bob")
	directory.AddMember("friends", "alice")

	groups, err := directory.GroupsFor(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.GroupID{"team", "friends"}, groups)

	members, err := directory.Members(ctx, "team")
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.UserID{"alice", "bob"}, members)
}

func TestGroupDirectory_RemoveMember(t *testing.T) {
	directory := NewGroupDirectory()
	ctx := context.Background()

	directory.AddMember("team", "alice")
	directory.RemoveMember("team", "alice")

	// the group disappears when its last member leaves
	_, err := directory.Members(ctx, "team")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestGroupDirectory_UnknownGroup(t *testing.T) {
	directory := NewGroupDirectory()

	_, err := directory.Members(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)

	groups, err := directory.GroupsFor(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, groups)
}
