package redis

import (
	"context"
	"fmt"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisGroupDirectory reads group membership from the sets the chat backend
// maintains. This core only ever reads them.
type RedisGroupDirectory struct {
	client *redis.Client
}

func NewRedisGroupDirectory(client *redis.Client) ports.GroupDirectory {
	return &RedisGroupDirectory{client: client}
}

func (r *RedisGroupDirectory) userGroupsKey(userID domain.UserID) string {
	return fmt.Sprintf("wavelink:user:%s:groups", userID)
}

func (r *RedisGroupDirectory) groupMembersKey(groupID domain.GroupID) string {
	return fmt.Sprintf("wavelink:group:%s:members", groupID)
}

func (r *RedisGroupDirectory) GroupsFor(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error) {
	ids, err := r.client.SMembers(ctx, r.userGroupsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read user groups: %w", err)
	}

	groups := make([]domain.GroupID, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, domain.GroupID(id))
	}
	return groups, nil
}

func (r *RedisGroupDirectory) Members(ctx context.Context, groupID domain.GroupID) ([]domain.UserID, error) {
	ids, err := r.client.SMembers(ctx, r.groupMembersKey(groupID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read group members: %w", err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrGroupNotFound
	}

	users := make([]domain.UserID, 0, len(ids))
	for _, id := range ids {
		users = append(users, domain.UserID(id))
	}
	return users, nil
}
