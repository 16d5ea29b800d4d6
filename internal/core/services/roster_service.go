package services

import (
	"context"
	"fmt"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
)

type rosterService struct {
	directory ports.GroupDirectory
}

func NewRosterService(directory ports.GroupDirectory) ports.RosterService {
	return &rosterService{directory: directory}
}

// ChannelsFor computes the channel set a connection joins at handshake: the
// user's own channel plus one channel per group membership. The set is fixed
// for the connection's lifetime; membership changes only take effect on
// reconnect.
func (s *rosterService) ChannelsFor(ctx context.Context, userID domain.UserID) ([]domain.ChannelID, error) {
	groups, err := s.directory.GroupsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve group memberships: %w", err)
	}

	channels := make([]domain.ChannelID, 0, len(groups)+1)
	channels = append(channels, userID.Channel())
	for _, groupID := range groups {
		channels = append(channels, groupID.Channel())
	}
	return channels, nil
}
