package ports

import (
	"context"
	"time"

	"wavelink/internal/core/domain"
)

// ConnectionRegistry maps a user to the set of live connections they own.
// A user is present iff they have at least one live connection. Lookups for
// unknown users return empty results, never errors.
type ConnectionRegistry interface {
	// Register adds a connection and reports whether it is the user's first
	// live connection (the offline->online transition).
	Register(userID domain.UserID, connID domain.ConnectionID) (first bool)
	// Unregister removes a connection and reports whether it was the user's
	// last live connection (the online->offline transition).
	Unregister(userID domain.UserID, connID domain.ConnectionID) (last bool)
	Connections(userID domain.UserID) []domain.ConnectionID
	OnlineUsers() []domain.UserID
}

// GroupDirectory is the external group-membership collaborator. Read-only to
// this core; consumed once per connection handshake.
type GroupDirectory interface {
	GroupsFor(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error)
	Members(ctx context.Context, groupID domain.GroupID) ([]domain.UserID, error)
}

// MessageStatusStore persists delivered/seen flags for the message-storage
// collaborator.
type MessageStatusStore interface {
	MarkDelivered(ctx context.Context, messageID domain.MessageID) error
	MarkSeen(ctx context.Context, messageIDs []domain.MessageID) error
}

// LastSeenStore persists the last-seen timestamp recorded on each offline
// transition.
type LastSeenStore interface {
	Touch(ctx context.Context, userID domain.UserID, at time.Time) error
	Get(ctx context.Context, userID domain.UserID) (time.Time, error)
}
