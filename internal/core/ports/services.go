package ports

import (
	"context"

	"wavelink/internal/core/domain"
)

// EventSink is the delivery side of the realtime transport. Implementations
// guarantee FIFO per connection; no ordering is defined across connections.
// Delivery to an empty target set is a silent no-op.
type EventSink interface {
	ToConnection(connID domain.ConnectionID, event domain.Event)
	ToUser(userID domain.UserID, event domain.Event)
	ToChannel(channel domain.ChannelID, event domain.Event)
	// ToChannelExcept fans out to a channel, skipping every connection owned
	// by the excluded user.
	ToChannelExcept(channel domain.ChannelID, except domain.UserID, event domain.Event)
	Broadcast(event domain.Event)
}

type PresenceService interface {
	// Connect records a new live connection and, on an offline->online
	// transition, broadcasts the full online snapshot to all connections.
	Connect(ctx context.Context, userID domain.UserID, connID domain.ConnectionID)
	// Disconnect removes a connection and, on an online->offline transition,
	// persists a last-seen timestamp and broadcasts snapshot + last-seen.
	Disconnect(ctx context.Context, userID domain.UserID, connID domain.ConnectionID)
	OnlineUsers() []domain.UserID
}

type RosterService interface {
	// ChannelsFor resolves the fixed subscription set for a freshly
	// authenticated connection: the user's own channel plus one channel per
	// group membership.
	ChannelsFor(ctx context.Context, userID domain.UserID) ([]domain.ChannelID, error)
}

type TypingService interface {
	StartTyping(from domain.UserID, target domain.ChannelID)
	StopTyping(from domain.UserID, target domain.ChannelID)
}

type CallService interface {
	Invite(ctx context.Context, caller, callee domain.UserID, kind domain.CallKind, roomID string) error
	Accept(ctx context.Context, callee, caller domain.UserID, roomID string) error
	Reject(ctx context.Context, callee, caller domain.UserID) error
	End(ctx context.Context, from, other domain.UserID) error
	StartGroup(ctx context.Context, initiator domain.UserID, groupID domain.GroupID, kind domain.CallKind, roomID string) error
	EndGroup(ctx context.Context, from domain.UserID, groupID domain.GroupID) error
	// ActiveCalls returns value snapshots of the tracked sessions; callers
	// may read them without holding any broker lock.
	ActiveCalls() []domain.CallSession
}

type DeliveryService interface {
	// MessagePersisted is invoked by the message-storage collaborator once a
	// message has been written. It relays the message to the receiver's live
	// connections and pushes a delivered status update to the sender.
	MessagePersisted(ctx context.Context, sender, receiver domain.UserID, messageID domain.MessageID, payload interface{}) error
	// GroupMessagePersisted relays a stored group message to every live
	// connection on the group channel. Group messages carry no per-member
	// delivery receipts.
	GroupMessagePersisted(ctx context.Context, sender domain.UserID, groupID domain.GroupID, messageID domain.MessageID, payload interface{}) error
	// MarkSeen batches a catch-up read into a single bulk status event for
	// the original sender.
	MarkSeen(ctx context.Context, sender domain.UserID, messageIDs []domain.MessageID) error
}
