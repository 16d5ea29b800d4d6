package realtime

import (
	"encoding/json"

	"wavelink/internal/core/domain"
)

// InboundEvent is the envelope clients send over the wire. Payload decoding
// is deferred until the event type is known.
type InboundEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TypingPayload struct {
	To string `json:"to"`
}

type CallInvitePayload struct {
	To       domain.UserID   `json:"to"`
	CallType domain.CallKind `json:"callType"`
	RoomID   string          `json:"roomId,omitempty"`
}

type CallAcceptPayload struct {
	To     domain.UserID `json:"to"`
	RoomID string        `json:"roomId"`
}

type CallRejectPayload struct {
	To domain.UserID `json:"to"`
}

type CallEndPayload struct {
	To domain.UserID `json:"to,omitempty"`
}

type GroupCallStartPayload struct {
	GroupID  domain.GroupID  `json:"groupId"`
	CallType domain.CallKind `json:"callType"`
	RoomID   string          `json:"roomId,omitempty"`
}

type GroupCallEndPayload struct {
	GroupID domain.GroupID `json:"groupId"`
}

type MessageSeenPayload struct {
	MessageIDs []domain.MessageID `json:"messageIds"`
	SenderID   domain.UserID      `json:"senderId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
