package domain

import "time"

type UserID string

type GroupID string

// ConnectionID identifies one live transport-level session. A user with
// several open devices/tabs owns several connection ids at once.
type ConnectionID string

// ChannelID names a fan-out group a connection can subscribe to. Channels are
// either a user's own id (direct delivery) or a group id (group delivery).
type ChannelID string

func (u UserID) Channel() ChannelID  { return ChannelID(u) }
func (g GroupID) Channel() ChannelID { return ChannelID(g) }

type User struct {
	ID        UserID
	Username  string
	Email     string
	CreatedAt time.Time
}

// PresenceUpdate describes a single user's online/offline transition.
type PresenceUpdate struct {
	UserID   UserID    `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
}
