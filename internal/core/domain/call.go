package domain

import "time"

type CallKind string

const (
	CallVoice CallKind = "voice"
	CallVideo CallKind = "video"
)

type CallState string

const (
	CallRinging CallState = "ringing"
	CallActive  CallState = "active"
)

// CallSession tracks one in-progress call negotiation. It exists from
// invite/start until end/reject and is owned exclusively by the call broker.
type CallSession struct {
	Participants []UserID
	GroupID      GroupID // empty for 1:1 calls
	Kind         CallKind
	RoomID       string
	State        CallState
	StartedAt    time.Time
}

func (s *CallSession) IsGroup() bool {
	return s.GroupID != ""
}

// Other returns the counterpart of a 1:1 call participant.
func (s *CallSession) Other(userID UserID) (UserID, bool) {
	for _, p := range s.Participants {
		if p != userID {
			return p, true
		}
	}
	return "", false
}
