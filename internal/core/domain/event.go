package domain

// Event names on the realtime wire. Inbound names are what clients emit,
// outbound names are what the server fans out.
const (
	EventTyping     = "typing"
	EventStopTyping = "stopTyping"

	EventCallInvite   = "call:invite"
	EventCallIncoming = "call:incoming"
	EventCallBusy     = "call:busy"
	EventCallAccept   = "call:accept"
	EventCallAccepted = "call:accepted"
	EventCallReject   = "call:reject"
	EventCallRejected = "call:rejected"
	EventCallEnd      = "call:end"
	EventCallEnded    = "call:ended"

	EventGroupCallStart         = "group:call:start"
	EventGroupCallIncoming      = "group:call:incoming"
	EventGroupCallEnd           = "group:call:end"
	EventGroupCallEnded         = "group:call:ended"
	EventGroupCallAlreadyActive = "group:call:already-active"

	EventOnlineUsers       = "getOnlineUsers"
	EventLastSeenUpdate    = "userLastSeenUpdate"
	EventNewMessage        = "newMessage"
	EventNewGroupMessage   = "newGroupMessage"
	EventMessageSeen       = "messageSeen"
	EventMessageStatusBulk = "messageStatusUpdateBulk"
)

// Event is the envelope every outbound realtime message travels in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
