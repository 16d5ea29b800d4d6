package services

import (
	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
)

type typingPayload struct {
	From domain.UserID `json:"from"`
}

// typingService is a stateless relay: each start/stop event is fanned out to
// every connection subscribed to the target channel, including the sender's
// other devices, so multi-device indicators stay consistent. A dropped stop
// event is left for the UI layer to age out; the server keeps no timers.
type typingService struct {
	sink ports.EventSink
}

func NewTypingService(sink ports.EventSink) ports.TypingService {
	return &typingService{sink: sink}
}

func (s *typingService) StartTyping(from domain.UserID, target domain.ChannelID) {
	s.sink.ToChannel(target, domain.Event{
		Type:    domain.EventTyping,
		Payload: typingPayload{From: from},
	})
}

func (s *typingService) StopTyping(from domain.UserID, target domain.ChannelID) {
	s.sink.ToChannel(target, domain.Event{
		Type:    domain.EventStopTyping,
		Payload: typingPayload{From: from},
	})
}
