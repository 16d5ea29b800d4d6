package memory

import (
	"context"
	"sync"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
)

// MessageStatusStore keeps delivered/seen flags in process memory.
type MessageStatusStore struct {
	mu       sync.RWMutex
	statuses map[domain.MessageID]domain.MessageStatus
}

func NewMessageStatusStore() *MessageStatusStore {
	return &MessageStatusStore{
		statuses: make(map[domain.MessageID]domain.MessageStatus),
	}
}

var _ ports.MessageStatusStore = (*MessageStatusStore)(nil)

func (s *MessageStatusStore) MarkDelivered(ctx context.Context, messageID domain.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// seen is terminal, delivered never downgrades it
	if s.statuses[messageID] != domain.StatusSeen {
		s.statuses[messageID] = domain.StatusDelivered
	}
	return nil
}

func (s *MessageStatusStore) MarkSeen(ctx context.Context, messageIDs []domain.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range messageIDs {
		s.statuses[id] = domain.StatusSeen
	}
	return nil
}

// Status reports the recorded status for a message id.
func (s *MessageStatusStore) Status(messageID domain.MessageID) (domain.MessageStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statuses[messageID]
	return st, ok
}

// LastSeenStore keeps last-seen timestamps in process memory.
type LastSeenStore struct {
	mu   sync.RWMutex
	seen map[domain.UserID]time.Time
}

func NewLastSeenStore() *LastSeenStore {
	return &LastSeenStore{
		seen: make(map[domain.UserID]time.Time),
	}
}

var _ ports.LastSeenStore = (*LastSeenStore)(nil)

func (s *LastSeenStore) Touch(ctx context.Context, userID domain.UserID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen[userID] = at
	return nil
}

func (s *LastSeenStore) Get(ctx context.Context, userID domain.UserID) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.seen[userID]
	if !ok {
		return time.Time{}, domain.ErrUserNotFound
	}
	return at, nil
}
