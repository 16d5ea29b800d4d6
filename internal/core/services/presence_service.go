package services

import (
	"context"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"go.uber.org/zap"
)

type presenceService struct {
	registry ports.ConnectionRegistry
	lastSeen ports.LastSeenStore
	sink     ports.EventSink
	logger   *zap.SugaredLogger

	now func() time.Time
}

func NewPresenceService(
	registry ports.ConnectionRegistry,
	lastSeen ports.LastSeenStore,
	sink ports.EventSink,
	logger *zap.SugaredLogger,
) ports.PresenceService {
	return &presenceService{
		registry: registry,
		lastSeen: lastSeen,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *presenceService) Connect(ctx context.Context, userID domain.UserID, connID domain.ConnectionID) {
	first := s.registry.Register(userID, connID)
	if !first {
		// another device of an already-online user, no transition
		return
	}

	s.logger.Infow("user online", "user_id", userID)
	s.broadcastSnapshot()
}

func (s *presenceService) Disconnect(ctx context.Context, userID domain.UserID, connID domain.ConnectionID) {
	last := s.registry.Unregister(userID, connID)
	if !last {
		return
	}

	at := s.now()
	if err := s.lastSeen.Touch(ctx, userID, at); err != nil {
		// persistence outage must not block the offline fan-out
		s.logger.Warnw("failed to persist last seen", "user_id", userID, "error", err)
	}

	s.logger.Infow("user offline", "user_id", userID, "last_seen", at)
	s.broadcastSnapshot()
	s.sink.Broadcast(domain.Event{
		Type: domain.EventLastSeenUpdate,
		Payload: domain.PresenceUpdate{
			UserID:   userID,
			IsOnline: false,
			LastSeen: at,
		},
	})
}

func (s *presenceService) OnlineUsers() []domain.UserID {
	return s.registry.OnlineUsers()
}

// broadcastSnapshot pushes the full online-user set to every connection.
// Full snapshots keep clients trivially consistent; the expected audience is
// small enough that delta events are not worth the client-side bookkeeping.
func (s *presenceService) broadcastSnapshot() {
	s.sink.Broadcast(domain.Event{
		Type:    domain.EventOnlineUsers,
		Payload: s.registry.OnlineUsers(),
	})
}
