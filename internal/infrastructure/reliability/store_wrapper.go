package reliability

import (
	"context"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
	"wavelink/pkg/circuitbreaker"

	"go.uber.org/zap"
)

// LastSeenStoreWrapper guards the last-seen collaborator with a circuit
// breaker. Presence fan-out must keep flowing through a Redis outage, so a
// tripped breaker fails fast instead of letting store timeouts stall the
// offline path.
type LastSeenStoreWrapper struct {
	store   ports.LastSeenStore
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewLastSeenStoreWrapper(
	store ports.LastSeenStore,
	cbConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *LastSeenStoreWrapper {
	wrapper := &LastSeenStoreWrapper{
		store:   store,
		breaker: circuitbreaker.New(cbConfig),
		logger:  logger,
	}

	wrapper.breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Infow("last-seen store circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return wrapper
}

var _ ports.LastSeenStore = (*LastSeenStoreWrapper)(nil)

func (w *LastSeenStoreWrapper) Touch(ctx context.Context, userID domain.UserID, at time.Time) error {
	err := w.breaker.Execute(ctx, func() error {
		return w.store.Touch(ctx, userID, at)
	})
	if err != nil {
		w.logger.Warnw("last-seen write skipped", "user_id", userID, "error", err)
	}
	return err
}

func (w *LastSeenStoreWrapper) Get(ctx context.Context, userID domain.UserID) (time.Time, error) {
	var at time.Time
	err := w.breaker.Execute(ctx, func() error {
		var innerErr error
		at, innerErr = w.store.Get(ctx, userID)
		return innerErr
	})
	return at, err
}

// MessageStatusStoreWrapper applies the same breaker policy to the message
// status collaborator.
type MessageStatusStoreWrapper struct {
	store   ports.MessageStatusStore
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewMessageStatusStoreWrapper(
	store ports.MessageStatusStore,
	cbConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *MessageStatusStoreWrapper {
	wrapper := &MessageStatusStoreWrapper{
		store:   store,
		breaker: circuitbreaker.New(cbConfig),
		logger:  logger,
	}

	wrapper.breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Infow("message status circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return wrapper
}

var _ ports.MessageStatusStore = (*MessageStatusStoreWrapper)(nil)

func (w *MessageStatusStoreWrapper) MarkDelivered(ctx context.Context, messageID domain.MessageID) error {
	return w.breaker.Execute(ctx, func() error {
		return w.store.MarkDelivered(ctx, messageID)
	})
}

func (w *MessageStatusStoreWrapper) MarkSeen(ctx context.Context, messageIDs []domain.MessageID) error {
	return w.breaker.Execute(ctx, func() error {
		return w.store.MarkSeen(ctx, messageIDs)
	})
}
