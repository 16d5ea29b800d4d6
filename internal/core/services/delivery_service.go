package services

import (
	"context"
	"fmt"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"go.uber.org/zap"
)

type MessageStatusBulkPayload struct {
	MessageIDs []domain.MessageID   `json:"messageIds"`
	Status     domain.MessageStatus `json:"status"`
}

// deliveryService turns persistence events from the message-storage
// collaborator into status fan-out. Offline receivers are simply skipped;
// catch-up delivery is the storage layer's concern, not this core's.
type deliveryService struct {
	registry ports.ConnectionRegistry
	statuses ports.MessageStatusStore
	sink     ports.EventSink
	logger   *zap.SugaredLogger
}

func NewDeliveryService(
	registry ports.ConnectionRegistry,
	statuses ports.MessageStatusStore,
	sink ports.EventSink,
	logger *zap.SugaredLogger,
) ports.DeliveryService {
	return &deliveryService{
		registry: registry,
		statuses: statuses,
		sink:     sink,
		logger:   logger,
	}
}

func (s *deliveryService) MessagePersisted(ctx context.Context, sender, receiver domain.UserID, messageID domain.MessageID, payload interface{}) error {
	if len(s.registry.Connections(receiver)) == 0 {
		return nil
	}

	if payload != nil {
		s.sink.ToUser(receiver, domain.Event{
			Type:    domain.EventNewMessage,
			Payload: payload,
		})
	}

	if err := s.statuses.MarkDelivered(ctx, messageID); err != nil {
		return fmt.Errorf("failed to mark message delivered: %w", err)
	}

	s.sink.ToUser(sender, domain.Event{
		Type: domain.EventMessageStatusBulk,
		Payload: MessageStatusBulkPayload{
			MessageIDs: []domain.MessageID{messageID},
			Status:     domain.StatusDelivered,
		},
	})
	return nil
}

// GroupMessagePersisted fans the stored message out to the whole group
// channel, the sender's other devices included. Delivery receipts stay a 1:1
// concern; tracking per-member status for groups belongs to the storage
// layer.
func (s *deliveryService) GroupMessagePersisted(ctx context.Context, sender domain.UserID, groupID domain.GroupID, messageID domain.MessageID, payload interface{}) error {
	if payload == nil {
		return nil
	}

	s.logger.Debugw("group message relayed", "sender", sender, "group_id", groupID, "message_id", messageID)
	s.sink.ToChannel(groupID.Channel(), domain.Event{
		Type:    domain.EventNewGroupMessage,
		Payload: payload,
	})
	return nil
}

// MarkSeen emits one bulk event for the whole batch rather than one event per
// message, bounding fan-out volume on catch-up reads.
func (s *deliveryService) MarkSeen(ctx context.Context, sender domain.UserID, messageIDs []domain.MessageID) error {
	if len(messageIDs) == 0 {
		return nil
	}

	if err := s.statuses.MarkSeen(ctx, messageIDs); err != nil {
		return fmt.Errorf("failed to mark messages seen: %w", err)
	}

	s.logger.Debugw("messages marked seen", "sender", sender, "count", len(messageIDs))
	s.sink.ToUser(sender, domain.Event{
		Type: domain.EventMessageStatusBulk,
		Payload: MessageStatusBulkPayload{
			MessageIDs: messageIDs,
			Status:     domain.StatusSeen,
		},
	})
	return nil
}
