package realtime

import (
	"sync"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
	"wavelink/internal/infrastructure/monitoring"
)

// Hub owns the connection and channel subscription indexes and implements
// the fan-out port the core services deliver through. A connection's channel
// set is fixed at registration; there is no re-subscription while it lives.
type Hub struct {
	mu         sync.RWMutex
	byID       map[domain.ConnectionID]*Client
	byUser     map[domain.UserID]map[*Client]struct{}
	byChannel  map[domain.ChannelID]map[*Client]struct{}
	channelsOf map[*Client][]domain.ChannelID

	collector *monitoring.PrometheusCollector
}

func NewHub(collector *monitoring.PrometheusCollector) *Hub {
	return &Hub{
		byID:       make(map[domain.ConnectionID]*Client),
		byUser:     make(map[domain.UserID]map[*Client]struct{}),
		byChannel:  make(map[domain.ChannelID]map[*Client]struct{}),
		channelsOf: make(map[*Client][]domain.ChannelID),
		collector:  collector,
	}
}

var _ ports.EventSink = (*Hub)(nil)

// Add registers a connection and its fixed channel subscriptions.
func (h *Hub) Add(client *Client, channels []domain.ChannelID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.byID[client.id] = client
	if client.userID != "" {
		set, exists := h.byUser[client.userID]
		if !exists {
			set = make(map[*Client]struct{})
			h.byUser[client.userID] = set
		}
		set[client] = struct{}{}
	}

	h.channelsOf[client] = channels
	for _, channel := range channels {
		subs, exists := h.byChannel[channel]
		if !exists {
			subs = make(map[*Client]struct{})
			h.byChannel[channel] = subs
		}
		subs[client] = struct{}{}
	}
}

// Remove drops a connection from every index.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.byID, client.id)
	if client.userID != "" {
		if set, exists := h.byUser[client.userID]; exists {
			delete(set, client)
			if len(set) == 0 {
				delete(h.byUser, client.userID)
			}
		}
	}

	for _, channel := range h.channelsOf[client] {
		if subs, exists := h.byChannel[channel]; exists {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.byChannel, channel)
			}
		}
	}
	delete(h.channelsOf, client)
}

func (h *Hub) ToConnection(connID domain.ConnectionID, event domain.Event) {
	h.mu.RLock()
	client, exists := h.byID[connID]
	h.mu.RUnlock()

	if !exists {
		return
	}
	h.deliver(event, client)
}

func (h *Hub) ToUser(userID domain.UserID, event domain.Event) {
	h.mu.RLock()
	targets := h.snapshotLocked(h.byUser[userID], "")
	h.mu.RUnlock()

	h.deliver(event, targets...)
}

func (h *Hub) ToChannel(channel domain.ChannelID, event domain.Event) {
	h.mu.RLock()
	targets := h.snapshotLocked(h.byChannel[channel], "")
	h.mu.RUnlock()

	h.deliver(event, targets...)
}

func (h *Hub) ToChannelExcept(channel domain.ChannelID, except domain.UserID, event domain.Event) {
	h.mu.RLock()
	targets := h.snapshotLocked(h.byChannel[channel], except)
	h.mu.RUnlock()

	h.deliver(event, targets...)
}

func (h *Hub) Broadcast(event domain.Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.byID))
	for _, client := range h.byID {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	h.deliver(event, targets...)
}

// ConnectionCount reports the number of live connections, anonymous included.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byID)
}

// snapshotLocked copies a subscriber set so delivery happens outside the
// lock. Callers hold at least the read lock.
func (h *Hub) snapshotLocked(set map[*Client]struct{}, except domain.UserID) []*Client {
	targets := make([]*Client, 0, len(set))
	for client := range set {
		if except != "" && client.userID == except {
			continue
		}
		targets = append(targets, client)
	}
	return targets
}

func (h *Hub) deliver(event domain.Event, targets ...*Client) {
	for _, client := range targets {
		client.enqueue(event)
	}
	if h.collector != nil && len(targets) > 0 {
		h.collector.RecordEventsDelivered(event.Type, len(targets))
	}
}
