package services

import (
	"context"
	"sync"
	"time"

	"wavelink/internal/core/domain"
)

// capturedEvent records one delivery through the fake sink, tagged with the
// targeting method that produced it.
type capturedEvent struct {
	Target  string // "connection", "user", "channel", "channel_except", "broadcast"
	ConnID  domain.ConnectionID
	UserID  domain.UserID
	Channel domain.ChannelID
	Except  domain.UserID
	Event   domain.Event
}

type fakeSink struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (f *fakeSink) ToConnection(connID domain.ConnectionID, event domain.Event) {
	f.record(capturedEvent{Target: "connection", ConnID: connID, Event: event})
}

func (f *fakeSink) ToUser(userID domain.UserID, event domain.Event) {
	f.record(capturedEvent{Target: "user", UserID: userID, Event: event})
}

func (f *fakeSink) ToChannel(channel domain.ChannelID, event domain.Event) {
	f.record(capturedEvent{Target: "channel", Channel: channel, Event: event})
}

func (f *fakeSink) ToChannelExcept(channel domain.ChannelID, except domain.UserID, event domain.Event) {
	f.record(capturedEvent{Target: "channel_except", Channel: channel, Except: except, Event: event})
}

func (f *fakeSink) Broadcast(event domain.Event) {
	f.record(capturedEvent{Target: "broadcast", Event: event})
}

func (f *fakeSink) record(e capturedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeSink) All() []capturedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]capturedEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeSink) OfType(eventType string) []capturedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []capturedEvent
	for _, e := range f.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSink) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

// fakeRegistry is a minimal in-test connection index.
type fakeRegistry struct {
	mu    sync.Mutex
	conns map[domain.UserID]map[domain.ConnectionID]struct{}
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{conns: make(map[domain.UserID]map[domain.ConnectionID]struct{})}
}

func (r *fakeRegistry) Register(userID domain.UserID, connID domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, exists := r.conns[userID]
	if !exists {
		set = make(map[domain.ConnectionID]struct{})
		r.conns[userID] = set
	}
	set[connID] = struct{}{}
	return !exists
}

func (r *fakeRegistry) Unregister(userID domain.UserID, connID domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, exists := r.conns[userID]
	if !exists {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.conns, userID)
		return true
	}
	return false
}

func (r *fakeRegistry) Connections(userID domain.UserID) []domain.ConnectionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []domain.ConnectionID
	for id := range r.conns[userID] {
		ids = append(ids, id)
	}
	return ids
}

func (r *fakeRegistry) OnlineUsers() []domain.UserID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []domain.UserID
	for id := range r.conns {
		users = append(users, id)
	}
	return users
}

// fakeLastSeen records Touch calls and can be primed to fail.
type fakeLastSeen struct {
	mu      sync.Mutex
	touched map[domain.UserID]time.Time
	err     error
}

func newFakeLastSeen() *fakeLastSeen {
	return &fakeLastSeen{touched: make(map[domain.UserID]time.Time)}
}

func (s *fakeLastSeen) Touch(ctx context.Context, userID domain.UserID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.touched[userID] = at
	return nil
}

func (s *fakeLastSeen) Get(ctx context.Context, userID domain.UserID) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.touched[userID]
	if !ok {
		return time.Time{}, domain.ErrUserNotFound
	}
	return at, nil
}

// fakeStatusStore records status mutations and can be primed to fail.
type fakeStatusStore struct {
	mu        sync.Mutex
	delivered []domain.MessageID
	seen      []domain.MessageID
	err       error
}

func (s *fakeStatusStore) MarkDelivered(ctx context.Context, messageID domain.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, messageID)
	return nil
}

func (s *fakeStatusStore) MarkSeen(ctx context.Context, messageIDs []domain.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.seen = append(s.seen, messageIDs...)
	return nil
}

// fakeDirectory serves fixed group memberships.
type fakeDirectory struct {
	groups  map[domain.UserID][]domain.GroupID
	members map[domain.GroupID][]domain.UserID
	err     error
}

func (d *fakeDirectory) GroupsFor(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.groups[userID], nil
}

func (d *fakeDirectory) Members(ctx context.Context, groupID domain.GroupID) ([]domain.UserID, error) {
	if d.err != nil {
		return nil, d.err
	}
	members, ok := d.members[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return members, nil
}
