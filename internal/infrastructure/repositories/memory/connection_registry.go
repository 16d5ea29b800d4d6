package memory

import (
	"sync"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
)

// ConnectionRegistry is the in-process user -> live-connection index. Entries
// are created on a user's first connection and removed entirely when the set
// drains, so the key set doubles as the online-user set.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[domain.UserID]map[domain.ConnectionID]struct{}
}

func NewConnectionRegistry() ports.ConnectionRegistry {
	return &ConnectionRegistry{
		conns: make(map[domain.UserID]map[domain.ConnectionID]struct{}),
	}
}

func (r *ConnectionRegistry) Register(userID domain.UserID, connID domain.ConnectionID) bool {
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

func (r *ConnectionRegistry) Unregister(userID domain.UserID, connID domain.ConnectionID) bool {
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

func (r *ConnectionRegistry) Connections(userID domain.UserID) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.conns[userID]
	ids := make([]domain.ConnectionID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

func (r *ConnectionRegistry) OnlineUsers() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.UserID, 0, len(r.conns))
	for id := range r.conns {
		users = append(users, id)
	}
	return users
}
