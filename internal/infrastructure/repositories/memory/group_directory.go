package memory

import (
	"context"
	"sync"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
)

// GroupDirectory is an in-memory group-membership directory, used in
// development and tests in place of the real membership collaborator.
type GroupDirectory struct {
	mu      sync.RWMutex
	members map[domain.GroupID]map[domain.UserID]struct{}
}

func NewGroupDirectory() *GroupDirectory {
	return &GroupDirectory{
		members: make(map[domain.GroupID]map[domain.UserID]struct{}),
	}
}

var _ ports.GroupDirectory = (*GroupDirectory)(nil)

func (d *GroupDirectory) AddMember(groupID domain.GroupID, userID domain.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	set, exists := d.members[groupID]
	if !exists {
		set = make(map[domain.UserID]struct{})
		d.members[groupID] = set
	}
	set[userID] = struct{}{}
}

func (d *GroupDirectory) RemoveMember(groupID domain.GroupID, userID domain.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if set, exists := d.members[groupID]; exists {
		delete(set, userID)
		if len(set) == 0 {
			delete(d.members, groupID)
		}
	}
}

func (d *GroupDirectory) GroupsFor(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var groups []domain.GroupID
	for groupID, set := range d.members {
		if _, ok := set[userID]; ok {
			groups = append(groups, groupID)
		}
	}
	return groups, nil
}

func (d *GroupDirectory) Members(ctx context.Context, groupID domain.GroupID) ([]domain.UserID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	set, exists := d.members[groupID]
	if !exists {
		return nil, domain.ErrGroupNotFound
	}

	users := make([]domain.UserID, 0, len(set))
	for id := range set {
		users = append(users, id)
	}
	return users, nil
}
