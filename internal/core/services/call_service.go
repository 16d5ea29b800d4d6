package services

import (
	"context"
	"sync"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"go.uber.org/zap"
)

type CallIncomingPayload struct {
	Caller   domain.UserID   `json:"caller"`
	CallType domain.CallKind `json:"callType"`
	RoomID   string          `json:"roomId"`
}

type CallBusyPayload struct {
	From domain.UserID `json:"from"`
}

type CallAcceptedPayload struct {
	From   domain.UserID `json:"from"`
	RoomID string        `json:"roomId"`
}

type CallRejectedPayload struct {
	From domain.UserID `json:"from"`
}

type CallEndedPayload struct {
	From domain.UserID `json:"from"`
}

type GroupCallPayload struct {
	GroupID  domain.GroupID  `json:"groupId"`
	CallType domain.CallKind `json:"callType,omitempty"`
	RoomID   string          `json:"roomId,omitempty"`
	Caller   domain.UserID   `json:"caller,omitempty"`
}

// callService brokers call setup and teardown. It owns the only two
// call-related mutable structures in the process: the per-user occupancy
// index for 1:1 sessions and the per-group active-call table. Both are
// mutated strictly inside the mutex and never across I/O; event delivery
// happens after the mutation is committed.
//
// The broker places no timer on ringing sessions: the caller's client owns
// the no-answer timeout and cancels via End. Disconnects do not tear down
// calls either; only explicit end/reject events do.
type callService struct {
	mu      sync.Mutex
	byUser  map[domain.UserID]*domain.CallSession
	byGroup map[domain.GroupID]*domain.CallSession

	sink   ports.EventSink
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewCallService(sink ports.EventSink, logger *zap.SugaredLogger) ports.CallService {
	return &callService{
		byUser:  make(map[domain.UserID]*domain.CallSession),
		byGroup: make(map[domain.GroupID]*domain.CallSession),
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *callService) Invite(ctx context.Context, caller, callee domain.UserID, kind domain.CallKind, roomID string) error {
	s.mu.Lock()
	if s.byUser[caller] != nil || s.byUser[callee] != nil {
		s.mu.Unlock()

		s.logger.Infow("call rejected busy", "caller", caller, "callee", callee)
		s.sink.ToUser(caller, domain.Event{
			Type:    domain.EventCallBusy,
			Payload: CallBusyPayload{From: callee},
		})
		return domain.ErrCallBusy
	}

	session := &domain.CallSession{
		Participants: []domain.UserID{caller, callee},
		Kind:         kind,
		RoomID:       roomID,
		State:        domain.CallRinging,
		StartedAt:    s.now(),
	}
	s.byUser[caller] = session
	s.byUser[callee] = session
	s.mu.Unlock()

	s.logger.Infow("call ringing", "caller", caller, "callee", callee, "kind", kind, "room_id", roomID)
	s.sink.ToUser(callee, domain.Event{
		Type:    domain.EventCallIncoming,
		Payload: CallIncomingPayload{Caller: caller, CallType: kind, RoomID: roomID},
	})
	return nil
}

func (s *callService) Accept(ctx context.Context, callee, caller domain.UserID, roomID string) error {
	s.mu.Lock()
	session := s.byUser[callee]
	if session == nil || session.IsGroup() {
		s.mu.Unlock()
		return domain.ErrCallNotFound
	}
	// the named caller must be this session's counterpart, otherwise a
	// mid-call client could make an unrelated user hear an acceptance
	if other, ok := session.Other(callee); !ok || other != caller {
		s.mu.Unlock()
		return domain.ErrCallNotFound
	}
	session.State = domain.CallActive
	s.mu.Unlock()

	s.logger.Infow("call accepted", "caller", caller, "callee", callee, "room_id", roomID)
	s.sink.ToUser(caller, domain.Event{
		Type:    domain.EventCallAccepted,
		Payload: CallAcceptedPayload{From: callee, RoomID: roomID},
	})
	return nil
}

func (s *callService) Reject(ctx context.Context, callee, caller domain.UserID) error {
	s.mu.Lock()
	session := s.byUser[callee]
	if session == nil || session.IsGroup() {
		s.mu.Unlock()
		return domain.ErrCallNotFound
	}
	if other, ok := session.Other(callee); !ok || other != caller {
		s.mu.Unlock()
		return domain.ErrCallNotFound
	}
	s.releaseLocked(session)
	s.mu.Unlock()

	s.logger.Infow("call rejected", "caller", caller, "callee", callee)
	s.sink.ToUser(caller, domain.Event{
		Type:    domain.EventCallRejected,
		Payload: CallRejectedPayload{From: callee},
	})
	return nil
}

// End tears down the session either party belongs to. Ending a call that no
// longer exists is a no-op, which makes the client-side no-answer timeout and
// double hang-ups safe.
func (s *callService) End(ctx context.Context, from, other domain.UserID) error {
	s.mu.Lock()
	session := s.byUser[from]
	if session == nil {
		s.mu.Unlock()
		return nil
	}
	if other == "" {
		other, _ = session.Other(from)
	}
	s.releaseLocked(session)
	s.mu.Unlock()

	s.logger.Infow("call ended", "from", from, "other", other)
	if other != "" {
		s.sink.ToUser(other, domain.Event{
			Type:    domain.EventCallEnded,
			Payload: CallEndedPayload{From: from},
		})
	}
	return nil
}

func (s *callService) StartGroup(ctx context.Context, initiator domain.UserID, groupID domain.GroupID, kind domain.CallKind, roomID string) error {
	s.mu.Lock()
	if s.byGroup[groupID] != nil {
		s.mu.Unlock()

		s.logger.Infow("group call already active", "group_id", groupID, "initiator", initiator)
		s.sink.ToUser(initiator, domain.Event{
			Type:    domain.EventGroupCallAlreadyActive,
			Payload: GroupCallPayload{GroupID: groupID},
		})
		return domain.ErrCallAlreadyActive
	}

	// group calls skip the ringing handshake and go active immediately
	session := &domain.CallSession{
		Participants: []domain.UserID{initiator},
		GroupID:      groupID,
		Kind:         kind,
		RoomID:       roomID,
		State:        domain.CallActive,
		StartedAt:    s.now(),
	}
	s.byGroup[groupID] = session
	s.mu.Unlock()

	s.logger.Infow("group call started", "group_id", groupID, "initiator", initiator, "kind", kind)
	s.sink.ToChannelExcept(groupID.Channel(), initiator, domain.Event{
		Type:    domain.EventGroupCallIncoming,
		Payload: GroupCallPayload{GroupID: groupID, CallType: kind, RoomID: roomID, Caller: initiator},
	})
	return nil
}

func (s *callService) EndGroup(ctx context.Context, from domain.UserID, groupID domain.GroupID) error {
	s.mu.Lock()
	session := s.byGroup[groupID]
	if session == nil {
		s.mu.Unlock()
		return nil
	}
	delete(s.byGroup, groupID)
	s.mu.Unlock()

	s.logger.Infow("group call ended", "group_id", groupID, "from", from)
	s.sink.ToChannel(groupID.Channel(), domain.Event{
		Type:    domain.EventGroupCallEnded,
		Payload: GroupCallPayload{GroupID: groupID},
	})
	return nil
}

// ActiveCalls copies the sessions under the lock so callers never observe
// concurrent state transitions or alias the broker's participant slices.
func (s *callService) ActiveCalls() []domain.CallSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[*domain.CallSession]struct{})
	var sessions []domain.CallSession
	for _, session := range s.byUser {
		if _, ok := seen[session]; !ok {
			seen[session] = struct{}{}
			sessions = append(sessions, snapshotSession(session))
		}
	}
	for _, session := range s.byGroup {
		sessions = append(sessions, snapshotSession(session))
	}
	return sessions
}

func snapshotSession(session *domain.CallSession) domain.CallSession {
	copied := *session
	copied.Participants = append([]domain.UserID(nil), session.Participants...)
	return copied
}

// releaseLocked clears the occupancy of every 1:1 participant. Callers hold
// the mutex.
func (s *callService) releaseLocked(session *domain.CallSession) {
	for _, p := range session.Participants {
		if s.byUser[p] == session {
			delete(s.byUser, p)
		}
	}
}
