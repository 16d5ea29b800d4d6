package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
	"wavelink/internal/core/services"
	"wavelink/internal/infrastructure/monitoring"
	"wavelink/pkg/utils"
	"wavelink/pkg/validation"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options carries the transport tunables, normally sourced from config.
type Options struct {
	PingInterval      time.Duration
	PongTimeout       time.Duration
	WriteTimeout      time.Duration
	SendBuffer        int
	MaxMessageSize    int64
	MessagesPerSecond float64
	MessageBurst      int
	AllowedOrigins    []string
}

func DefaultOptions() Options {
	return Options{
		PingInterval:      30 * time.Second,
		PongTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		SendBuffer:        32,
		MaxMessageSize:    64 * 1024,
		MessagesPerSecond: 50,
		MessageBurst:      100,
		AllowedOrigins:    []string{"*"},
	}
}

// Server accepts WebSocket handshakes and dispatches the inbound event
// surface to the core services. A connection without a resolvable user id is
// accepted as anonymous: it receives broadcasts but joins no per-user
// channel and may not emit user-scoped events.
type Server struct {
	hub      *Hub
	presence ports.PresenceService
	roster   ports.RosterService
	typing   ports.TypingService
	calls    ports.CallService
	delivery ports.DeliveryService
	auth     services.AuthService

	collector *monitoring.PrometheusCollector
	opts      Options
	upgrader  websocket.Upgrader
	logger    *zap.SugaredLogger
}

func NewServer(
	hub *Hub,
	presence ports.PresenceService,
	roster ports.RosterService,
	typing ports.TypingService,
	calls ports.CallService,
	delivery ports.DeliveryService,
	auth services.AuthService,
	collector *monitoring.PrometheusCollector,
	opts Options,
	logger *zap.SugaredLogger,
) *Server {
	allowAll := len(opts.AllowedOrigins) == 0
	allowed := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return &Server{
		hub:       hub,
		presence:  presence,
		roster:    roster,
		typing:    typing,
		calls:     calls,
		delivery:  delivery,
		auth:      auth,
		collector: collector,
		opts:      opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
		logger: logger,
	}
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	ctx := r.Context()
	userID := s.resolveUser(r)
	connID := domain.ConnectionID(utils.GenerateConnectionID())

	client := newClient(connID, userID, conn,
		s.opts.SendBuffer, s.opts.PingInterval, s.opts.WriteTimeout, s.logger)

	// membership is read before the client is registered so no registry or
	// hub mutation spans the lookup
	channels := s.channelsFor(ctx, userID)

	s.hub.Add(client, channels)
	go client.writePump()

	if userID != "" {
		s.presence.Connect(ctx, userID, connID)
	}
	if s.collector != nil {
		s.collector.RecordConnectionOpened(userID != "")
		s.collector.SetUsersOnline(len(s.presence.OnlineUsers()))
	}

	s.logger.Infow("connection opened",
		"connection_id", connID, "user_id", userID, "channels", len(channels))

	s.readLoop(client)

	s.hub.Remove(client)
	client.close()
	if userID != "" {
		s.presence.Disconnect(context.Background(), userID, connID)
	}
	if s.collector != nil {
		s.collector.RecordConnectionClosed()
		s.collector.SetUsersOnline(len(s.presence.OnlineUsers()))
	}

	s.logger.Infow("connection closed", "connection_id", connID, "user_id", userID)
}

// resolveUser extracts the user identity from the handshake token. Invalid
// or missing credentials degrade to an anonymous connection.
func (s *Server) resolveUser(r *http.Request) domain.UserID {
	token := r.URL.Query().Get("token")
	if token == "" {
		return ""
	}

	claims, err := s.auth.ValidateToken(token)
	if err != nil {
		s.logger.Warnw("handshake token rejected", "error", err)
		return ""
	}
	return claims.UserID
}

// channelsFor resolves the connection's fixed subscription set. A directory
// outage degrades to the user's own channel so direct delivery keeps working.
func (s *Server) channelsFor(ctx context.Context, userID domain.UserID) []domain.ChannelID {
	if userID == "" {
		return nil
	}

	channels, err := s.roster.ChannelsFor(ctx, userID)
	if err != nil {
		s.logger.Warnw("group roster lookup failed, joining own channel only",
			"user_id", userID, "error", err)
		return []domain.ChannelID{userID.Channel()}
	}
	return channels
}

func (s *Server) readLoop(client *Client) {
	conn := client.conn
	conn.SetReadLimit(s.opts.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.opts.PongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.opts.PongTimeout))
		return nil
	})

	limiter := rate.NewLimiter(rate.Limit(s.opts.MessagesPerSecond), s.opts.MessageBurst)

	for {
		var msg InboundEvent
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Infow("read failed", "connection_id", client.id, "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.opts.PongTimeout))

		if !limiter.Allow() {
			s.sendError(client, "message rate limit exceeded")
			continue
		}

		if s.collector != nil {
			s.collector.RecordEventReceived(msg.Type)
		}
		if err := s.handleEvent(context.Background(), client, msg); err != nil {
			s.logger.Infow("event rejected",
				"connection_id", client.id, "user_id", client.userID,
				"type", msg.Type, "error", err)
			s.sendError(client, err.Error())
		}
	}
}

func (s *Server) handleEvent(ctx context.Context, client *Client, msg InboundEvent) error {
	if msg.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if client.userID == "" {
		return fmt.Errorf("event %q requires an authenticated connection", msg.Type)
	}

	switch msg.Type {
	case domain.EventTyping, domain.EventStopTyping:
		return s.handleTyping(client, msg)
	case domain.EventCallInvite:
		return s.handleCallInvite(ctx, client, msg)
	case domain.EventCallAccept:
		return s.handleCallAccept(ctx, client, msg)
	case domain.EventCallReject:
		return s.handleCallReject(ctx, client, msg)
	case domain.EventCallEnd:
		return s.handleCallEnd(ctx, client, msg)
	case domain.EventGroupCallStart:
		return s.handleGroupCallStart(ctx, client, msg)
	case domain.EventGroupCallEnd:
		return s.handleGroupCallEnd(ctx, client, msg)
	case domain.EventMessageSeen:
		return s.handleMessageSeen(ctx, client, msg)
	default:
		return fmt.Errorf("unknown event type: %s", msg.Type)
	}
}

func (s *Server) handleTyping(client *Client, msg InboundEvent) error {
	var payload TypingPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid typing payload: %w", err)
	}
	if err := validation.ValidateChannelID(payload.To); err != nil {
		return err
	}

	target := domain.ChannelID(payload.To)
	if msg.Type == domain.EventTyping {
		s.typing.StartTyping(client.userID, target)
	} else {
		s.typing.StopTyping(client.userID, target)
	}
	return nil
}

func (s *Server) handleCallInvite(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload CallInvitePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid call invite payload: %w", err)
	}
	if err := validation.ValidateUserID(string(payload.To)); err != nil {
		return err
	}
	if err := validation.ValidateCallType(string(payload.CallType)); err != nil {
		return err
	}

	roomID := payload.RoomID
	if roomID == "" {
		roomID = utils.CallRoomID(string(client.userID), string(payload.To))
	}
	if err := validation.ValidateRoomID(roomID); err != nil {
		return err
	}

	err := s.calls.Invite(ctx, client.userID, payload.To, payload.CallType, roomID)
	s.recordCallOutcome(err, "ringing", domain.ErrCallBusy, "busy")
	if errors.Is(err, domain.ErrCallBusy) {
		// conflict already surfaced to the caller as a busy event
		return nil
	}
	return err
}

func (s *Server) handleCallAccept(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload CallAcceptPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid call accept payload: %w", err)
	}
	if err := validation.ValidateUserID(string(payload.To)); err != nil {
		return err
	}

	err := s.calls.Accept(ctx, client.userID, payload.To, payload.RoomID)
	s.recordCallOutcome(err, "accepted", domain.ErrCallNotFound, "stale_accept")
	return err
}

func (s *Server) handleCallReject(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload CallRejectPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid call reject payload: %w", err)
	}
	if err := validation.ValidateUserID(string(payload.To)); err != nil {
		return err
	}

	err := s.calls.Reject(ctx, client.userID, payload.To)
	s.recordCallOutcome(err, "rejected", domain.ErrCallNotFound, "stale_reject")
	if errors.Is(err, domain.ErrCallNotFound) {
		// rejecting an already-gone call is harmless
		return nil
	}
	return err
}

func (s *Server) handleCallEnd(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload CallEndPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid call end payload: %w", err)
	}

	err := s.calls.End(ctx, client.userID, payload.To)
	s.recordCallOutcome(err, "ended", nil, "")
	return err
}

func (s *Server) handleGroupCallStart(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload GroupCallStartPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid group call start payload: %w", err)
	}
	if err := validation.ValidateGroupID(string(payload.GroupID)); err != nil {
		return err
	}
	if err := validation.ValidateCallType(string(payload.CallType)); err != nil {
		return err
	}

	roomID := payload.RoomID
	if roomID == "" {
		roomID = utils.GroupCallRoomID(string(payload.GroupID))
	}
	if err := validation.ValidateRoomID(roomID); err != nil {
		return err
	}

	err := s.calls.StartGroup(ctx, client.userID, payload.GroupID, payload.CallType, roomID)
	s.recordCallOutcome(err, "group_started", domain.ErrCallAlreadyActive, "already_active")
	if errors.Is(err, domain.ErrCallAlreadyActive) {
		// conflict already surfaced to the initiator
		return nil
	}
	return err
}

func (s *Server) handleGroupCallEnd(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload GroupCallEndPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid group call end payload: %w", err)
	}
	if err := validation.ValidateGroupID(string(payload.GroupID)); err != nil {
		return err
	}

	err := s.calls.EndGroup(ctx, client.userID, payload.GroupID)
	s.recordCallOutcome(err, "group_ended", nil, "")
	return err
}

func (s *Server) handleMessageSeen(ctx context.Context, client *Client, msg InboundEvent) error {
	var payload MessageSeenPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid message seen payload: %w", err)
	}
	if err := validation.ValidateUserID(string(payload.SenderID)); err != nil {
		return err
	}

	return s.delivery.MarkSeen(ctx, payload.SenderID, payload.MessageIDs)
}

func (s *Server) recordCallOutcome(err error, success string, conflictErr error, conflict string) {
	if s.collector == nil {
		return
	}

	switch {
	case err == nil:
		s.collector.RecordCallSetup(success)
	case conflictErr != nil && errors.Is(err, conflictErr):
		s.collector.RecordCallSetup(conflict)
	}
	s.collector.SetCallsActive(len(s.calls.ActiveCalls()))
}

func (s *Server) sendError(client *Client, message string) {
	client.enqueue(domain.Event{
		Type:    "error",
		Payload: ErrorPayload{Message: message},
	})
}

// HealthCheck reports liveness plus the live connection count.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().Unix(),
		"connections": s.hub.ConnectionCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
