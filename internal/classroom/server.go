package classroom

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sender delivers an outbound envelope to one connection without blocking.
// The WebSocket client implements it with a buffered channel; tests register
// recording fakes.
type Sender interface {
	Send(msg Envelope) bool
}

// JoinHook and LeaveHook observe membership transitions, e.g. for attendance
// logging. Hooks run on their own goroutine so they may block on I/O.
type (
	JoinHook  func(roomID, userID string)
	LeaveHook func(roomID, userID string, joinedAt time.Time)
)

// RoomClosedHook receives the closing summary when a room empties.
type RoomClosedHook func(summary RoomSummary)

// Server coordinates the live-classroom components: connection registry,
// room store, signaling relay, whiteboard access and engagement fan-out.
//
// Every inbound event runs to completion under one mutex; outbound sends are
// non-blocking channel pushes, so no I/O happens while the lock is held.
type Server struct {
	mu       sync.Mutex
	registry *Registry
	store    *RoomStore
	conns    map[string]Sender
	logger   *zap.Logger

	onJoin       JoinHook
	onLeave      LeaveHook
	onRoomClosed RoomClosedHook
}

// NewServer creates a classroom server with its own registry and store.
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry: NewRegistry(),
		store:    NewRoomStore(),
		conns:    make(map[string]Sender),
		logger:   logger,
	}
}

// SetLifecycleHooks installs join/leave observers.
func (s *Server) SetLifecycleHooks(onJoin JoinHook, onLeave LeaveHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onJoin = onJoin
	s.onLeave = onLeave
}

// SetRoomClosedHook installs the room-closed observer.
func (s *Server) SetRoomClosedHook(fn RoomClosedHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRoomClosed = fn
}

// Connect registers a new transport connection.
func (s *Server) Connect(connID string, sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[connID] = sender
	s.registry.Register(connID)
	s.logger.Debug("connection opened", zap.String("connection_id", connID))
}

// Disconnect removes a connection and cleans up its room membership.
func (s *Server) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handleDisconnect(connID)
	s.logger.Debug("connection closed", zap.String("connection_id", connID))
}

// ParticipantCount returns the current membership size of a room.
func (s *Server) ParticipantCount(roomID string) int {
	return len(s.store.Participants(roomID))
}

// HandleEvent dispatches one inbound event. Handler failures are logged and
// never propagate; only joinRoom reports an error back to the sender.
func (s *Server) HandleEvent(connID, event string, data json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("classroom handler panic",
				zap.String("event", event),
				zap.String("connection_id", connID),
				zap.Any("panic", r))
		}
	}()

	switch event {
	case EventJoinRoom:
		if err := s.handleJoin(connID, data); err != nil {
			s.logger.Warn("join failed", zap.String("connection_id", connID), zap.Error(err))
			s.sendTo(connID, EventError, ErrorEvent{Message: "failed to join room"})
		}
	case EventOffer, EventAnswer, EventICECandidate:
		s.handleSignal(connID, event, data)
	case EventStreamStatus:
		s.handleStreamStatus(connID, data)
	case EventStartScreenShare, EventStopScreenShare:
		s.handleScreenShare(connID, event, data)
	case EventScreenTrackAdded:
		s.handleScreenTrackAdded(connID, data)
	case EventChatMessage:
		s.handleChatMessage(connID, data)
	case EventRaiseHand, EventLowerHand:
		s.handleHand(connID, event, data)
	case EventWhiteboardDraw:
		s.handleWhiteboardDraw(connID, data)
	case EventWhiteboardClear:
		s.handleWhiteboardClear(connID, data)
	case EventWhiteboardAccessRequest:
		s.handleWhiteboardAccessRequest(connID, data)
	case EventWhiteboardAccessResponse:
		s.handleWhiteboardAccessResponse(connID, data)
	case EventWhiteboardAccessRevoked:
		s.handleWhiteboardAccessRevoked(connID, data)
	case EventClassroomControl:
		s.handleControl(connID, data)
	case EventCreatePoll:
		s.handleCreatePoll(connID, data)
	case EventSubmitPollAnswer:
		s.handleSubmitPollAnswer(connID, data)
	case EventEndPoll:
		s.handleEndPoll(connID, data)
	case EventAskQuestion:
		s.handleAskQuestion(connID, data)
	case EventMarkQuestionAnswered:
		s.handleMarkQuestionAnswered(connID, data)
	default:
		// unknown events are ignored
	}
}

// sendTo delivers an event to one connection. A missing connection is a
// silent no-op: signaling is best-effort.
func (s *Server) sendTo(connID, event string, payload interface{}) {
	sender, ok := s.conns[connID]
	if !ok {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("marshal outbound event", zap.String("event", event), zap.Error(err))
		return
	}
	if !sender.Send(Envelope{Event: event, Data: data}) {
		s.logger.Debug("send buffer full, dropping",
			zap.String("event", event), zap.String("connection_id", connID))
	}
}

// broadcastRoom sends an event to every participant in a room.
func (s *Server) broadcastRoom(roomID, event string, payload interface{}) {
	for _, p := range s.store.Participants(roomID) {
		s.sendTo(p.ConnectionID, event, payload)
	}
}

// broadcastOthers sends an event to every participant except one connection.
func (s *Server) broadcastOthers(roomID, exceptConn, event string, payload interface{}) {
	for _, p := range s.store.Participants(roomID) {
		if p.ConnectionID != exceptConn {
			s.sendTo(p.ConnectionID, event, payload)
		}
	}
}

// broadcastInstructors sends an event to every instructor in a room.
func (s *Server) broadcastInstructors(roomID, event string, payload interface{}) {
	for _, p := range s.store.Participants(roomID) {
		if p.Role == RoleInstructor {
			s.sendTo(p.ConnectionID, event, payload)
		}
	}
}

// senderIdentity resolves the registered identity of a connection.
func (s *Server) senderIdentity(connID string) (Identity, bool) {
	return s.registry.Lookup(connID)
}

// isInstructor reports whether the connection's claimed role is instructor.
// The claim from joinRoom is trusted as-is.
func (s *Server) isInstructor(connID string) bool {
	id, ok := s.registry.Lookup(connID)
	return ok && id.Role == RoleInstructor
}
