package classroom

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// handleJoin processes joinRoom: leave any other room first, register the
// participant, then broadcast the membership snapshot and the joined event.
// Partial state is not rolled back on failure; the next snapshot self-heals.
func (s *Server) handleJoin(connID string, data json.RawMessage) error {
	var req JoinRoomPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode joinRoom: %w", err)
	}
	if req.RoomID == "" || req.UserID == "" || req.UserName == "" {
		return fmt.Errorf("joinRoom missing required fields")
	}
	role := req.Role
	if role != RoleInstructor {
		role = RoleStudent
	}

	// Re-join elsewhere performs a full leave of the previous room,
	// including host promotion there.
	for _, roomID := range s.store.RoomsOf(connID) {
		if roomID != req.RoomID {
			s.leaveRoom(connID, roomID)
		}
	}

	s.registry.SetIdentity(connID, Identity{UserID: req.UserID, UserName: req.UserName, Role: role})

	// An instructor joins as host unless the room already has one; at most
	// one participant holds isHost at any time.
	p := &Participant{
		ConnectionID: connID,
		UserID:       req.UserID,
		UserName:     req.UserName,
		Role:         role,
		IsHost:       role == RoleInstructor && !s.store.HasHost(req.RoomID, connID),
		JoinedAt:     time.Now(),
	}
	s.store.AddParticipant(req.RoomID, p)

	snapshot := RoomParticipantsEvent{RoomID: req.RoomID, Participants: s.store.Participants(req.RoomID)}
	s.broadcastRoom(req.RoomID, EventRoomParticipants, snapshot)
	s.broadcastOthers(req.RoomID, connID, EventParticipantJoined,
		ParticipantJoinedEvent{RoomID: req.RoomID, Participant: *p})

	if s.onJoin != nil {
		go s.onJoin(req.RoomID, req.UserID)
	}
	s.logger.Info("participant joined",
		zap.String("room_id", req.RoomID),
		zap.String("connection_id", connID),
		zap.String("user_id", req.UserID),
		zap.String("role", role),
		zap.Bool("is_host", p.IsHost))
	return nil
}

// handleDisconnect removes the connection from every room it is in, then
// drops it from the registry. Safe to call for already-gone connections.
func (s *Server) handleDisconnect(connID string) {
	for _, roomID := range s.store.RoomsOf(connID) {
		s.leaveRoom(connID, roomID)
	}
	s.registry.Remove(connID)
	delete(s.conns, connID)
}

// leaveRoom removes one connection from one room: revoke any whiteboard
// grant it held, promote a new host if the host left, broadcast the
// departure, and delete the room if it emptied.
func (s *Server) leaveRoom(connID, roomID string) {
	p, removed := s.store.RemoveParticipant(roomID, connID)
	if !removed {
		return
	}

	// A grantee's departure destroys the whiteboard grant; no notification
	// is sent since the grantee is gone.
	s.store.ClearWhiteboardGrantee(roomID, p.UserID)

	remaining := s.store.Participants(roomID)
	if p.IsHost && len(remaining) > 0 {
		if newHost, ok := s.store.PromoteFirst(roomID); ok && len(remaining) >= 2 {
			s.broadcastRoom(roomID, EventHostChanged,
				HostChangedEvent{RoomID: roomID, ConnectionID: newHost.ConnectionID, UserID: newHost.UserID})
		}
	}
	s.broadcastRoom(roomID, EventParticipantLeft,
		ParticipantLeftEvent{RoomID: roomID, ConnectionID: connID, UserID: p.UserID})

	if s.onLeave != nil {
		go s.onLeave(roomID, p.UserID, p.JoinedAt)
	}

	if len(remaining) == 0 {
		if summary, ok := s.store.Summary(roomID); ok && s.onRoomClosed != nil {
			go s.onRoomClosed(summary)
		}
		s.store.RemoveIfEmpty(roomID)
	}

	s.logger.Info("participant left",
		zap.String("room_id", roomID),
		zap.String("connection_id", connID),
		zap.String("user_id", p.UserID),
		zap.Bool("was_host", p.IsHost))
}

// handleControl processes classroomControl from the host: muteAll,
// muteParticipant and removeParticipant. The sender's claimed instructor
// role is required but not otherwise verified.
func (s *Server) handleControl(connID string, data json.RawMessage) {
	var req ControlPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	if !s.isInstructor(connID) {
		return
	}

	switch req.Action {
	case ControlMuteAll:
		s.broadcastOthers(req.RoomID, connID, EventForceAudioState,
			ForceAudioStateEvent{RoomID: req.RoomID, Muted: true})
	case ControlMuteParticipant:
		if req.TargetID == "" {
			return
		}
		s.sendTo(req.TargetID, EventForceAudioState,
			ForceAudioStateEvent{RoomID: req.RoomID, Muted: true})
	case ControlRemoveParticipant:
		if req.TargetID == "" {
			return
		}
		s.sendTo(req.TargetID, EventKicked, KickedEvent{RoomID: req.RoomID})
		s.leaveRoom(req.TargetID, req.RoomID)
		if closer, ok := s.conns[req.TargetID].(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
}
