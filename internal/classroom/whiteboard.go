package classroom

import "encoding/json"

// handleWhiteboardDraw rebroadcasts a draw action to every other participant.
// The canvas's point of truth lives client-side, replayed from the draw
// stream; the server keeps no canvas snapshot and does not gate drawing on
// the current grant.
func (s *Server) handleWhiteboardDraw(connID string, data json.RawMessage) {
	var req DrawPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	s.broadcastOthers(req.RoomID, connID, EventWhiteboardDraw, req)
}

// handleWhiteboardClear rebroadcasts a clear action to every other participant.
func (s *Server) handleWhiteboardClear(connID string, data json.RawMessage) {
	var req WhiteboardClearPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	s.broadcastOthers(req.RoomID, connID, EventWhiteboardClear, req)
}

// handleWhiteboardAccessRequest forwards a student's write-access request to
// every instructor in the room; any instructor present may respond.
func (s *Server) handleWhiteboardAccessRequest(connID string, data json.RawMessage) {
	var req WhiteboardAccessRequestPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.UserID == "" {
		return
	}
	s.broadcastInstructors(req.RoomID, EventWhiteboardAccessRequest, req)
}

// handleWhiteboardAccessResponse applies an instructor's grant or denial.
// A grant replaces any prior grantee without notifying the displaced
// student; the notification goes to the responded-to connection only.
func (s *Server) handleWhiteboardAccessResponse(connID string, data json.RawMessage) {
	var req WhiteboardAccessResponsePayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.UserID == "" {
		return
	}
	if !s.isInstructor(connID) {
		return
	}
	targetConn, ok := s.store.FindByUserID(req.RoomID, req.UserID)
	if !ok {
		return
	}
	if req.Granted {
		s.store.SetWhiteboardGrantee(req.RoomID, req.UserID)
	}
	s.sendTo(targetConn, EventWhiteboardAccessResponse, req)
}

// handleWhiteboardAccessRevoked returns the room to locked and notifies the
// revoked student.
func (s *Server) handleWhiteboardAccessRevoked(connID string, data json.RawMessage) {
	var req WhiteboardAccessRevokedPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.UserID == "" {
		return
	}
	if !s.isInstructor(connID) {
		return
	}
	s.store.ClearWhiteboardGrantee(req.RoomID, req.UserID)
	if targetConn, ok := s.store.FindByUserID(req.RoomID, req.UserID); ok {
		s.sendTo(targetConn, EventWhiteboardAccessRevoked, req)
	}
}
