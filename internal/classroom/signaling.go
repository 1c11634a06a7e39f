package classroom

import "encoding/json"

// handleSignal relays offer, answer and iceCandidate to the named target
// connection, attaching the sender's connection id and the room id. There is
// no room-membership validation and a missing target is a silent drop: the
// WebRTC layer's own retries and ICE restarts recover from lost signaling.
func (s *Server) handleSignal(connID, event string, data json.RawMessage) {
	switch event {
	case EventOffer:
		var req OfferPayload
		if err := json.Unmarshal(data, &req); err != nil || req.Target == "" {
			return
		}
		s.sendTo(req.Target, EventOffer, OfferEvent{From: connID, RoomID: req.RoomID, Offer: req.Offer})
	case EventAnswer:
		var req AnswerPayload
		if err := json.Unmarshal(data, &req); err != nil || req.Target == "" {
			return
		}
		s.sendTo(req.Target, EventAnswer, AnswerEvent{From: connID, RoomID: req.RoomID, Answer: req.Answer})
	case EventICECandidate:
		var req ICECandidatePayload
		if err := json.Unmarshal(data, &req); err != nil || req.Target == "" {
			return
		}
		s.sendTo(req.Target, EventICECandidate,
			ICECandidateEvent{From: connID, RoomID: req.RoomID, Candidate: req.Candidate})
	}
}

// handleStreamStatus broadcasts the sender's audio/video flags to the rest
// of the room.
func (s *Server) handleStreamStatus(connID string, data json.RawMessage) {
	var req StreamStatusPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	id, ok := s.senderIdentity(connID)
	if !ok {
		return
	}
	s.broadcastOthers(req.RoomID, connID, EventStreamStatus, StreamStatusEvent{
		ConnectionID: connID,
		UserID:       id.UserID,
		RoomID:       req.RoomID,
		Status:       req.Status,
	})
}

// handleScreenShare broadcasts startScreenShare/stopScreenShare to the rest
// of the room.
func (s *Server) handleScreenShare(connID, event string, data json.RawMessage) {
	var req ScreenSharePayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	s.broadcastOthers(req.RoomID, connID, event,
		ScreenShareEvent{RoomID: req.RoomID, UserID: req.UserID})
}

// handleScreenTrackAdded notifies peers that a screen track joined the
// sender's streams. With a targetId it goes to that one connection for a
// targeted renegotiation notice; otherwise to the rest of the room.
func (s *Server) handleScreenTrackAdded(connID string, data json.RawMessage) {
	var req ScreenSharePayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	evt := ScreenShareEvent{RoomID: req.RoomID, UserID: req.UserID}
	if req.TargetID != "" {
		s.sendTo(req.TargetID, EventScreenTrackAdded, evt)
		return
	}
	s.broadcastOthers(req.RoomID, connID, EventScreenTrackAdded, evt)
}
