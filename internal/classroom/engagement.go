package classroom

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// handleChatMessage broadcasts a chat message to the entire room, sender
// included. The message id is the server timestamp in milliseconds; clients
// reconcile their optimistic render by id. Messages from connections without
// a participant record in the room are dropped.
func (s *Server) handleChatMessage(connID string, data json.RawMessage) {
	var req ChatMessagePayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.Message == "" {
		return
	}
	p, ok := s.store.GetParticipant(req.RoomID, connID)
	if !ok {
		return
	}
	now := time.Now()
	s.store.CountChat(req.RoomID)
	s.broadcastRoom(req.RoomID, EventChatMessage, ChatMessageEvent{
		ID:     now.UnixMilli(),
		RoomID: req.RoomID,
		Sender: ChatSender{
			ConnectionID: connID,
			UserID:       p.UserID,
			UserName:     p.UserName,
			Role:         p.Role,
		},
		Message:     req.Message,
		MessageType: req.MessageType,
		Timestamp:   now,
	})
}

// handleHand broadcasts raiseHand/lowerHand to the entire room. No raised
// set is kept server-side; a late joiner does not see earlier raised hands.
func (s *Server) handleHand(connID, event string, data json.RawMessage) {
	var req HandPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.UserID == "" {
		return
	}
	s.broadcastRoom(req.RoomID, event, req)
}

// handleCreatePoll stores an instructor's poll in the room and broadcasts it
// with zeroed results.
func (s *Server) handleCreatePoll(connID string, data json.RawMessage) {
	var req CreatePollPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}
	if !s.isInstructor(connID) {
		return
	}
	if req.Poll.Question == "" || len(req.Poll.Options) == 0 {
		return
	}
	poll := &Poll{
		ID:       req.Poll.ID,
		Question: req.Poll.Question,
		Options:  req.Poll.Options,
		Results:  make(map[string]int, len(req.Poll.Options)),
		Status:   PollStatusActive,
	}
	if poll.ID == "" {
		poll.ID = uuid.New().String()
	}
	for _, opt := range req.Poll.Options {
		poll.Results[opt] = 0
	}
	s.store.AddPoll(req.RoomID, poll)
	s.broadcastRoom(req.RoomID, EventPollCreated, PollCreatedEvent{RoomID: req.RoomID, Poll: poll})
}

// handleSubmitPollAnswer counts a vote and broadcasts the running tally.
// Votes are not deduplicated per user, and a vote on an ended poll is still
// counted and re-broadcast.
func (s *Server) handleSubmitPollAnswer(connID string, data json.RawMessage) {
	var req SubmitPollAnswerPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.PollID == "" || req.Answer == "" {
		return
	}
	results, ok := s.store.Vote(req.RoomID, req.PollID, req.Answer)
	if !ok {
		return
	}
	s.broadcastRoom(req.RoomID, EventPollResults,
		PollResultsEvent{RoomID: req.RoomID, PollID: req.PollID, Results: results})
}

// handleEndPoll flips a poll to ended and broadcasts the final results.
func (s *Server) handleEndPoll(connID string, data json.RawMessage) {
	var req EndPollPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.PollID == "" {
		return
	}
	if !s.isInstructor(connID) {
		return
	}
	results, ok := s.store.EndPoll(req.RoomID, req.PollID)
	if !ok {
		return
	}
	s.broadcastRoom(req.RoomID, EventPollEnded,
		PollEndedEvent{RoomID: req.RoomID, PollID: req.PollID, Results: results})
}

// handleAskQuestion appends a question to the room's list and broadcasts it.
// The asking identity comes from the sender's participant record.
func (s *Server) handleAskQuestion(connID string, data json.RawMessage) {
	var req AskQuestionPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.Question.Text == "" {
		return
	}
	p, ok := s.store.GetParticipant(req.RoomID, connID)
	if !ok {
		return
	}
	q := &Question{
		ID:        req.Question.ID,
		UserID:    p.UserID,
		UserName:  p.UserName,
		Text:      req.Question.Text,
		Timestamp: time.Now(),
	}
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	s.store.AddQuestion(req.RoomID, q)
	s.broadcastRoom(req.RoomID, EventQuestionAsked, QuestionAskedEvent{RoomID: req.RoomID, Question: q})
}

// handleMarkQuestionAnswered sets answered=true and broadcasts the id only;
// clients already hold the question.
func (s *Server) handleMarkQuestionAnswered(connID string, data json.RawMessage) {
	var req MarkQuestionAnsweredPayload
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" || req.QuestionID == "" {
		return
	}
	if !s.isInstructor(connID) {
		return
	}
	if !s.store.MarkQuestionAnswered(req.RoomID, req.QuestionID) {
		return
	}
	s.broadcastRoom(req.RoomID, EventQuestionAnswered,
		QuestionAnsweredEvent{RoomID: req.RoomID, QuestionID: req.QuestionID})
}
