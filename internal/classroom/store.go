package classroom

import (
	"sync"
	"time"
)

// Poll statuses.
const (
	PollStatusActive = "active"
	PollStatusEnded  = "ended"
)

// Participant is a connection's membership record within one room.
type Participant struct {
	ConnectionID string    `json:"connectionId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	Role         string    `json:"role"`
	IsHost       bool      `json:"isHost"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// Poll is an in-room poll. Results map option text to vote count.
// Votes are not deduplicated per user.
type Poll struct {
	ID       string         `json:"id"`
	Question string         `json:"question"`
	Options  []string       `json:"options"`
	Results  map[string]int `json:"results"`
	Status   string         `json:"status"`
}

// Question is an in-room audience question.
type Question struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Answered  bool      `json:"answered"`
}

// Room holds the ephemeral state of one live classroom. Participants keep
// insertion order so host promotion is deterministic (oldest remaining
// participant is promoted).
type Room struct {
	ID           string
	participants map[string]*Participant
	order        []string // connection ids in join order
	polls        map[string]*Poll
	questions    []*Question

	// whiteboardGrantee is the userId of the single non-instructor allowed
	// to draw; empty means locked.
	whiteboardGrantee string

	openedAt      time.Time
	peak          int
	chatCount     int
	questionCount int
}

// RoomSummary is the aggregate handed to the room-closed hook when the last
// participant leaves.
type RoomSummary struct {
	RoomID           string
	OpenedAt         time.Time
	ClosedAt         time.Time
	PeakParticipants int
	ChatMessages     int
	Polls            int
	Questions        int
}

// RoomStore owns all live rooms. It has no ambient singleton; construct one
// per server (or per test).
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomStore creates an empty room store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room, creating it on first use.
func (s *RoomStore) GetOrCreate(roomID string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(roomID)
}

func (s *RoomStore) getOrCreateLocked(roomID string) *Room {
	if r, ok := s.rooms[roomID]; ok {
		return r
	}
	r := &Room{
		ID:           roomID,
		participants: make(map[string]*Participant),
		polls:        make(map[string]*Poll),
		openedAt:     time.Now(),
	}
	s.rooms[roomID] = r
	return r
}

// Get returns the room, or ok=false if it does not exist.
func (s *RoomStore) Get(roomID string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	return r, ok
}

// RemoveIfEmpty deletes the room when it has no participants. Rooms are
// never retained empty, so a later join starts from fresh state.
func (s *RoomStore) RemoveIfEmpty(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok && len(r.participants) == 0 {
		delete(s.rooms, roomID)
	}
}

// AddParticipant upserts a participant. A connection re-joining the same
// room replaces its prior entry and keeps its position in join order.
func (s *RoomStore) AddParticipant(roomID string, p *Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.getOrCreateLocked(roomID)
	if _, ok := r.participants[p.ConnectionID]; !ok {
		r.order = append(r.order, p.ConnectionID)
	}
	r.participants[p.ConnectionID] = p
	if n := len(r.participants); n > r.peak {
		r.peak = n
	}
}

// RemoveParticipant removes a connection from a room and returns the removed
// record, or removed=false if the connection was not a member.
func (s *RoomStore) RemoveParticipant(roomID, connID string) (*Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, false
	}
	p, ok := r.participants[connID]
	if !ok {
		return nil, false
	}
	delete(r.participants, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, true
}

// Participants returns a snapshot of the room's members in join order.
func (s *RoomStore) Participants(roomID string) []Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]Participant, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.participants[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// GetParticipant returns a copy of one member's record.
func (s *RoomStore) GetParticipant(roomID, connID string) (Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return Participant{}, false
	}
	p, ok := r.participants[connID]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// FindByUserID returns the connection id of the first member with the given
// userId, in join order.
func (s *RoomStore) FindByUserID(roomID, userID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return "", false
	}
	for _, id := range r.order {
		if p, ok := r.participants[id]; ok && p.UserID == userID {
			return id, true
		}
	}
	return "", false
}

// HasHost reports whether any member other than exceptConn holds isHost.
func (s *RoomStore) HasHost(roomID, exceptConn string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	for id, p := range r.participants {
		if id != exceptConn && p.IsHost {
			return true
		}
	}
	return false
}

// PromoteFirst marks the oldest remaining member as host and returns its
// record. Returns ok=false when the room is empty or gone.
func (s *RoomStore) PromoteFirst(roomID string) (Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok || len(r.order) == 0 {
		return Participant{}, false
	}
	p := r.participants[r.order[0]]
	p.IsHost = true
	return *p, true
}

// RoomsOf returns the ids of every room containing the connection. Under the
// membership state machine this is at most one room, but cleanup scans all.
func (s *RoomStore) RoomsOf(connID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for id, r := range s.rooms {
		if _, ok := r.participants[connID]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of live rooms.
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// AddPoll stores a poll in the room.
func (s *RoomStore) AddPoll(roomID string, p *Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.getOrCreateLocked(roomID)
	r.polls[p.ID] = p
}

// Vote increments one option's count and returns a copy of the running
// results. Repeat votes by the same user are counted again, and votes on an
// ended poll are still accepted.
func (s *RoomStore) Vote(roomID, pollID, answer string) (map[string]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, false
	}
	p, ok := r.polls[pollID]
	if !ok {
		return nil, false
	}
	p.Results[answer]++
	return copyResults(p.Results), true
}

// EndPoll flips a poll to ended (one-way) and returns its final results.
func (s *RoomStore) EndPoll(roomID, pollID string) (map[string]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, false
	}
	p, ok := r.polls[pollID]
	if !ok {
		return nil, false
	}
	p.Status = PollStatusEnded
	return copyResults(p.Results), true
}

// GetPoll returns a copy of a poll.
func (s *RoomStore) GetPoll(roomID, pollID string) (Poll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return Poll{}, false
	}
	p, ok := r.polls[pollID]
	if !ok {
		return Poll{}, false
	}
	out := *p
	out.Results = copyResults(p.Results)
	return out, true
}

// AddQuestion appends a question to the room's list.
func (s *RoomStore) AddQuestion(roomID string, q *Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.getOrCreateLocked(roomID)
	r.questions = append(r.questions, q)
	r.questionCount++
}

// MarkQuestionAnswered sets answered=true on the question with the given id.
func (s *RoomStore) MarkQuestionAnswered(roomID, questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	for _, q := range r.questions {
		if q.ID == questionID {
			q.Answered = true
			return true
		}
	}
	return false
}

// Questions returns a snapshot of the room's questions.
func (s *RoomStore) Questions(roomID string) []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, *q)
	}
	return out
}

// SetWhiteboardGrantee grants whiteboard write access to a userId, replacing
// any prior grantee (single writer).
func (s *RoomStore) SetWhiteboardGrantee(roomID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		r.whiteboardGrantee = userID
	}
}

// WhiteboardGrantee returns the current grantee userId, empty when locked.
func (s *RoomStore) WhiteboardGrantee(roomID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rooms[roomID]; ok {
		return r.whiteboardGrantee
	}
	return ""
}

// ClearWhiteboardGrantee revokes the grant if held by userID (or any grant
// when userID is empty).
func (s *RoomStore) ClearWhiteboardGrantee(roomID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		if userID == "" || r.whiteboardGrantee == userID {
			r.whiteboardGrantee = ""
		}
	}
}

// CountChat bumps the room's chat counter for the closing summary.
func (s *RoomStore) CountChat(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		r.chatCount++
	}
}

// Summary builds the closing aggregate for a room.
func (s *RoomStore) Summary(roomID string) (RoomSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return RoomSummary{}, false
	}
	return RoomSummary{
		RoomID:           roomID,
		OpenedAt:         r.openedAt,
		ClosedAt:         time.Now(),
		PeakParticipants: r.peak,
		ChatMessages:     r.chatCount,
		Polls:            len(r.polls),
		Questions:        r.questionCount,
	}, true
}

func copyResults(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
