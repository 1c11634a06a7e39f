package classroom

import (
	"encoding/json"
	"fmt"
	"testing"
)

// fakeSender records every envelope delivered to one connection. All sends
// happen under the server mutex, so no locking is needed here.
type fakeSender struct {
	id     string
	sent   []Envelope
	closed bool
	full   bool // simulate a saturated send buffer
}

func (f *fakeSender) Send(msg Envelope) bool {
	if f.full {
		return false
	}
	f.sent = append(f.sent, msg)
	return true
}

func (f *fakeSender) Close() error {
	f.closed = true
	return nil
}

// events returns the names of everything sent, in order.
func (f *fakeSender) events() []string {
	out := make([]string, len(f.sent))
	for i, e := range f.sent {
		out[i] = e.Event
	}
	return out
}

// last returns the most recent envelope with the given event name.
func (f *fakeSender) last(t *testing.T, event string) Envelope {
	t.Helper()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Event == event {
			return f.sent[i]
		}
	}
	t.Fatalf("connection %s never received %q, got %v", f.id, event, f.events())
	return Envelope{}
}

func (f *fakeSender) count(event string) int {
	n := 0
	for _, e := range f.sent {
		if e.Event == event {
			n++
		}
	}
	return n
}

func decodeInto(t *testing.T, env Envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode %s: %v", env.Event, err)
	}
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func newTestServer() *Server {
	return NewServer(nil)
}

// connect registers a recording fake sender under the given id.
func connect(s *Server, id string) *fakeSender {
	f := &fakeSender{id: id}
	s.Connect(id, f)
	return f
}

// join sends a joinRoom event for the connection.
func join(t *testing.T, s *Server, connID, roomID, userID, userName, role string) {
	t.Helper()
	s.HandleEvent(connID, EventJoinRoom, mustJSON(t, JoinRoomPayload{
		RoomID:   roomID,
		UserID:   userID,
		UserName: userName,
		Role:     role,
	}))
}

// joinClass connects an instructor plus n students into one room.
func joinClass(t *testing.T, s *Server, roomID string, students int) (*fakeSender, []*fakeSender) {
	t.Helper()
	host := connect(s, "conn-host")
	join(t, s, "conn-host", roomID, "u-host", "Teacher", RoleInstructor)
	out := make([]*fakeSender, 0, students)
	for i := 1; i <= students; i++ {
		id := fmt.Sprintf("conn-s%d", i)
		f := connect(s, id)
		join(t, s, id, roomID, fmt.Sprintf("u-s%d", i), fmt.Sprintf("Student %d", i), RoleStudent)
		out = append(out, f)
	}
	return host, out
}
