package classroom

import (
	"testing"
	"time"
)

func TestAddParticipantKeepsJoinOrder(t *testing.T) {
	store := NewRoomStore()
	for _, id := range []string{"a", "b", "c"} {
		store.AddParticipant("room", &Participant{ConnectionID: id, UserID: "u-" + id, JoinedAt: time.Now()})
	}

	got := store.Participants("room")
	if len(got) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ConnectionID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ConnectionID, want)
		}
	}
}

func TestAddParticipantUpsertKeepsOrderSlot(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a", UserName: "old"})
	store.AddParticipant("room", &Participant{ConnectionID: "b"})
	store.AddParticipant("room", &Participant{ConnectionID: "a", UserName: "new"})

	got := store.Participants("room")
	if len(got) != 2 {
		t.Fatalf("expected 2 participants after upsert, got %d", len(got))
	}
	if got[0].ConnectionID != "a" || got[0].UserName != "new" {
		t.Errorf("upsert lost order slot or data: %+v", got[0])
	}
}

func TestRemoveParticipant(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a", UserID: "u1"})
	store.AddParticipant("room", &Participant{ConnectionID: "b", UserID: "u2"})

	p, removed := store.RemoveParticipant("room", "a")
	if !removed || p.UserID != "u1" {
		t.Fatalf("expected removal of u1, got %+v removed=%v", p, removed)
	}
	if _, removed := store.RemoveParticipant("room", "a"); removed {
		t.Fatal("second removal of same connection should report false")
	}
	if got := store.Participants("room"); len(got) != 1 || got[0].ConnectionID != "b" {
		t.Fatalf("unexpected remaining participants: %+v", got)
	}
}

func TestPromoteFirstPicksOldestRemaining(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "host", IsHost: true})
	store.AddParticipant("room", &Participant{ConnectionID: "second", UserID: "u2"})
	store.AddParticipant("room", &Participant{ConnectionID: "third", UserID: "u3"})
	store.RemoveParticipant("room", "host")

	promoted, ok := store.PromoteFirst("room")
	if !ok || promoted.ConnectionID != "second" || !promoted.IsHost {
		t.Fatalf("expected second to become host, got %+v ok=%v", promoted, ok)
	}
	if p, _ := store.GetParticipant("room", "second"); !p.IsHost {
		t.Fatal("promotion not persisted in store")
	}
}

func TestHasHostExcludesGivenConnection(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "host", IsHost: true})

	if !store.HasHost("room", "other") {
		t.Fatal("expected host to be visible")
	}
	if store.HasHost("room", "host") {
		t.Fatal("host's own connection must be excluded")
	}
}

func TestRemoveIfEmptyDropsRoomState(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})
	store.AddPoll("room", &Poll{ID: "p1", Results: map[string]int{}})
	store.SetWhiteboardGrantee("room", "u1")

	store.RemoveParticipant("room", "a")
	store.RemoveIfEmpty("room")

	if store.Len() != 0 {
		t.Fatal("empty room should be deleted")
	}
	// A later join starts from fresh state.
	store.AddParticipant("room", &Participant{ConnectionID: "b"})
	if _, ok := store.GetPoll("room", "p1"); ok {
		t.Fatal("poll survived room deletion")
	}
	if g := store.WhiteboardGrantee("room"); g != "" {
		t.Fatalf("whiteboard grant survived room deletion: %q", g)
	}
}

func TestRemoveIfEmptyKeepsOccupiedRoom(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})
	store.RemoveIfEmpty("room")
	if store.Len() != 1 {
		t.Fatal("occupied room must not be deleted")
	}
}

func TestVoteCountsRepeatsAndEndedPolls(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})
	store.AddPoll("room", &Poll{
		ID:      "p1",
		Options: []string{"yes", "no"},
		Results: map[string]int{"yes": 0, "no": 0},
		Status:  PollStatusActive,
	})

	store.Vote("room", "p1", "yes")
	results, ok := store.Vote("room", "p1", "yes")
	if !ok || results["yes"] != 2 {
		t.Fatalf("repeat votes must both count, got %v", results)
	}

	store.EndPoll("room", "p1")
	results, ok = store.Vote("room", "p1", "no")
	if !ok || results["no"] != 1 {
		t.Fatalf("vote on ended poll must still count, got %v", results)
	}

	if _, ok := store.Vote("room", "missing", "yes"); ok {
		t.Fatal("vote on unknown poll must report false")
	}
}

func TestVoteResultsAreCopies(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})
	store.AddPoll("room", &Poll{ID: "p1", Results: map[string]int{"yes": 0}})

	results, _ := store.Vote("room", "p1", "yes")
	results["yes"] = 100

	fresh, _ := store.GetPoll("room", "p1")
	if fresh.Results["yes"] != 1 {
		t.Fatalf("caller mutated stored results: %v", fresh.Results)
	}
}

func TestEndPollIsOneWay(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})
	store.AddPoll("room", &Poll{ID: "p1", Results: map[string]int{}, Status: PollStatusActive})

	if _, ok := store.EndPoll("room", "p1"); !ok {
		t.Fatal("end poll failed")
	}
	p, _ := store.GetPoll("room", "p1")
	if p.Status != PollStatusEnded {
		t.Fatalf("expected ended status, got %q", p.Status)
	}
}

func TestWhiteboardGrantReplaceAndClear(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})

	store.SetWhiteboardGrantee("room", "u1")
	store.SetWhiteboardGrantee("room", "u2")
	if g := store.WhiteboardGrantee("room"); g != "u2" {
		t.Fatalf("grant must replace prior grantee, got %q", g)
	}

	// Clearing for a non-grantee is a no-op.
	store.ClearWhiteboardGrantee("room", "u1")
	if g := store.WhiteboardGrantee("room"); g != "u2" {
		t.Fatalf("clear for other user must not revoke, got %q", g)
	}

	store.ClearWhiteboardGrantee("room", "u2")
	if g := store.WhiteboardGrantee("room"); g != "" {
		t.Fatalf("expected locked whiteboard, got %q", g)
	}

	// Empty userID clears any grant.
	store.SetWhiteboardGrantee("room", "u3")
	store.ClearWhiteboardGrantee("room", "")
	if g := store.WhiteboardGrantee("room"); g != "" {
		t.Fatalf("expected unconditional clear, got %q", g)
	}
}

func TestMarkQuestionAnswered(t *testing.T) {
	store := NewRoomStore()
	store.AddQuestion("room", &Question{ID: "q1", Text: "why"})

	if !store.MarkQuestionAnswered("room", "q1") {
		t.Fatal("expected question to be marked")
	}
	if store.MarkQuestionAnswered("room", "missing") {
		t.Fatal("unknown question must report false")
	}
	qs := store.Questions("room")
	if len(qs) != 1 || !qs[0].Answered {
		t.Fatalf("answered flag not persisted: %+v", qs)
	}
}

func TestSummaryAggregates(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a"})
	store.AddParticipant("room", &Participant{ConnectionID: "b"})
	store.AddParticipant("room", &Participant{ConnectionID: "c"})
	store.RemoveParticipant("room", "c")
	store.CountChat("room")
	store.CountChat("room")
	store.AddPoll("room", &Poll{ID: "p1", Results: map[string]int{}})
	store.AddQuestion("room", &Question{ID: "q1"})

	summary, ok := store.Summary("room")
	if !ok {
		t.Fatal("summary missing")
	}
	if summary.PeakParticipants != 3 {
		t.Errorf("peak: got %d, want 3", summary.PeakParticipants)
	}
	if summary.ChatMessages != 2 {
		t.Errorf("chat: got %d, want 2", summary.ChatMessages)
	}
	if summary.Polls != 1 || summary.Questions != 1 {
		t.Errorf("polls/questions: got %d/%d, want 1/1", summary.Polls, summary.Questions)
	}
	if summary.ClosedAt.Before(summary.OpenedAt) {
		t.Error("closedAt before openedAt")
	}
}

func TestFindByUserIDReturnsOldestMatch(t *testing.T) {
	store := NewRoomStore()
	store.AddParticipant("room", &Participant{ConnectionID: "a", UserID: "u1"})
	store.AddParticipant("room", &Participant{ConnectionID: "b", UserID: "u1"})

	conn, ok := store.FindByUserID("room", "u1")
	if !ok || conn != "a" {
		t.Fatalf("expected oldest connection a, got %q ok=%v", conn, ok)
	}
	if _, ok := store.FindByUserID("room", "missing"); ok {
		t.Fatal("unknown user must report false")
	}
}
