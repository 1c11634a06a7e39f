package classroom

import (
	"testing"
)

func TestChatMessageBroadcastIncludesSender(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 1)

	s.HandleEvent("conn-s1", EventChatMessage,
		mustJSON(t, ChatMessagePayload{RoomID: "room", Message: "hello"}))

	for _, f := range []*fakeSender{host, students[0]} {
		var msg ChatMessageEvent
		decodeInto(t, f.last(t, EventChatMessage), &msg)
		if msg.Message != "hello" {
			t.Fatalf("message body wrong: %+v", msg)
		}
		if msg.Sender.UserID != "u-s1" || msg.Sender.UserName != "Student 1" || msg.Sender.Role != RoleStudent {
			t.Fatalf("sender identity must come from the participant record: %+v", msg.Sender)
		}
		if msg.ID == 0 {
			t.Fatal("missing server-assigned id")
		}
	}
}

func TestChatFromNonMemberDropped(t *testing.T) {
	s := newTestServer()
	host, _ := joinClass(t, s, "room", 1)
	connect(s, "lurker")

	s.HandleEvent("lurker", EventChatMessage,
		mustJSON(t, ChatMessagePayload{RoomID: "room", Message: "psst"}))

	if host.count(EventChatMessage) != 0 {
		t.Fatal("non-member chat must be dropped")
	}
}

func TestRaiseHandBroadcastToWholeRoom(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 2)

	payload := HandPayload{RoomID: "room", UserID: "u-s1", UserName: "Student 1"}
	s.HandleEvent("conn-s1", EventRaiseHand, mustJSON(t, payload))

	for _, f := range []*fakeSender{host, students[0], students[1]} {
		var got HandPayload
		decodeInto(t, f.last(t, EventRaiseHand), &got)
		if got.UserID != "u-s1" {
			t.Fatalf("unexpected hand payload: %+v", got)
		}
	}

	s.HandleEvent("conn-s1", EventLowerHand, mustJSON(t, payload))
	host.last(t, EventLowerHand)
}

func TestCreatePollRequiresInstructor(t *testing.T) {
	s := newTestServer()
	host, _ := joinClass(t, s, "room", 1)

	s.HandleEvent("conn-s1", EventCreatePoll, mustJSON(t, CreatePollPayload{
		RoomID: "room",
		Poll:   PollInput{Question: "ok?", Options: []string{"yes", "no"}},
	}))
	if host.count(EventPollCreated) != 0 {
		t.Fatal("student poll creation must be ignored")
	}

	s.HandleEvent("conn-host", EventCreatePoll, mustJSON(t, CreatePollPayload{
		RoomID: "room",
		Poll:   PollInput{Question: "ok?", Options: []string{"yes", "no"}},
	}))
	var created PollCreatedEvent
	decodeInto(t, host.last(t, EventPollCreated), &created)
	if created.Poll.ID == "" {
		t.Fatal("server must assign a poll id when the client sends none")
	}
	if created.Poll.Status != PollStatusActive {
		t.Fatalf("new poll should be active, got %q", created.Poll.Status)
	}
	if created.Poll.Results["yes"] != 0 || created.Poll.Results["no"] != 0 {
		t.Fatalf("new poll should broadcast zeroed results: %v", created.Poll.Results)
	}
}

func TestPollVoteFlow(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 2)

	s.HandleEvent("conn-host", EventCreatePoll, mustJSON(t, CreatePollPayload{
		RoomID: "room",
		Poll:   PollInput{ID: "p1", Question: "ok?", Options: []string{"yes", "no"}},
	}))

	vote := func(conn, answer string) {
		s.HandleEvent(conn, EventSubmitPollAnswer, mustJSON(t, SubmitPollAnswerPayload{
			RoomID: "room", PollID: "p1", UserID: "whoever", Answer: answer,
		}))
	}
	vote("conn-s1", "yes")
	vote("conn-s2", "no")
	vote("conn-s1", "yes") // double vote counts again

	var results PollResultsEvent
	decodeInto(t, host.last(t, EventPollResults), &results)
	if results.Results["yes"] != 2 || results.Results["no"] != 1 {
		t.Fatalf("running tally wrong: %v", results.Results)
	}
	if students[0].count(EventPollResults) != 3 {
		t.Fatalf("every vote should broadcast results, got %d", students[0].count(EventPollResults))
	}

	// Only the instructor can end the poll.
	s.HandleEvent("conn-s1", EventEndPoll, mustJSON(t, EndPollPayload{RoomID: "room", PollID: "p1"}))
	if host.count(EventPollEnded) != 0 {
		t.Fatal("student endPoll must be ignored")
	}
	s.HandleEvent("conn-host", EventEndPoll, mustJSON(t, EndPollPayload{RoomID: "room", PollID: "p1"}))
	var ended PollEndedEvent
	decodeInto(t, students[1].last(t, EventPollEnded), &ended)
	if ended.Results["yes"] != 2 {
		t.Fatalf("final results wrong: %v", ended.Results)
	}

	// Votes after the end are still counted and re-broadcast.
	vote("conn-s2", "no")
	decodeInto(t, host.last(t, EventPollResults), &results)
	if results.Results["no"] != 2 {
		t.Fatalf("post-end vote not counted: %v", results.Results)
	}
}

func TestVoteOnUnknownPollIgnored(t *testing.T) {
	s := newTestServer()
	host, _ := joinClass(t, s, "room", 1)

	s.HandleEvent("conn-s1", EventSubmitPollAnswer, mustJSON(t, SubmitPollAnswerPayload{
		RoomID: "room", PollID: "missing", Answer: "yes",
	}))
	if host.count(EventPollResults) != 0 {
		t.Fatal("unknown poll vote must be dropped")
	}
}

func TestAskQuestionUsesParticipantIdentity(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 1)

	s.HandleEvent("conn-s1", EventAskQuestion, mustJSON(t, AskQuestionPayload{
		RoomID:   "room",
		Question: QuestionInput{Text: "why is the sky blue"},
	}))

	var asked QuestionAskedEvent
	decodeInto(t, host.last(t, EventQuestionAsked), &asked)
	if asked.Question.UserID != "u-s1" || asked.Question.UserName != "Student 1" {
		t.Fatalf("identity must come from the participant record: %+v", asked.Question)
	}
	if asked.Question.ID == "" || asked.Question.Answered {
		t.Fatalf("bad question state: %+v", asked.Question)
	}
	students[0].last(t, EventQuestionAsked)

	// Marking answered is instructor-only and broadcasts the id.
	s.HandleEvent("conn-s1", EventMarkQuestionAnswered, mustJSON(t, MarkQuestionAnsweredPayload{
		RoomID: "room", QuestionID: asked.Question.ID,
	}))
	if host.count(EventQuestionAnswered) != 0 {
		t.Fatal("student markQuestionAnswered must be ignored")
	}
	s.HandleEvent("conn-host", EventMarkQuestionAnswered, mustJSON(t, MarkQuestionAnsweredPayload{
		RoomID: "room", QuestionID: asked.Question.ID,
	}))
	var answered QuestionAnsweredEvent
	decodeInto(t, students[0].last(t, EventQuestionAnswered), &answered)
	if answered.QuestionID != asked.Question.ID {
		t.Fatalf("answered id wrong: %+v", answered)
	}
}

func TestMarkUnknownQuestionIgnored(t *testing.T) {
	s := newTestServer()
	host, _ := joinClass(t, s, "room", 1)

	s.HandleEvent("conn-host", EventMarkQuestionAnswered, mustJSON(t, MarkQuestionAnsweredPayload{
		RoomID: "room", QuestionID: "missing",
	}))
	if host.count(EventQuestionAnswered) != 0 {
		t.Fatal("unknown question id must be dropped")
	}
}
