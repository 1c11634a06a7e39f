package classroom

import (
	"testing"

	webrtc "github.com/pion/webrtc/v3"
)

func TestOfferRelayedToTargetWithSenderAttached(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 1)

	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0\r\no=- 1 1 IN IP4 0.0.0.0\r\n"}
	s.HandleEvent("conn-s1", EventOffer, mustJSON(t, OfferPayload{
		Target: "conn-host",
		RoomID: "room",
		Offer:  offer,
	}))

	var got OfferEvent
	decodeInto(t, host.last(t, EventOffer), &got)
	if got.From != "conn-s1" || got.RoomID != "room" {
		t.Fatalf("relay metadata wrong: %+v", got)
	}
	if got.Offer.SDP != offer.SDP || got.Offer.Type != offer.Type {
		t.Fatalf("SDP must pass through unchanged: %+v", got.Offer)
	}
	if students[0].count(EventOffer) != 0 {
		t.Fatal("offer must reach the target only")
	}
}

func TestAnswerAndICERelay(t *testing.T) {
	s := newTestServer()
	_, students := joinClass(t, s, "room", 1)

	answer := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0\r\n"}
	s.HandleEvent("conn-host", EventAnswer, mustJSON(t, AnswerPayload{
		Target: "conn-s1", RoomID: "room", Answer: answer,
	}))
	var gotAnswer AnswerEvent
	decodeInto(t, students[0].last(t, EventAnswer), &gotAnswer)
	if gotAnswer.From != "conn-host" || gotAnswer.Answer.SDP != answer.SDP {
		t.Fatalf("answer relay wrong: %+v", gotAnswer)
	}

	mid := "0"
	candidate := webrtc.ICECandidateInit{Candidate: "candidate:1 1 udp 2122260223 10.0.0.1 50000 typ host", SDPMid: &mid}
	s.HandleEvent("conn-host", EventICECandidate, mustJSON(t, ICECandidatePayload{
		Target: "conn-s1", RoomID: "room", Candidate: candidate,
	}))
	var gotICE ICECandidateEvent
	decodeInto(t, students[0].last(t, EventICECandidate), &gotICE)
	if gotICE.From != "conn-host" || gotICE.Candidate.Candidate != candidate.Candidate {
		t.Fatalf("ice relay wrong: %+v", gotICE)
	}
}

func TestSignalToUnknownTargetIsSilentDrop(t *testing.T) {
	s := newTestServer()
	f := connect(s, "c1")
	join(t, s, "c1", "room", "u1", "Ada", RoleStudent)

	s.HandleEvent("c1", EventOffer, mustJSON(t, OfferPayload{Target: "nobody", RoomID: "room"}))

	if f.count(EventError) != 0 {
		t.Fatal("missing target must not produce an error event")
	}
}

func TestStreamStatusBroadcastToOthers(t *testing.T) {
	s := newTestServer()
	_, students := joinClass(t, s, "room", 2)

	s.HandleEvent("conn-s1", EventStreamStatus, mustJSON(t, StreamStatusPayload{
		RoomID: "room",
		Status: StreamStatus{Audio: true, Video: false},
	}))

	var evt StreamStatusEvent
	decodeInto(t, students[1].last(t, EventStreamStatus), &evt)
	if evt.ConnectionID != "conn-s1" || evt.UserID != "u-s1" {
		t.Fatalf("status sender wrong: %+v", evt)
	}
	if !evt.Status.Audio || evt.Status.Video {
		t.Fatalf("flags wrong: %+v", evt.Status)
	}
	if students[0].count(EventStreamStatus) != 0 {
		t.Fatal("sender must not receive its own status")
	}
}

func TestScreenShareNotifications(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 2)

	s.HandleEvent("conn-host", EventStartScreenShare, mustJSON(t, ScreenSharePayload{
		RoomID: "room", UserID: "u-host",
	}))
	for _, st := range students {
		var evt ScreenShareEvent
		decodeInto(t, st.last(t, EventStartScreenShare), &evt)
		if evt.UserID != "u-host" {
			t.Fatalf("unexpected screen share event: %+v", evt)
		}
	}
	if host.count(EventStartScreenShare) != 0 {
		t.Fatal("sharer must not receive its own notification")
	}

	// Targeted screenTrackAdded goes to the target only.
	s.HandleEvent("conn-host", EventScreenTrackAdded, mustJSON(t, ScreenSharePayload{
		RoomID: "room", UserID: "u-host", TargetID: "conn-s1",
	}))
	students[0].last(t, EventScreenTrackAdded)
	if students[1].count(EventScreenTrackAdded) != 0 {
		t.Fatal("targeted track notice leaked to the room")
	}
}

func TestSaturatedSendBufferDropsWithoutError(t *testing.T) {
	s := newTestServer()
	host, students := joinClass(t, s, "room", 1)
	students[0].full = true

	s.HandleEvent("conn-host", EventChatMessage,
		mustJSON(t, ChatMessagePayload{RoomID: "room", Message: "hi"}))

	if students[0].count(EventChatMessage) != 0 {
		t.Fatal("full buffer should drop the frame")
	}
	host.last(t, EventChatMessage)
}
