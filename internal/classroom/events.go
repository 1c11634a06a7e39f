package classroom

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v3"
)

// Envelope is the WebSocket message frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	EventJoinRoom                 = "joinRoom"
	EventOffer                    = "offer"
	EventAnswer                   = "answer"
	EventICECandidate             = "iceCandidate"
	EventChatMessage              = "chatMessage"
	EventWhiteboardDraw           = "whiteboardDraw"
	EventWhiteboardClear          = "whiteboardClear"
	EventWhiteboardAccessRequest  = "whiteboardAccessRequest"
	EventWhiteboardAccessResponse = "whiteboardAccessResponse"
	EventWhiteboardAccessRevoked  = "whiteboardAccessRevoked"
	EventStreamStatus             = "streamStatus"
	EventClassroomControl         = "classroomControl"
	EventRaiseHand                = "raiseHand"
	EventLowerHand                = "lowerHand"
	EventCreatePoll               = "createPoll"
	EventSubmitPollAnswer         = "submitPollAnswer"
	EventEndPoll                  = "endPoll"
	EventStartScreenShare         = "startScreenShare"
	EventStopScreenShare          = "stopScreenShare"
	EventScreenTrackAdded         = "screenTrackAdded"
	EventAskQuestion              = "askQuestion"
	EventMarkQuestionAnswered     = "markQuestionAnswered"
)

// Outbound event names (inbound relays reuse their inbound name).
const (
	EventRoomParticipants  = "roomParticipants"
	EventParticipantJoined = "participantJoined"
	EventParticipantLeft   = "participantLeft"
	EventHostChanged       = "hostChanged"
	EventKicked            = "kicked"
	EventForceAudioState   = "forceAudioState"
	EventError             = "error"
	EventPollCreated       = "pollCreated"
	EventPollResults       = "pollResults"
	EventPollEnded         = "pollEnded"
	EventQuestionAsked     = "questionAsked"
	EventQuestionAnswered  = "questionAnswered"
)

// Classroom control actions.
const (
	ControlMuteAll           = "muteAll"
	ControlMuteParticipant   = "muteParticipant"
	ControlRemoveParticipant = "removeParticipant"
)

// JoinRoomPayload is the data for joinRoom.
type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// OfferPayload is the data for offer (point-to-point relay).
type OfferPayload struct {
	Target string                    `json:"target"`
	RoomID string                    `json:"roomId"`
	Offer  webrtc.SessionDescription `json:"offer"`
}

// AnswerPayload is the data for answer.
type AnswerPayload struct {
	Target string                    `json:"target"`
	RoomID string                    `json:"roomId"`
	Answer webrtc.SessionDescription `json:"answer"`
}

// ICECandidatePayload is the data for iceCandidate.
type ICECandidatePayload struct {
	Target    string                  `json:"target"`
	RoomID    string                  `json:"roomId"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

// OfferEvent is the relayed offer delivered to the target connection.
type OfferEvent struct {
	From   string                    `json:"from"`
	RoomID string                    `json:"roomId"`
	Offer  webrtc.SessionDescription `json:"offer"`
}

// AnswerEvent is the relayed answer delivered to the target connection.
type AnswerEvent struct {
	From   string                    `json:"from"`
	RoomID string                    `json:"roomId"`
	Answer webrtc.SessionDescription `json:"answer"`
}

// ICECandidateEvent is the relayed ICE candidate delivered to the target connection.
type ICECandidateEvent struct {
	From      string                  `json:"from"`
	RoomID    string                  `json:"roomId"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

// StreamStatus carries audio/video enabled flags.
type StreamStatus struct {
	Audio bool `json:"audio"`
	Video bool `json:"video"`
}

// StreamStatusPayload is the data for streamStatus.
type StreamStatusPayload struct {
	RoomID string       `json:"roomId"`
	Status StreamStatus `json:"status"`
}

// StreamStatusEvent is the broadcast form of streamStatus.
type StreamStatusEvent struct {
	ConnectionID string       `json:"connectionId"`
	UserID       string       `json:"userId"`
	RoomID       string       `json:"roomId"`
	Status       StreamStatus `json:"status"`
}

// ScreenSharePayload is the data for startScreenShare, stopScreenShare and screenTrackAdded.
type ScreenSharePayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	TargetID string `json:"targetId,omitempty"`
}

// ScreenShareEvent is the broadcast form of the screen-share notifications.
type ScreenShareEvent struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// ChatMessagePayload is the data for chatMessage.
type ChatMessagePayload struct {
	RoomID      string `json:"roomId"`
	Message     string `json:"message"`
	MessageType string `json:"messageType,omitempty"`
}

// ChatSender identifies the sender of a chat message.
type ChatSender struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	Role         string `json:"role"`
}

// ChatMessageEvent is broadcast to the whole room including the sender.
type ChatMessageEvent struct {
	ID          int64      `json:"id"` // server timestamp in milliseconds
	RoomID      string     `json:"roomId"`
	Sender      ChatSender `json:"sender"`
	Message     string     `json:"message"`
	MessageType string     `json:"messageType,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// HandPayload is the data for raiseHand and lowerHand.
type HandPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
}

// DrawPayload is the data for whiteboardDraw, rebroadcast as received.
type DrawPayload struct {
	RoomID       string          `json:"roomId"`
	UserID       string          `json:"userId"`
	Type         string          `json:"type"`
	X            float64         `json:"x"`
	Y            float64         `json:"y"`
	PrevPosition json.RawMessage `json:"prevPosition,omitempty"`
	Color        string          `json:"color,omitempty"`
	Size         float64         `json:"size,omitempty"`
	Shape        string          `json:"shape,omitempty"`
	Text         string          `json:"text,omitempty"`
}

// WhiteboardClearPayload is the data for whiteboardClear.
type WhiteboardClearPayload struct {
	RoomID string `json:"roomId"`
}

// WhiteboardAccessRequestPayload is the data for whiteboardAccessRequest.
type WhiteboardAccessRequestPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// WhiteboardAccessResponsePayload is the data for whiteboardAccessResponse.
type WhiteboardAccessResponsePayload struct {
	RoomID  string `json:"roomId"`
	UserID  string `json:"userId"`
	Granted bool   `json:"granted"`
}

// WhiteboardAccessRevokedPayload is the data for whiteboardAccessRevoked.
type WhiteboardAccessRevokedPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// ControlPayload is the data for classroomControl.
type ControlPayload struct {
	RoomID   string `json:"roomId"`
	Action   string `json:"action"`
	TargetID string `json:"targetId,omitempty"`
}

// ForceAudioStateEvent tells a client its audio was muted by the host.
type ForceAudioStateEvent struct {
	RoomID string `json:"roomId"`
	Muted  bool   `json:"muted"`
}

// KickedEvent tells a client it was removed from the room.
type KickedEvent struct {
	RoomID string `json:"roomId"`
}

// CreatePollPayload is the data for createPoll.
type CreatePollPayload struct {
	RoomID string    `json:"roomId"`
	Poll   PollInput `json:"poll"`
}

// PollInput is the client-supplied part of a poll.
type PollInput struct {
	ID       string   `json:"id,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SubmitPollAnswerPayload is the data for submitPollAnswer.
type SubmitPollAnswerPayload struct {
	RoomID string `json:"roomId"`
	PollID string `json:"pollId"`
	UserID string `json:"userId"`
	Answer string `json:"answer"`
}

// EndPollPayload is the data for endPoll.
type EndPollPayload struct {
	RoomID string `json:"roomId"`
	PollID string `json:"pollId"`
}

// PollCreatedEvent is broadcast when an instructor creates a poll.
type PollCreatedEvent struct {
	RoomID string `json:"roomId"`
	Poll   *Poll  `json:"poll"`
}

// PollResultsEvent is broadcast after every vote.
type PollResultsEvent struct {
	RoomID  string         `json:"roomId"`
	PollID  string         `json:"pollId"`
	Results map[string]int `json:"results"`
}

// PollEndedEvent is broadcast when an instructor ends a poll.
type PollEndedEvent struct {
	RoomID  string         `json:"roomId"`
	PollID  string         `json:"pollId"`
	Results map[string]int `json:"results"`
}

// AskQuestionPayload is the data for askQuestion.
type AskQuestionPayload struct {
	RoomID   string        `json:"roomId"`
	Question QuestionInput `json:"question"`
}

// QuestionInput is the client-supplied part of a question.
type QuestionInput struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// MarkQuestionAnsweredPayload is the data for markQuestionAnswered.
type MarkQuestionAnsweredPayload struct {
	RoomID     string `json:"roomId"`
	QuestionID string `json:"questionId"`
}

// QuestionAskedEvent is broadcast when a participant asks a question.
type QuestionAskedEvent struct {
	RoomID   string    `json:"roomId"`
	Question *Question `json:"question"`
}

// QuestionAnsweredEvent is broadcast when an instructor marks a question answered.
type QuestionAnsweredEvent struct {
	RoomID     string `json:"roomId"`
	QuestionID string `json:"questionId"`
}

// RoomParticipantsEvent is the full membership snapshot sent after a join.
type RoomParticipantsEvent struct {
	RoomID       string        `json:"roomId"`
	Participants []Participant `json:"participants"`
}

// ParticipantJoinedEvent announces a new participant to the rest of the room.
type ParticipantJoinedEvent struct {
	RoomID      string      `json:"roomId"`
	Participant Participant `json:"participant"`
}

// ParticipantLeftEvent announces a departure to the remaining members.
type ParticipantLeftEvent struct {
	RoomID       string `json:"roomId"`
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
}

// HostChangedEvent announces host promotion after the previous host left.
type HostChangedEvent struct {
	RoomID       string `json:"roomId"`
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
}

// ErrorEvent is sent back to a connection when its joinRoom failed.
type ErrorEvent struct {
	Message string `json:"message"`
}
