package models

import "encoding/json"

// Inbound command names (client -> server over the websocket).
const (
	CmdJoinRoom       = "joinRoom"
	CmdLeaveRoom      = "leaveRoom"
	CmdAskQuestion    = "askQuestion"
	CmdAnswerQuestion = "answerQuestion"
	CmdUpvoteAnswer   = "upvoteAnswer"
	CmdMarkResolved   = "markResolved"
	CmdPinQuestion    = "pinQuestion"
	CmdTyping         = "typing"
)

// Outbound event names (server -> room members).
const (
	EventArrival          = "arrival"
	EventDeparture        = "departure"
	EventQuestionPosted   = "question-posted"
	EventAnswerPosted     = "answer-posted"
	EventAnswerVoted      = "answer-voted"
	EventQuestionResolved = "question-resolved"
	EventQuestionPinned   = "question-pinned"
	EventTyping           = "typing-indicator"
	EventError            = "error"
)

// Command is the inbound wire envelope. Data stays raw until the hub knows
// which payload shape to decode it into.
type Command struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event is the outbound wire envelope.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// RoomUser is one entry of a room roster snapshot.
type RoomUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// JoinPayload / LeavePayload carry the target room of a joinRoom/leaveRoom command.
type JoinPayload struct {
	RoomID string `json:"roomId"`
}

type LeavePayload struct {
	RoomID string `json:"roomId"`
}

// ArrivalPayload is broadcast to the whole room (joiner included) after a join.
type ArrivalPayload struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	ActiveUsers []RoomUser `json:"activeUsers"`
	ActiveCount int        `json:"activeCount"`
}

// DeparturePayload is broadcast to the remaining members after a leave.
type DeparturePayload struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	ActiveUsers []RoomUser `json:"activeUsers"`
	ActiveCount int        `json:"activeCount"`
}

// QuestionPayload relays a freshly posted question. The REST layer has already
// persisted it; the socket layer only fans it out with the author attached.
type QuestionPayload struct {
	QuestionID string `json:"questionId"`
	RoomID     string `json:"roomId,omitempty"`
	Text       string `json:"text"`
	Priority   string `json:"priority,omitempty"`
	UserName   string `json:"userName"`
	UserRole   string `json:"userRole"`
}

// AnswerPayload relays a freshly posted answer.
type AnswerPayload struct {
	AnswerID   string `json:"answerId"`
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	UserName   string `json:"userName"`
	UserRole   string `json:"userRole"`
}

// VotePayload relays an upvote toggle result.
type VotePayload struct {
	AnswerID   string `json:"answerId"`
	QuestionID string `json:"questionId"`
	Votes      int    `json:"votes"`
	Delta      int    `json:"delta"`
}

// ResolvePayload relays a question being marked resolved.
type ResolvePayload struct {
	QuestionID string `json:"questionId"`
	ResolvedBy string `json:"resolvedBy"`
}

// PinPayload relays a pin toggle.
type PinPayload struct {
	QuestionID string `json:"questionId"`
	IsPinned   bool   `json:"isPinned"`
}

// TypingPayload relays a typing indicator. Never echoed back to the sender.
type TypingPayload struct {
	QuestionID string `json:"questionId"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	IsTyping   bool   `json:"isTyping"`
}

// ErrorPayload is sent to a single connection when its request failed.
type ErrorPayload struct {
	Message string `json:"message"`
}
