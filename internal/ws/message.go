package ws

import (
	"time"

	"github.com/HerbHall/postreview/internal/review"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageReviewStage     MessageType = "review.stage"
	MessageReviewCompleted MessageType = "review.completed"
	MessageReviewError     MessageType = "review.error"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	StreamID  string      `json:"stream_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// StageData is the payload for review.stage messages. It never carries
// generated text.
type StageData struct {
	Stage  review.Stage  `json:"stage"`
	Status review.Status `json:"status"`
}

// ErrorData is the payload for review.error messages.
type ErrorData struct {
	Stage  review.Stage `json:"stage,omitempty"`
	Status int          `json:"status"`
	Error  string       `json:"error"`
}
