package dto

// Stream frame types sent over the websocket.
const (
	FrameFragment      = "fragment"
	FrameDone          = "done"
	FrameError         = "error"
	FrameQuizCompleted = "quiz_completed"
)

// StreamRequest is what a websocket client sends to start a chat turn.
type StreamRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=general notes"`
	Message string `json:"message" validate:"required"`
}

type StreamFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
