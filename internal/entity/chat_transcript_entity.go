package entity

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatTranscript struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Kind      string
	Messages  []TranscriptMessage
	CreatedAt time.Time
}
