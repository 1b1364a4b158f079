package events

import (
	"context"
	"time"
)

// Event types published by the study service.
const (
	NotesUploaded = "NOTES_UPLOADED"
	QuizGenerated = "QUIZ_GENERATED"
	QuizCompleted = "QUIZ_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "QUIZ_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is implemented by every event bus the services can publish to.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// BaseEvent is the concrete event used across the service.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String reads a string field from the payload.
func (e BaseEvent) String(key string) string {
	v, _ := e.Data[key].(string)
	return v
}

// Int reads a numeric field from the payload. JSON numbers decode as float64.
func (e BaseEvent) Int(key string) int {
	switch v := e.Data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
