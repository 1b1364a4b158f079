package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"study-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent_Envelope(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(events.BaseEvent{
		Type:       events.QuizCompleted,
		Data:       map[string]interface{}{"session_id": "s-1", "score": 4},
		OccurredAt: at,
	})
	require.NoError(t, err)

	evt, err := decodeEvent("events.QUIZ_COMPLETED", raw)
	require.NoError(t, err)
	assert.Equal(t, events.QuizCompleted, evt.Type)
	assert.Equal(t, "s-1", evt.String("session_id"))
	assert.Equal(t, 4, evt.Int("score"))
	assert.True(t, at.Equal(evt.OccurredAt))
}

func TestDecodeEvent_FallsBackToSubject(t *testing.T) {
	evt, err := decodeEvent("events.NOTES_UPLOADED", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, events.NotesUploaded, evt.Type)
	assert.NotNil(t, evt.Data)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := decodeEvent("events.X", []byte(`not json`))
	assert.Error(t, err)
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.Publish(context.Background(), events.New(events.QuizGenerated, nil)))
	p.Close()
}

func TestConnect_UnreachableClosesBoth(t *testing.T) {
	pub, sub, err := Connect("nats://127.0.0.1:1")
	require.Error(t, err)
	assert.Nil(t, pub)
	assert.Nil(t, sub)
}

func TestConnected_NilSafe(t *testing.T) {
	var p *Publisher
	var s *Subscriber
	assert.False(t, p.Connected())
	assert.False(t, s.Connected())
	s.Close()
}
