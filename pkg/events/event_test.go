package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseEvent_Accessors(t *testing.T) {
	evt := New(QuizCompleted, map[string]interface{}{
		"session_id": "s-1",
		"score":      3,
	})

	assert.Equal(t, QuizCompleted, evt.EventType())
	assert.Equal(t, "s-1", evt.String("session_id"))
	assert.Equal(t, 3, evt.Int("score"))
	assert.Equal(t, 0, evt.Int("missing"))
	assert.False(t, evt.Timestamp().IsZero())
}

func TestBaseEvent_DecodedNumbers(t *testing.T) {
	raw, err := json.Marshal(New(QuizCompleted, map[string]interface{}{"total": 5}))
	require.NoError(t, err)

	var decoded BaseEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 5, decoded.Int("total"))
	assert.Equal(t, QuizCompleted, decoded.Type)
}
