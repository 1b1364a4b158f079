package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"study-assistant-be/internal/dto"
	"study-assistant-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	frames map[string][]interface{}
}

func (n *recordingNotifier) SendToSession(sessionID string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.frames == nil {
		n.frames = make(map[string][]interface{})
	}
	n.frames[sessionID] = append(n.frames[sessionID], payload)
}

func TestQuizResultService_RecordAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	notifier := &recordingNotifier{}
	svc := NewQuizResultService(f.uowFactory, nil, notifier, f.log)
	sessionID := uuid.NewString()

	first := events.New(events.QuizCompleted, map[string]interface{}{
		"session_id": sessionID,
		"score":      3,
		"total":      4,
		"difficulty": "Easy",
	})
	first.OccurredAt = time.Now().Add(-time.Hour)
	require.NoError(t, svc.Record(ctx, first))

	// payloads decoded from NATS carry numbers as float64
	second := events.New(events.QuizCompleted, map[string]interface{}{
		"session_id": sessionID,
		"score":      float64(5),
		"total":      float64(5),
		"difficulty": "Hard",
	})
	require.NoError(t, svc.Record(ctx, second))

	history, err := svc.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Hard", history[0].Difficulty)
	assert.InDelta(t, 100.0, history[0].Percent, 0.001)
	assert.Equal(t, 3, history[1].Score)
	assert.InDelta(t, 75.0, history[1].Percent, 0.001)

	require.Len(t, notifier.frames[sessionID], 2)
	frame, ok := notifier.frames[sessionID][0].(dto.StreamFrame)
	require.True(t, ok)
	assert.Equal(t, dto.FrameQuizCompleted, frame.Type)
}

func TestQuizResultService_DropsUnusableEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewQuizResultService(f.uowFactory, nil, nil, f.log)

	tests := []struct {
		name string
		data map[string]interface{}
	}{
		{name: "no session id", data: map[string]interface{}{"score": 1, "total": 2}},
		{name: "bad session id", data: map[string]interface{}{"session_id": "abc", "total": 2}},
		{name: "empty quiz", data: map[string]interface{}{"session_id": uuid.NewString(), "total": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, svc.Record(ctx, events.New(events.QuizCompleted, tt.data)))
		})
	}

	count, err := f.uowFactory.NewUnitOfWork(ctx).QuizResultRepository().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestQuizResultService_StartWithoutBroker(t *testing.T) {
	f := newFixture(t)
	svc := NewQuizResultService(f.uowFactory, nil, nil, f.log)
	assert.Error(t, svc.Start(context.Background()))

	_, err := svc.History(context.Background(), "not-a-uuid")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestLocalEventDispatcher_RoutesQuizCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	results := NewQuizResultService(f.uowFactory, nil, nil, f.log)
	dispatcher := NewLocalEventDispatcher()
	dispatcher.Handle(events.QuizCompleted, results.Record)

	svc := NewQuizService(f.access, f.client, dispatcher, f.log)
	id := f.withNotes(t, "notes")
	f.provider.respond(twoQuestionReply, nil)

	_, err := svc.Generate(ctx, id, &dto.GenerateQuizRequest{})
	require.NoError(t, err)
	for _, choice := range []string{"Mitochondrion", "Deoxyribonucleic acid"} {
		_, err = svc.Answer(ctx, id, &dto.AnswerQuizRequest{Choice: choice})
		require.NoError(t, err)
		_, err = svc.Next(ctx, id)
		require.NoError(t, err)
	}

	history, err := results.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].Score)
	assert.Equal(t, "Medium", history[0].Difficulty)
}
