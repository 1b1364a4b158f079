package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"study-assistant-be/internal/repository/memory"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyingRepository hands out decoded copies like the redis store does,
// so a save overwrites whatever was written since the load.
type copyingRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newCopyingRepository() *copyingRepository {
	return &copyingRepository{data: make(map[string][]byte)}
}

func (r *copyingRepository) Save(_ context.Context, session *store.StudySession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[session.ID] = raw
	return nil
}

func (r *copyingRepository) Get(_ context.Context, id string) (*store.StudySession, bool, error) {
	r.mu.Lock()
	raw, ok := r.data[id]
	r.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	var session store.StudySession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, false, err
	}
	return &session, true, nil
}

func (r *copyingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

func (r *copyingRepository) TTL() time.Duration {
	return time.Hour
}

func TestSessionAccess_SharedLockerAcrossInstances(t *testing.T) {
	ctx := context.Background()
	repo := newCopyingRepository()
	locker := memory.NewSessionLocker()
	instances := []*SessionAccess{
		NewSessionAccess(repo, locker),
		NewSessionAccess(repo, locker),
	}

	id := uuid.NewString()
	require.NoError(t, repo.Save(ctx, store.NewStudySession(id)))

	const updates = 100
	var wg sync.WaitGroup
	errs := make(chan error, updates)
	for i := 0; i < updates; i++ {
		wg.Add(1)
		go func(access *SessionAccess) {
			defer wg.Done()
			errs <- access.update(ctx, id, func(s *store.StudySession) error {
				s.Quiz.Score++
				return nil
			})
		}(instances[i%len(instances)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	session, ok, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, updates, session.Quiz.Score)
}

func TestSessionAccess_LockHonoursContext(t *testing.T) {
	repo := newCopyingRepository()
	locker := memory.NewSessionLocker()
	access := NewSessionAccess(repo, locker)

	id := uuid.NewString()
	require.NoError(t, repo.Save(context.Background(), store.NewStudySession(id)))

	unlock, err := locker.Lock(context.Background(), id)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = access.read(ctx, id, func(*store.StudySession) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChatService_PacesFromLastCall(t *testing.T) {
	f := newFixture(t)
	f.client = llm.NewClient(f.provider, llm.NewPacer(80*time.Millisecond))
	svc := f.chatService()
	id := f.newSession(t)
	f.provider.respond("ok", nil)

	ctx := context.Background()
	_, err := svc.Send(ctx, id, "first", nil)
	require.NoError(t, err)
	last := f.session(t, id).LastCallAt
	require.False(t, last.IsZero())

	_, err = svc.Send(ctx, id, "second", nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, f.session(t, id).LastCallAt.Sub(last), 80*time.Millisecond)
}
