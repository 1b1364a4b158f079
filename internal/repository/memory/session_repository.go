package memory

import (
	"context"
	"time"

	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

const DefaultSessionTTL = 1 * time.Hour

// SessionRepository keeps sessions in process memory. Saved pointers are
// returned as-is, so callers must serialize access per session.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.StudySession) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*store.StudySession, bool, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*store.StudySession), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) TTL() time.Duration {
	return r.ttl
}
