package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "study:session:"

// SessionRepository stores sessions as JSON in redis so several API
// instances can serve the same client. Pair it with SessionLocker: Save
// overwrites whatever another instance wrote in between.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *SessionRepository) Save(ctx context.Context, session *store.StudySession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	return r.rdb.Set(ctx, key(session.ID), raw, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.StudySession, bool, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var session store.StudySession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, key(id)).Err()
}

func (r *SessionRepository) TTL() time.Duration {
	return r.ttl
}
