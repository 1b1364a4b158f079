package contract

import (
	"context"
	"time"

	"study-assistant-be/pkg/store"
)

// SessionRepository holds live study sessions. Implementations expire
// sessions that have not been saved within their TTL.
type SessionRepository interface {
	Save(ctx context.Context, session *store.StudySession) error
	Get(ctx context.Context, id string) (*store.StudySession, bool, error)
	Delete(ctx context.Context, id string) error
	TTL() time.Duration
}
