package service

import (
	"context"
	"errors"

	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/pkg/store"
)

var (
	ErrSessionNotFound = errors.New("study session not found or expired")
	ErrNoNotes         = errors.New("no notes uploaded")
)

// SessionAccess serializes all work on one study session and persists it afterwards.
// Instances that share a session store must share the locker too.
type SessionAccess struct {
	repo   contract.SessionRepository
	locker contract.SessionLocker
}

func NewSessionAccess(repo contract.SessionRepository, locker contract.SessionLocker) *SessionAccess {
	return &SessionAccess{repo: repo, locker: locker}
}

func (a *SessionAccess) lock(ctx context.Context, id string) (func(), error) {
	unlock, err := a.locker.Lock(ctx, id)
	if err != nil {
		return nil, serverutils.Internal("Failed to lock session", err)
	}
	return unlock, nil
}

// update runs fn on the locked session and saves it when fn succeeds.
func (a *SessionAccess) update(ctx context.Context, id string, fn func(s *store.StudySession) error) error {
	unlock, err := a.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	session, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}

	session.Touch()
	if err := a.repo.Save(ctx, session); err != nil {
		return serverutils.Internal("Failed to save session", err)
	}
	return nil
}

// read runs fn on the locked session without saving it.
func (a *SessionAccess) read(ctx context.Context, id string, fn func(s *store.StudySession) error) error {
	unlock, err := a.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	session, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	return fn(session)
}

func (a *SessionAccess) load(ctx context.Context, id string) (*store.StudySession, error) {
	session, ok, err := a.repo.Get(ctx, id)
	if err != nil {
		return nil, serverutils.Internal("Failed to load session", err)
	}
	if !ok {
		return nil, serverutils.NotFound("Session not found or expired", ErrSessionNotFound)
	}
	return session, nil
}

func requireNotes(s *store.StudySession) error {
	if !s.HasNotes() {
		return serverutils.Conflict("Upload notes first", ErrNoNotes)
	}
	return nil
}
