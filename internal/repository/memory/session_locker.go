package memory

import (
	"context"
	"sync"

	"study-assistant-be/internal/repository/contract"
)

// SessionLocker serializes work per session inside one process. Entries
// are dropped once nobody holds or waits for them.
type SessionLocker struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	held chan struct{}
	refs int
}

var _ contract.SessionLocker = (*SessionLocker)(nil)

func NewSessionLocker() *SessionLocker {
	return &SessionLocker{locks: make(map[string]*sessionLock)}
}

func (k *SessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &sessionLock{held: make(chan struct{}, 1)}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.held <- struct{}{}:
	case <-ctx.Done():
		k.release(id, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.held
			k.release(id, l)
		})
	}, nil
}

func (k *SessionLocker) release(id string, l *sessionLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, id)
	}
}
