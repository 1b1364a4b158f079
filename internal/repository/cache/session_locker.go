package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"study-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix = "study:lock:"

	DefaultLockTTL = 30 * time.Second
	lockRetry      = 50 * time.Millisecond
)

// Only the holder's token may extend or delete a lock.
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// SessionLocker is a redis lock per session (SET NX PX with a random
// token), shared by every API instance that uses the same redis. The lock
// is refreshed while held so a long model call does not lose it.
type SessionLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionLocker = (*SessionLocker)(nil)

func NewSessionLocker(rdb *redis.Client, ttl time.Duration) *SessionLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &SessionLocker{rdb: rdb, ttl: ttl}
}

func lockKey(id string) string {
	return lockPrefix + id
}

func (l *SessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	k := lockKey(id)
	token := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock %s: %w", id, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(lockRetry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go l.keepAlive(k, token, stop, stopped)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-stopped

			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, l.rdb, []string{k}, token).Err()
		})
	}, nil
}

func (l *SessionLocker) keepAlive(k, token string, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
			_ = refreshScript.Run(ctx, l.rdb, []string{k}, token, l.ttl.Milliseconds()).Err()
			cancel()
		}
	}
}
