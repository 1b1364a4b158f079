package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLocker_Exclusive(t *testing.T) {
	locker := NewSessionLocker()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "s-1")
			if !assert.NoError(t, err) {
				return
			}
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, locker.locks, "entries are dropped once released")
}

func TestSessionLocker_IndependentSessions(t *testing.T) {
	locker := NewSessionLocker()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockA, err := locker.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestSessionLocker_ContextCancelled(t *testing.T) {
	locker := NewSessionLocker()
	unlock, err := locker.Lock(context.Background(), "s-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "s-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Empty(t, locker.locks)
}
