package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const DefaultMinInterval = 2 * time.Second

// Pacer spaces the model calls of one study session by a minimum interval.
// It keeps no state of its own: the time of the previous call travels with
// the session, so every API instance paces the same way.
type Pacer struct {
	interval time.Duration
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the interval has passed since last, or ctx is done.
// A zero last never waits.
func (p *Pacer) Wait(ctx context.Context, last time.Time) error {
	delay := p.Delay(last, time.Now())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Delay is how long a call at now has to wait after a call at last.
func (p *Pacer) Delay(last, now time.Time) time.Duration {
	if p == nil || p.interval <= 0 || last.IsZero() {
		return 0
	}
	// Replay the previous call into a fresh limiter: its single token is
	// spent at last and refills at last+interval.
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)
	limiter.AllowN(last, 1)
	return limiter.ReserveN(now, 1).DelayFrom(now)
}
