package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter spaces out requests against the target site. Wait blocks until
// enough time has passed since the previous action, or until ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// JitterLimiter enforces a randomized delay between a minimum and maximum
// duration since the last action. The first call never waits, so a scrape run
// only pays the delay between requests, not before the first one.
type JitterLimiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewJitterLimiter(minDelay, maxDelay time.Duration) *JitterLimiter {
	return &JitterLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (l *JitterLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastAction.IsZero() {
		elapsed := time.Since(l.lastAction)
		delay := l.calculateDelay()

		if elapsed < delay {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay - elapsed):
			}
		}
	}

	l.lastAction = time.Now()
	return nil
}

func (l *JitterLimiter) calculateDelay() time.Duration {
	if l.maxDelay <= l.minDelay {
		return l.minDelay
	}

	jitter := time.Duration(rand.Int63n(int64(l.maxDelay - l.minDelay)))
	return l.minDelay + jitter
}
