package syncer

import (
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultBackoffBase = 5 * time.Second
	DefaultBackoffCap  = 10 * time.Minute
	DefaultMaxAttempts = 8
)

// Backoff schedules retries of failed queue entries.
type Backoff struct {
	Base        time.Duration
	Cap         time.Duration
	MaxAttempts int
}

func DefaultBackoff() Backoff {
	return Backoff{Base: DefaultBackoffBase, Cap: DefaultBackoffCap, MaxAttempts: DefaultMaxAttempts}
}

// Delay is the wait before retrying an entry that has failed attempts times
// (attempts >= 1): Base, 2*Base, 4*Base and so on, never above Cap.
func (b Backoff) Delay(attempts int) time.Duration {
	if attempts < 1 {
		return 0
	}
	base, limit := b.Base, b.Cap
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if limit <= 0 {
		limit = DefaultBackoffCap
	}

	bo := retry.WithCappedDuration(limit, retry.NewExponential(base))
	var d time.Duration
	for i := 0; i < attempts; i++ {
		next, stop := bo.Next()
		if stop {
			break
		}
		d = next
	}
	return d
}

// Exhausted reports whether an entry with attempts failures is quarantined.
func (b Backoff) Exhausted(attempts int) bool {
	max := b.MaxAttempts
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	return attempts >= max
}
