package transcription

import (
	"context"
	"time"

	"github.com/eleven-am/voice-recorder/internal/shared"
)

type backoff struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

func newBackoff(cfg shared.BackoffConfig) backoff {
	cfg = cfg.Normalize()
	return backoff{
		attempts: cfg.Attempts + 1,
		initial:  cfg.Initial,
		max:      cfg.Max,
	}
}

func (b backoff) delay(attempt int) time.Duration {
	d := b.initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= b.max {
			return b.max
		}
	}
	return d
}

func (b backoff) wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(b.delay(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
