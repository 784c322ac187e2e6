package recorder

import (
	"fmt"
	"sync"
	"time"
)

const tickInterval = time.Second

// FormatElapsed renders seconds as zero-padded MM:SS. Minutes keep growing
// past 99.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Timer emits the formatted elapsed time once on Start and then every
// interval until Stop. emit must not block; it is called with the timer's
// lock held so no emission can happen after Stop returns.
type Timer struct {
	interval time.Duration
	emit     func(text string)

	mu     sync.Mutex
	now    func() time.Time
	anchor time.Time
	stopCh chan struct{}
}

func NewTimer(emit func(text string)) *Timer {
	return &Timer{
		interval: tickInterval,
		emit:     emit,
	}
}

func (t *Timer) Start(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.Stop()

	t.mu.Lock()
	t.now = now
	t.anchor = now()
	stop := make(chan struct{})
	t.stopCh = stop
	t.emitLocked()
	t.mu.Unlock()

	go t.run(stop)
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.anchor = time.Time{}
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.stopCh != stop {
				t.mu.Unlock()
				return
			}
			t.emitLocked()
			t.mu.Unlock()
		}
	}
}

func (t *Timer) emitLocked() {
	if t.emit == nil || t.anchor.IsZero() {
		return
	}
	elapsed := int(t.now().Sub(t.anchor) / time.Second)
	t.emit(FormatElapsed(elapsed))
}
