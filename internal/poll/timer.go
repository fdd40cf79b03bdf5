package poll

import (
	"sync"
	"time"
)

// QuestionTimer schedules the expiry of a single open question. Arm replaces
// any previous schedule; Cancel is idempotent and safe after the timer has
// fired. A fire that has already started when Cancel runs can still invoke
// the callback, so callers must re-check their own state inside it — the
// session does this under its mutex, where a stale expiry is a no-op.
type QuestionTimer struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// Arm schedules fn after d. time.AfterFunc uses the monotonic clock, so
// wall-clock adjustments do not move the deadline.
func (qt *QuestionTimer) Arm(d time.Duration, fn func()) {
	qt.mu.Lock()
	defer qt.mu.Unlock()
	if qt.timer != nil {
		qt.timer.Stop()
	}
	qt.gen++
	gen := qt.gen
	qt.timer = time.AfterFunc(d, func() {
		qt.mu.Lock()
		live := gen == qt.gen
		qt.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel disarms the current schedule. The callback fires at most once per
// Arm and never for a generation that has been cancelled or re-armed.
func (qt *QuestionTimer) Cancel() {
	qt.mu.Lock()
	defer qt.mu.Unlock()
	qt.gen++
	if qt.timer != nil {
		qt.timer.Stop()
		qt.timer = nil
	}
}
