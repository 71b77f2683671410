package catalog

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long input must stay unchanged before a search fires.
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer delays a callback until input has been quiet for a period. Every
// Trigger restarts the timer and bumps a generation token; callers compare
// the token they were handed against Current so that a result belonging to a
// superseded input is dropped even if it finishes last.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn and returns its generation.
func (d *Debouncer) Trigger(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		if d.IsCurrent(gen) {
			fn(gen)
		}
	})
	return gen
}

// Cancel stops any pending callback and invalidates in-flight work.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer) IsCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}
