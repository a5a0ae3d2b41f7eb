package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a change is reported. Atomic
// saves produce a burst of create, write and rename events.
const DefaultDebounce = 200 * time.Millisecond

// debouncer runs fn once after a burst of triggers goes quiet
type debouncer struct {
	wait  time.Duration
	fn    func()
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func newDebouncer(wait time.Duration, fn func()) *debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &debouncer{wait: wait, fn: fn}
}

// trigger restarts the quiet period
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A timer that fired while a newer trigger was being scheduled is stale.
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			d.fn()
		}
	})
}

// pending reports whether a callback is scheduled
func (d *debouncer) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
