// Package debounce provides a cancellable delay: each Trigger replaces the
// pending call and restarts the quiet period.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	mux   sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, dropping any call not yet fired.
func (d *Debouncer) Trigger(fn func()) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mux.Lock()
		// a timer that fired while Trigger/Cancel held the lock is stale
		if gen != d.gen {
			d.mux.Unlock()
			return
		}
		d.timer = nil
		d.mux.Unlock()
		fn()
	})
}

// Cancel drops the pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

func (d *Debouncer) Pending() bool {
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.timer != nil
}
