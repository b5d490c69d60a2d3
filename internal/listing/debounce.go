package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a free-text search fires.
const DefaultDebounce = 350 * time.Millisecond

// Debouncer delays a call until triggers have been quiet for Delay. Each
// Trigger restarts the wait and replaces the pending call.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	wg     sync.WaitGroup
}

// NewDebouncer creates a Debouncer; a non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn to run once Delay has passed without another Trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked()
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		fn()
	})
}

// Cancel drops the pending call, if any. It reports whether one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *Debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	if stopped {
		d.wg.Done()
	}
	d.timer = nil
	return stopped
}

// Wait blocks until no call is scheduled or running.
func (d *Debouncer) Wait() {
	d.wg.Wait()
}

// Close cancels the pending call and waits for a call already running.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()
	d.wg.Wait()
}
