package frame

import (
	"sync"
	"time"
)

// DefaultDebounce is the default quiet period after the last edit of a page
// before it is checked for overflow.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs a function for a key once the key has been quiet for the
// debounce delay. Every Trigger restarts the key's timer. When a timer fires
// the function is posted to the loop and runs in the next frame.
type Debouncer struct {
	loop  *Loop
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]Timer
	gen     map[string]uint64
	stopped bool
}

// NewDebouncer creates a debouncer posting into loop. A nil clock means
// RealClock and a delay <= 0 posts on every Trigger without waiting.
func NewDebouncer(loop *Loop, clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{
		loop:   loop,
		clock:  clock,
		delay:  delay,
		timers: make(map[string]Timer),
		gen:    make(map[string]uint64),
	}
}

// Trigger (re)starts the timer for key. Only the fn of the latest Trigger
// for a key ever runs.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.gen[key]++
	g := d.gen[key]
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}

	if d.delay <= 0 {
		d.loop.Post(d.guard(key, g, fn))
		return
	}
	d.timers[key] = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || d.gen[key] != g {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		d.loop.Post(d.guard(key, g, fn))
	})
}

// guard wraps fn so it is skipped if the key was retriggered, cancelled or
// the debouncer stopped between posting and running.
func (d *Debouncer) guard(key string, g uint64, fn func()) func() {
	return func() {
		d.mu.Lock()
		current := !d.stopped && d.gen[key] == g
		d.mu.Unlock()
		if current {
			fn()
		}
	}
}

// Cancel drops any pending call for key
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen[key]++
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Pending reports whether key has a timer waiting
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[key]
	return ok
}

// Stop cancels every timer. Calls already posted to the loop are skipped.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
