// Package frame provides the cooperative scheduling primitives the editor
// runs on: a render-frame loop that defers work to the next frame, a clock
// abstraction and a keyed debouncer whose timers post into the loop.
//
// All document mutations happen on the goroutine that drives the loop.
// Timers fire on their own goroutines but only ever post work.
package frame

import (
	"context"
	"sync"
	"time"
)

// Loop is a queue of work deferred to the next render frame. Work posted
// while a frame runs is executed in the following frame, never the current
// one.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	frames uint64
}

// NewLoop creates an empty loop
func NewLoop() *Loop {
	return &Loop{}
}

// Post schedules fn for the next frame. It reports false when the loop has
// been closed and fn was discarded.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.queue = append(l.queue, fn)
	return true
}

// RunFrame runs every task that was queued when the frame started and
// returns how many ran.
func (l *Loop) RunFrame() int {
	l.mu.Lock()
	if l.closed || len(l.queue) == 0 {
		l.mu.Unlock()
		return 0
	}
	tasks := l.queue
	l.queue = nil
	l.frames++
	l.mu.Unlock()

	ran := 0
	for _, fn := range tasks {
		if l.isClosed() {
			break
		}
		fn()
		ran++
	}
	return ran
}

// RunUntilIdle runs frames until nothing is pending or maxFrames frames have
// run. maxFrames <= 0 means no limit. It returns the number of frames run.
func (l *Loop) RunUntilIdle(maxFrames int) int {
	n := 0
	for l.Pending() > 0 {
		if maxFrames > 0 && n >= maxFrames {
			break
		}
		l.RunFrame()
		n++
	}
	return n
}

// Run drives the loop with a frame every interval until ctx is done or the
// loop is closed.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.isClosed() {
				return nil
			}
			l.RunFrame()
		}
	}
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Frames returns the number of frames that ran work
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Close discards all queued work. Later posts are rejected.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.queue = nil
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// DefaultFrameInterval approximates a 60Hz display refresh
const DefaultFrameInterval = 16 * time.Millisecond
