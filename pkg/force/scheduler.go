package force

import (
	"context"
	"sync"
	"time"
)

// Handle identifies a scheduled frame callback. The zero Handle is never
// returned by a Scheduler.
type Handle uint64

// Scheduler requests frame callbacks on behalf of a Simulation.
//
// Schedule queues fn to run on the next frame. Cancel removes a queued
// callback; cancelling a handle that already ran or was never issued is a
// no-op.
type Scheduler interface {
	Schedule(fn func()) Handle
	Cancel(h Handle)
}

// frameQueue is the bookkeeping shared by both schedulers.
type frameQueue struct {
	next  Handle
	live  map[Handle]func()
	order []Handle
}

func (q *frameQueue) push(fn func()) Handle {
	if q.live == nil {
		q.live = make(map[Handle]func())
	}
	q.next++
	q.live[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *frameQueue) cancel(h Handle) { delete(q.live, h) }

// batch detaches the handles queued so far. Callbacks queued while the
// batch runs belong to the next frame.
func (q *frameQueue) batch() []Handle {
	b := q.order
	q.order = nil
	return b
}

// take removes and returns the callback for h, if it is still live.
func (q *frameQueue) take(h Handle) (func(), bool) {
	fn, ok := q.live[h]
	if ok {
		delete(q.live, h)
	}
	return fn, ok
}

// =============================================================================
// ManualScheduler
// =============================================================================

// ManualScheduler runs frames only when Step is called. It is synchronous
// and deterministic, for tests, headless runs and hosts that own their own
// event loop.
//
// ManualScheduler is not safe for concurrent use.
type ManualScheduler struct {
	q frameQueue
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

// Schedule implements Scheduler.
func (m *ManualScheduler) Schedule(fn func()) Handle { return m.q.push(fn) }

// Cancel implements Scheduler.
func (m *ManualScheduler) Cancel(h Handle) { m.q.cancel(h) }

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int { return len(m.q.live) }

// Step runs one frame: every callback queued before the call, in order.
// It returns the number of callbacks that ran.
func (m *ManualScheduler) Step() int {
	ran := 0
	for _, h := range m.q.batch() {
		if fn, ok := m.q.take(h); ok {
			fn()
			ran++
		}
	}
	return ran
}

// Drain steps until nothing is pending or maxFrames frames have run, and
// returns the number of frames run. A maxFrames <= 0 means no limit.
func (m *ManualScheduler) Drain(maxFrames int) int {
	frames := 0
	for m.Pending() > 0 && (maxFrames <= 0 || frames < maxFrames) {
		m.Step()
		frames++
	}
	return frames
}

// =============================================================================
// FrameScheduler
// =============================================================================

// DefaultFPS is the frame rate used when NewFrameScheduler gets a
// non-positive rate.
const DefaultFPS = 60

// FrameScheduler runs queued callbacks on a fixed-rate ticker. Callbacks
// execute on the goroutine that calls Run, so a Simulation driven by it
// stays single-threaded. Schedule and Cancel may be called from any
// goroutine.
type FrameScheduler struct {
	interval time.Duration

	mu sync.Mutex
	q  frameQueue
}

// NewFrameScheduler creates a scheduler producing fps frames per second.
// Rates above one frame per nanosecond run at one frame per nanosecond.
func NewFrameScheduler(fps int) *FrameScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &FrameScheduler{interval: max(time.Second/time.Duration(fps), time.Nanosecond)}
}

// Interval returns the time between frames.
func (f *FrameScheduler) Interval() time.Duration { return f.interval }

// Schedule implements Scheduler.
func (f *FrameScheduler) Schedule(fn func()) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.q.push(fn)
}

// Cancel implements Scheduler.
func (f *FrameScheduler) Cancel(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.q.cancel(h)
}

// Pending returns the number of queued callbacks.
func (f *FrameScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.q.live)
}

// Run executes frames until ctx is done and returns ctx.Err().
func (f *FrameScheduler) Run(ctx context.Context) error {
	return f.run(ctx, false)
}

// RunUntilIdle executes frames until a frame leaves nothing pending, or
// ctx is done. It returns nil when idle and ctx.Err() otherwise.
func (f *FrameScheduler) RunUntilIdle(ctx context.Context) error {
	return f.run(ctx, true)
}

func (f *FrameScheduler) run(ctx context.Context, untilIdle bool) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		if untilIdle && f.Pending() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.frame()
		}
	}
}

func (f *FrameScheduler) frame() {
	f.mu.Lock()
	batch := f.q.batch()
	f.mu.Unlock()

	for _, h := range batch {
		f.mu.Lock()
		fn, ok := f.q.take(h)
		f.mu.Unlock()
		if ok {
			fn()
		}
	}
}
