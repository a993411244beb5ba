package images

import (
	"sync"
	"time"
)

// callWindow approximates a provider quota with a fixed window: the
// counter resets lazily once the elapsed time since the last reset
// exceeds the window length. This is advisory only; it prevents local
// overuse but does not coordinate across process instances, and the
// window is elapsed-time based rather than calendar aligned.
type callWindow struct {
	mu        sync.Mutex
	quota     int
	window    time.Duration
	calls     int
	lastReset time.Time
	now       func() time.Time
}

func newCallWindow(quota int, window time.Duration) *callWindow {
	return &callWindow{
		quota:     quota,
		window:    window,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// allow reports whether another call fits in the current window,
// resetting the counter first if the window has elapsed.
func (w *callWindow) allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetIfElapsed()
	return w.calls < w.quota
}

// record adds n completed calls to the current window.
func (w *callWindow) record(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetIfElapsed()
	w.calls += n
}

func (w *callWindow) resetIfElapsed() {
	if w.now().Sub(w.lastReset) > w.window {
		w.calls = 0
		w.lastReset = w.now()
	}
}

// used returns the number of calls recorded in the current window.
func (w *callWindow) used() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetIfElapsed()
	return w.calls
}
