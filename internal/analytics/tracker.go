package analytics

import (
	"slices"
	"sync"
	"time"

	"expenses/internal/store"
)

// Source is the part of the store a Tracker needs.
type Source interface {
	Subscribe(store.Listener) (unsubscribe func())
}

type TrackerOption func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func WithWindow(w Window) TrackerOption {
	return func(t *Tracker) { t.window = w }
}

// Tracker keeps a Summary current. It recomputes on every store emission and
// on every window change, then notifies its observers.
type Tracker struct {
	mu        sync.Mutex
	now       func() time.Time
	window    Window
	snapshot  store.Snapshot
	summary   Summary
	observers []func(Summary)

	unsubscribe func()
}

// NewTracker subscribes to src. The first summary is available on return.
func NewTracker(src Source, opts ...TrackerOption) *Tracker {
	t := &Tracker{now: time.Now, window: DefaultWindow}
	for _, opt := range opts {
		opt(t)
	}
	t.unsubscribe = src.Subscribe(t.onSnapshot)
	return t
}

// OnChange registers fn to receive every recomputed summary.
func (t *Tracker) OnChange(fn func(Summary)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// SetWindow switches the window and recomputes.
func (t *Tracker) SetWindow(w Window) {
	t.mu.Lock()
	t.window = w
	t.recomputeAndNotify()
}

func (t *Tracker) Window() Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window
}

// Summary returns the latest summary.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

// Refresh recomputes against the current clock, e.g. after midnight.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	t.recomputeAndNotify()
}

// Close stops following the store.
func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
}

func (t *Tracker) onSnapshot(snap store.Snapshot) {
	t.mu.Lock()
	t.snapshot = snap
	t.recomputeAndNotify()
}

// recomputeAndNotify must be called with t.mu held; it releases it before
// calling observers.
func (t *Tracker) recomputeAndNotify() {
	t.summary = Summarize(t.snapshot.Expenses, t.window, t.now())
	summary := t.summary
	observers := slices.Clone(t.observers)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(summary)
	}
}
