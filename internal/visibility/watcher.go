package visibility

import "sync"

// Visibility is the host surface's foreground state.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// Watcher holds the current visibility and fans out transitions to
// subscribers. Subscriber channels have a one-slot buffer and coalesce to
// the latest value; a slow subscriber never blocks Set.
type Watcher struct {
	mu      sync.Mutex
	current Visibility
	subs    []chan Visibility
}

// NewWatcher returns a Watcher starting in the Visible state.
func NewWatcher() *Watcher {
	return &Watcher{current: Visible}
}

// Current returns the current visibility.
func (w *Watcher) Current() Visibility {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Set records a visibility transition and notifies subscribers. Setting the
// current value again is a no-op.
func (w *Watcher) Set(v Visibility) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if v == w.current {
		return
	}
	w.current = v

	for _, ch := range w.subs {
		// Drain a stale pending value so the buffer always holds the latest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (w *Watcher) Subscribe() <-chan Visibility {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan Visibility, 1)
	w.subs = append(w.subs, ch)
	return ch
}
