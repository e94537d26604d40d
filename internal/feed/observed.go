package feed

import "sync"

// observed mirrors the loop-owned state that outside readers may poll: the
// lifecycle state (collapsed to live/disconnected for display) and the last
// error text surfaced to the user.
type observed struct {
	mu      sync.RWMutex
	st      State
	lastErr string
}

func (o *observed) state() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.st
}

func (o *observed) setState(s State) {
	o.mu.Lock()
	o.st = s
	o.mu.Unlock()
}

func (o *observed) lastError() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastErr
}

func (o *observed) setLastError(msg string) {
	o.mu.Lock()
	o.lastErr = msg
	o.mu.Unlock()
}
