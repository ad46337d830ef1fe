// Package visibility tracks whether the dashboard is currently being looked at.
//
// The TUI feeds terminal focus and suspend/resume events into a Signal; the
// synchronizer subscribes to it and pauses polling while the signal is false.
package visibility

import "sync"

// Signal holds a visible/hidden flag and notifies subscribers when it flips.
// The zero value is not usable; call New.
type Signal struct {
	mu      sync.Mutex
	visible bool
	nextID  int
	subs    map[int]func(bool)
}

// New returns a Signal with the given initial value.
func New(initial bool) *Signal {
	return &Signal{visible: initial, subs: make(map[int]func(bool))}
}

// Visible reports the current value.
func (s *Signal) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Subscribe registers fn to be called with the new value on every change.
// The returned func removes the subscription and is safe to call repeatedly.
func (s *Signal) Subscribe(fn func(bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Set updates the value. Subscribers run synchronously, outside the lock, and
// only when the value actually changes.
func (s *Signal) Set(visible bool) {
	s.mu.Lock()
	if s.visible == visible {
		s.mu.Unlock()
		return
	}
	s.visible = visible
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(visible)
	}
}

// Subscribers reports how many subscriptions are active.
func (s *Signal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
