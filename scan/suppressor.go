// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"sync"
	"time"
)

// DefaultSuppressWindow is how long a decoded string stays "recently seen"
const DefaultSuppressWindow = 5 * time.Second

// Suppressor is a short-lived set of recently seen decoded strings. It is a
// best-effort guard in front of the intake pipeline; the database unique
// constraint remains the duplicate authority.
type Suppressor struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]*time.Timer
	closed bool
}

// NewSuppressor creates a suppressor. window <= 0 selects the default 5s.
func NewSuppressor(window time.Duration) *Suppressor {
	if window <= 0 {
		window = DefaultSuppressWindow
	}
	return &Suppressor{
		window: window,
		seen:   make(map[string]*time.Timer),
	}
}

// Seen reports whether the decoded string is inside its suppression window
func (s *Suppressor) Seen(decoded string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[decoded]
	return ok
}

// MarkSeen records a decoded string and schedules its eviction. Marking an
// already-seen string restarts its window.
func (s *Suppressor) MarkSeen(decoded string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.seen[decoded]; ok {
		t.Stop()
	}
	s.seen[decoded] = time.AfterFunc(s.window, func() {
		s.evict(decoded)
	})
}

func (s *Suppressor) evict(decoded string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, decoded)
}

// Close cancels all pending eviction timers. The suppressor ignores
// MarkSeen calls after Close.
func (s *Suppressor) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for decoded, t := range s.seen {
		t.Stop()
		delete(s.seen, decoded)
	}
}
