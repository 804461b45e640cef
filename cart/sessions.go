package cart

import (
	"sync"
	"time"
)

type session struct {
	mu       sync.Mutex
	engine   *Engine
	lastUsed time.Time
}

// Sessions keeps one Engine per cart session. Each session has its own lock,
// so two requests for the same cart run one after the other while different
// carts proceed in parallel.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	fees     FeeSchedule
	toastTTL time.Duration
	maxQty   int
	now      func() time.Time
}

func NewSessions(fees FeeSchedule, toastTTL time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		fees:     fees,
		toastTTL: toastTTL,
		maxQty:   DefaultMaxLineQuantity,
		now:      time.Now,
	}
}

// SetMaxLineQuantity sets the per-line cap for carts created from now on.
func (s *Sessions) SetMaxLineQuantity(n int) {
	if n < 1 {
		n = DefaultMaxLineQuantity
	}
	s.mu.Lock()
	s.maxQty = n
	s.mu.Unlock()
}

// With runs fn while holding the lock of the session's engine, creating an
// empty cart on first use. fn's error is returned unchanged.
func (s *Sessions) With(id string, fn func(*Engine) error) error {
	sess := s.acquire(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.engine)
}

// Do is With for callbacks that cannot fail.
func (s *Sessions) Do(id string, fn func(*Engine)) {
	sess := s.acquire(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.engine)
}

func (s *Sessions) acquire(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		e := NewEngine(s.fees, s.toastTTL)
		e.SetMaxLineQuantity(s.maxQty)
		sess = &session{engine: e}
		s.sessions[id] = sess
	}
	sess.lastUsed = s.now()
	return sess
}

// Drop forgets a session and its cart.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep removes sessions unused for longer than maxIdle and reports how many
// were removed.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
