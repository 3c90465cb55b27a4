// Package guard tracks failed login attempts per client identity and
// decides admit/deny against the single admin credential. The store is
// injectable (no package-level singleton) so callers can swap the clock
// and isolate state between test runs.
package guard

import (
	"sync"
	"time"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 24 * time.Hour
)

// AttemptRecord is created lazily on the first failed attempt.
type AttemptRecord struct {
	FailCount   int
	WindowStart time.Time
}

type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	records map[string]*AttemptRecord
}

type Option func(*Store)

// WithClock overrides the store clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:     time.Now,
		records: make(map[string]*AttemptRecord),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RecordFailure increments the identity's fail count. A failure landing
// after the window has elapsed starts a fresh window instead of extending
// the stale one.
func (s *Store) RecordFailure(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[identity]
	if !ok || now.Sub(rec.WindowStart) >= LockoutWindow {
		s.records[identity] = &AttemptRecord{FailCount: 1, WindowStart: now}
		return
	}
	rec.FailCount++
}

// IsBlocked reports whether the identity has exhausted its attempt budget
// inside the current window. An elapsed window counts as unblocked; the
// record itself is left for Sweep to collect.
func (s *Store) IsBlocked(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		return false
	}
	if s.now().Sub(rec.WindowStart) >= LockoutWindow {
		return false
	}
	return rec.FailCount >= MaxAttempts
}

// FailCount returns the number of failures counting against the identity.
func (s *Store) FailCount(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		return 0
	}
	if s.now().Sub(rec.WindowStart) >= LockoutWindow {
		return 0
	}
	return rec.FailCount
}

// RecordSuccess wipes the identity's record entirely.
func (s *Store) RecordSuccess(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identity)
}

// Sweep drops records whose window has fully elapsed, bounding memory.
// Run it periodically; guard reads never fail on stale records either way.
func (s *Store) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for identity, rec := range s.records {
		if now.Sub(rec.WindowStart) >= LockoutWindow {
			delete(s.records, identity)
		}
	}
}

// Len reports the number of live records (sweep bookkeeping / logs).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
