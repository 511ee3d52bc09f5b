package strac

import (
	"errors"
	"sync"
	"time"
)

// ErrNoBaseline is returned when target analysis runs before any Basic
// Calculation has been stored.
var ErrNoBaseline = errors.New("no baseline: run the basic calculation first")

// Session holds the baseline one user's target analysis is measured against.
// It starts empty and is overwritten by every Basic Calculation run.
type Session struct {
	mu        sync.RWMutex
	baseline  State
	updatedAt time.Time
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Store records the state of a Basic Calculation result as the baseline.
func (s *Session) Store(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = r.State
	s.updatedAt = time.Now()
}

// Baseline returns the stored state, which is all zero until Store is called.
func (s *Session) Baseline() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline
}

// UpdatedAt is the time of the last Store, zero if never stored.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Ready reports whether a non-zero baseline is available.
func (s *Session) Ready() bool {
	return !s.Baseline().IsZero()
}

// Target runs target analysis against the stored baseline.
func (s *Session) Target(target Input) (TargetResult, error) {
	return Target(s.Baseline(), target)
}
