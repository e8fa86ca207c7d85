// Package commit decides when a preference store writes its mirror to the
// medium.
//
// Commit Protocol:
//  1. Due(now) - dirty data may be written: the debounce interval has elapsed
//     since the last successful commit, or the backoff after a failure has
//     elapsed, and the circuit is not open
//  2. [Store writes dirty ranges and syncs the medium]
//  3. Succeeded(now) or Failed(now)
//
// Retry Policy:
// A failed commit is retried after Interval, then 2×Interval, 4×Interval, ...
// capped at MaxBackoff. After MaxFailures consecutive failures the circuit
// opens and periodic commits stop. Rearm (called on the next save) half-opens
// it: one more attempt is made after Interval, and a failure reopens it.
// Nothing is discarded while the circuit is open; the mirror keeps the data.
package commit

import (
	"fmt"
	"time"
)

const (
	// DefaultMaxFailures is used when Policy.MaxFailures is zero.
	DefaultMaxFailures = 8

	// maxBackoffFactor bounds the default MaxBackoff to Interval << maxBackoffFactor.
	maxBackoffFactor = 6
)

// Policy configures the scheduler.
type Policy struct {
	// Interval is the minimum time between commits (the debounce interval).
	Interval time.Duration

	// MaxBackoff caps the delay between retries of a failing commit.
	// Zero selects 64×Interval.
	MaxBackoff time.Duration

	// MaxFailures is the number of consecutive failures that opens the
	// circuit. Zero selects DefaultMaxFailures; negative never opens it.
	MaxFailures int
}

func (p Policy) withDefaults() Policy {
	if p.MaxBackoff == 0 {
		p.MaxBackoff = p.Interval << maxBackoffFactor
	}
	if p.MaxFailures == 0 {
		p.MaxFailures = DefaultMaxFailures
	}
	return p
}

// State is the circuit state.
type State int

const (
	// StateClosed is normal operation.
	StateClosed State = iota
	// StateBackoff means the last commit failed and a retry is scheduled.
	StateBackoff
	// StateOpen means periodic commits are suspended until Rearm.
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateBackoff:
		return "backoff"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Scheduler tracks commit timing and failures.
//
// The scheduler is NOT thread-safe. Only one goroutine should use it at a time.
type Scheduler struct {
	policy   Policy
	last     time.Time // last successful commit
	retryAt  time.Time // next attempt while backing off
	failures int       // consecutive failures
	state    State
}

// NewScheduler creates a scheduler whose debounce window starts at now.
func NewScheduler(p Policy, now time.Time) *Scheduler {
	return &Scheduler{
		policy: p.withDefaults(),
		last:   now,
		state:  StateClosed,
	}
}

// SetInterval changes the debounce interval. A zero MaxBackoff in the
// original policy is recomputed from the new interval.
func (s *Scheduler) SetInterval(d time.Duration, maxBackoff time.Duration) {
	s.policy.Interval = d
	s.policy.MaxBackoff = maxBackoff
	s.policy = s.policy.withDefaults()
}

// Policy returns the effective policy.
func (s *Scheduler) Policy() Policy { return s.policy }

// Due reports whether a commit may be attempted at now.
func (s *Scheduler) Due(now time.Time) bool {
	switch s.state {
	case StateOpen:
		return false
	case StateBackoff:
		return !now.Before(s.retryAt)
	default:
		return now.Sub(s.last) >= s.policy.Interval
	}
}

// Succeeded records a successful commit at now.
func (s *Scheduler) Succeeded(now time.Time) {
	s.last = now
	s.failures = 0
	s.retryAt = time.Time{}
	s.state = StateClosed
}

// Failed records a failed commit at now and schedules the retry.
// It returns true when this failure opened the circuit.
func (s *Scheduler) Failed(now time.Time) bool {
	s.failures++

	if s.policy.MaxFailures > 0 && s.failures >= s.policy.MaxFailures {
		wasOpen := s.state == StateOpen
		s.state = StateOpen
		s.retryAt = time.Time{}
		return !wasOpen
	}

	s.state = StateBackoff
	s.retryAt = now.Add(s.backoff())
	return false
}

// backoff returns Interval << (failures-1), capped at MaxBackoff.
func (s *Scheduler) backoff() time.Duration {
	d := s.policy.Interval
	for i := 1; i < s.failures; i++ {
		if d >= s.policy.MaxBackoff/2 {
			return s.policy.MaxBackoff
		}
		d *= 2
	}
	return min(d, s.policy.MaxBackoff)
}

// Rearm half-opens an open circuit: one attempt is allowed after Interval
// and a failure reopens it. It is a no-op unless the circuit is open.
func (s *Scheduler) Rearm(now time.Time) {
	if s.state != StateOpen {
		return
	}
	s.failures = max(s.policy.MaxFailures-1, 0)
	s.state = StateBackoff
	s.retryAt = now.Add(s.policy.Interval)
}

// State returns the circuit state.
func (s *Scheduler) State() State { return s.state }

// Failures returns the number of consecutive failed commits.
func (s *Scheduler) Failures() int { return s.failures }

// LastCommit returns the time of the last successful commit (or creation).
func (s *Scheduler) LastCommit() time.Time { return s.last }

// RetryAt returns when the next attempt is allowed while backing off.
func (s *Scheduler) RetryAt() time.Time { return s.retryAt }
