// Package circuitbreaker stops calling a failing upstream for a cooldown
// period. State is tracked per key.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

type keyState struct {
	state               state
	consecutiveFailures int
	openedAt            time.Time
}

// CircuitBreaker opens a key after threshold consecutive failures. Once the
// cooldown elapses one probe call is let through; its outcome closes or
// reopens the key. A threshold of zero or less disables the breaker.
type CircuitBreaker struct {
	mu        sync.Mutex
	states    map[string]*keyState
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func New(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		states:    make(map[string]*keyState),
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow returns ErrCircuitOpen when calls for key must be refused.
func (cb *CircuitBreaker) Allow(key string) error {
	if cb.threshold <= 0 {
		return nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	s, ok := cb.states[key]
	if !ok {
		return nil
	}

	switch s.state {
	case stateOpen:
		if cb.now().Sub(s.openedAt) >= cb.cooldown {
			s.state = stateHalfOpen
			return nil
		}
		return ErrCircuitOpen
	case stateHalfOpen:
		return ErrCircuitOpen
	default:
		return nil
	}
}

func (cb *CircuitBreaker) RecordSuccess(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if s, ok := cb.states[key]; ok {
		s.state = stateClosed
		s.consecutiveFailures = 0
	}
}

func (cb *CircuitBreaker) RecordFailure(key string) {
	if cb.threshold <= 0 {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	s, ok := cb.states[key]
	if !ok {
		s = &keyState{}
		cb.states[key] = s
	}

	s.consecutiveFailures++
	if s.state == stateHalfOpen || s.consecutiveFailures >= cb.threshold {
		s.state = stateOpen
		s.openedAt = cb.now()
	}
}

// Abandon reports that a call let through by Allow ended without an outcome,
// for example because the caller went away. A half-open key returns to open
// with its original opening time, so the next Allow probes again.
func (cb *CircuitBreaker) Abandon(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if s, ok := cb.states[key]; ok && s.state == stateHalfOpen {
		s.state = stateOpen
	}
}

// IsOpen reports whether key is currently refusing calls, without moving an
// expired open key to half-open.
func (cb *CircuitBreaker) IsOpen(key string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s, ok := cb.states[key]
	return ok && s.state == stateOpen && cb.now().Sub(s.openedAt) < cb.cooldown
}
