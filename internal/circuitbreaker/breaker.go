// Package circuitbreaker implements a three-state circuit breaker guarding
// calls to an external service (typically an LLM provider).
package circuitbreaker

import (
	"sync"
	"time"
)

// State is one of the three circuit breaker states.
type State int

const (
	// Closed means calls are allowed and failures are being counted.
	Closed State = iota
	// Open means calls are rejected until the timeout elapses.
	Open
	// HalfOpen means a single trial call is allowed to probe recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreaker tracks consecutive failures for a named service and trips
// to Open once failureThreshold is reached, recovering through a HalfOpen
// probe after timeout has elapsed.
type CircuitBreaker struct {
	mu               sync.Mutex
	serviceName      string
	state            State
	failureCount     uint32
	failureThreshold uint32
	timeout          time.Duration
	openedAt         time.Time
}

// New creates a CircuitBreaker for serviceName that opens after
// failureThreshold consecutive failures and probes recovery after timeout.
func New(serviceName string, failureThreshold uint32, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		serviceName:      serviceName,
		state:            Closed,
		failureThreshold: failureThreshold,
		timeout:          timeout,
	}
}

// CanCall reports whether a call is currently permitted. In the Open state,
// once timeout has elapsed since the breaker opened, it transitions to
// HalfOpen and permits the call as a probe.
func (c *CircuitBreaker) CanCall() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Closed:
		return true
	case Open:
		if time.Since(c.openedAt) >= c.timeout {
			c.state = HalfOpen
			return true
		}
		return false
	case HalfOpen:
		return true
	default:
		return false
	}
}

// RecordSuccess resets the failure count and, from HalfOpen or Open, closes
// the circuit.
func (c *CircuitBreaker) RecordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount = 0
	if c.state == HalfOpen || c.state == Open {
		c.state = Closed
		c.openedAt = time.Time{}
	}
}

// RecordFailure increments the failure count. From Closed, it trips to Open
// once failureThreshold is reached. From HalfOpen, any failure reopens the
// circuit immediately.
func (c *CircuitBreaker) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount++

	switch c.state {
	case Closed:
		if c.failureCount >= c.failureThreshold {
			c.state = Open
			c.openedAt = time.Now()
		}
	case HalfOpen:
		c.state = Open
		c.openedAt = time.Now()
	case Open:
		// no-op: already open
	}
}

// State returns the current breaker state.
func (c *CircuitBreaker) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FailureCount returns the current consecutive failure count.
func (c *CircuitBreaker) FailureCount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failureCount
}

// ServiceName returns the name this breaker was created for.
func (c *CircuitBreaker) ServiceName() string {
	return c.serviceName
}
