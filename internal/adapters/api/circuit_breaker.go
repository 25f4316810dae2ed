package api

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// CircuitState is the breaker's position
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is returned without contacting the backend while the breaker is open
var ErrCircuitOpen = errors.New("planning service circuit open")

// CircuitBreaker stops calling an unhealthy backend for a cool-down period.
// Only failures that say something about backend health count: transport
// errors and 5xx responses. A 4xx is the caller's fault and leaves the count alone.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	clock        shared.Clock

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a closed breaker; a nil clock uses wall time
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		clock:        clock,
		state:        CircuitClosed,
	}
}

// Call runs fn unless the breaker is open. The lock is not held while fn runs.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.clock.Now().Sub(cb.lastFailure) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch {
	case err == nil:
		cb.failures = 0
		cb.state = CircuitClosed
	case tripsBreaker(err):
		cb.failures++
		cb.lastFailure = cb.clock.Now()
		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
		}
	case answered(err):
		// backend answered; it is alive
		if cb.state == CircuitHalfOpen {
			cb.state = CircuitClosed
		}
		cb.failures = 0
	}
	return err
}

// tripsBreaker counts only unreachable backends and 5xx answers.
// Local failures such as decoding or cancellation leave the count alone.
func tripsBreaker(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode >= 500
	}
	return false
}

func answered(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}

// State returns the current breaker position
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the breaker and forgets prior failures
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = CircuitClosed
	cb.failures = 0
}
