package shared

import "time"

// Clock abstracts wall-clock access so breakers, history timestamps and
// busy-time measurements can be driven deterministically in tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reads the system clock in UTC
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// NewRealClock returns the production clock
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock is a manually advanced clock for tests
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock frozen at start (or at time.Now when start is zero)
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &MockClock{CurrentTime: start}
}

func (m *MockClock) Now() time.Time { return m.CurrentTime }

// Sleep advances the clock instead of blocking
func (m *MockClock) Sleep(d time.Duration) { m.Advance(d) }

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}
