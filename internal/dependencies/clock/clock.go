package clock

import "time"

// Clock provides the ledger time. It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Timestamp returns the ledger timestamp of c: whole seconds since the Unix epoch.
// Times before the epoch clamp to 0.
func Timestamp(c Clock) uint64 {
	secs := c.Now().Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}
