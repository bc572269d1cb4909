// Package clock abstracts time so the confirmation poller is testable.
package clock

import "time"

// Clock provides an abstraction for time operations to enable deterministic testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for the given duration.
	Sleep(d time.Duration)
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks the calling goroutine for d.
func (c *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// FakeClock implements Clock with a manually advanced time for testing.
// Sleep advances the fake time instead of blocking, so code that polls with
// a wall-clock deadline runs instantly under test.
type FakeClock struct {
	current time.Time

	// Sleeps records every duration passed to Sleep, in order.
	Sleeps []time.Duration
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Sleep advances the fake time by d and records the call.
func (c *FakeClock) Sleep(d time.Duration) {
	c.Sleeps = append(c.Sleeps, d)
	c.current = c.current.Add(d)
}

// Set updates the fake time.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the fake time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
