// Package clock abstracts time so receipt ids and subscription
// timestamps are deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewRealClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// FixedClock reports a preset instant.
type FixedClock struct {
	at time.Time
}

func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{at: at}
}

func (c *FixedClock) Now() time.Time {
	return c.at
}

func (c *FixedClock) Advance(d time.Duration) {
	c.at = c.at.Add(d)
}
