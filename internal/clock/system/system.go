// Package system provides the host clock used to time article fetches.
package system

import "time"

// Clock reads the host clock.
type Clock struct{}

// New creates a new Clock.
func New() Clock {
	return Clock{}
}

// Now returns the current time. Readings keep their monotonic component, so
// subtracting two of them is unaffected by wall-clock adjustments.
func (Clock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since start.
func (c Clock) Since(start time.Time) time.Duration {
	return c.Now().Sub(start)
}
