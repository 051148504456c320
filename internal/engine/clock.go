package engine

import "time"

// Clock supplies the evaluation instant for approximate matches.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, truncated to milliseconds in UTC.
type SystemClock struct{}

// Now returns the current UTC time at millisecond resolution.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}
