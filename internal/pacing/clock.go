package pacing

import "time"

// Clock is the time source of a controller.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock uses the wall clock of the host.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks for the given duration.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
