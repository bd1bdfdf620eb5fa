package clock

import (
	"time"
)

//go:generate mockgen -source=clock.go -destination=clockmock/clock_mock.go -package=clockmock

// Clock is an interface that abstracts the functionality for measuring time.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time
	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
}

type clock struct{}

// New creates a new instance of Clock.
func New() Clock {
	return clock{}
}

func (clock) Now() time.Time {
	return time.Now()
}

func (clock) Since(t time.Time) time.Duration {
	return time.Since(t)
}
