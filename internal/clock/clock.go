// Package clock supplies the import timestamp source.
package clock

import "time"

// Clock stamps imported attendees.
type Clock interface {
	Now() time.Time
}

type system struct{}

// NewSystem returns a UTC wall clock.
func NewSystem() Clock {
	return system{}
}

func (system) Now() time.Time {
	return time.Now().UTC()
}

type fixed time.Time

// NewFixed returns a clock frozen at t, for tests and reproducible imports.
func NewFixed(t time.Time) Clock {
	return fixed(t.UTC())
}

func (f fixed) Now() time.Time {
	return time.Time(f)
}
