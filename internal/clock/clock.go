// Package clock provides an injectable time source so components that
// stamp or compare times can be tested against a fixed instant.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the wall clock.
type System struct{}

// Now returns the current wall-clock time.
func (System) Now() time.Time { return time.Now() }

// Fixed is a Clock frozen at a single instant.
type Fixed struct {
	Instant time.Time
}

// Now returns the frozen instant.
func (f Fixed) Now() time.Time { return f.Instant }
