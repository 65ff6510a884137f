// Package clock abstracts the two time sources the controller consumes:
// a monotonic millisecond counter for effect timing and a wall-clock
// reader for alarm matching.
package clock

import (
	"time"

	"github.com/rs/zerolog/log"
)

// WallTime is an hour/minute reading of the local wall clock.
type WallTime struct {
	Hour   int
	Minute int
}

// Clock provides the time sources for the effect scheduler. Millis is
// monotonic and may wrap; callers must use wrap-safe subtraction. Synced
// reports whether the wall clock can be trusted - alarm matching must
// never run against an unsynchronized clock.
type Clock interface {
	Millis() uint64
	WallClock() WallTime
	Synced() bool
}

// System reads the operating system clocks, with wall time rendered in a
// fixed timezone.
type System struct {
	tz    *time.Location
	start time.Time
}

// NewSystem creates a system clock for the given IANA timezone name.
// An invalid timezone falls back to UTC.
func NewSystem(timezone string) *System {
	tz, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", timezone).Msg("Failed to load timezone, using UTC")
		tz = time.UTC
	}

	return &System{
		tz:    tz,
		start: time.Now(),
	}
}

// Millis returns milliseconds since the clock was created, driven by the
// runtime's monotonic reading.
func (s *System) Millis() uint64 {
	return uint64(time.Since(s.start).Milliseconds())
}

// WallClock returns the current local hour and minute.
func (s *System) WallClock() WallTime {
	now := time.Now().In(s.tz)
	return WallTime{Hour: now.Hour(), Minute: now.Minute()}
}

// Synced reports whether the OS clock has been set. A host still on its
// epoch default (e.g. an embedded board before time sync) must not match
// alarms.
func (s *System) Synced() bool {
	return time.Now().Year() >= 2000
}
