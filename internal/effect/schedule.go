package effect

import "wakelightd/internal/clock"

// AlarmSchedule is the configured wake time. Zero value means disabled.
type AlarmSchedule struct {
	Hour    int
	Minute  int
	Enabled bool
}

// Matches reports whether the alarm should fire at the given wall-clock
// reading. Comparison is minute-exact; the scheduler only consults it
// while idle, so a sunrise already in progress naturally blocks a re-fire
// within the same minute.
func (a AlarmSchedule) Matches(wt clock.WallTime) bool {
	return a.Enabled && wt.Hour == a.Hour && wt.Minute == a.Minute
}

// AutoOffConfig controls the countdown armed when a sunrise completes.
type AutoOffConfig struct {
	Enabled bool
	Minutes int
}

// Snapshot is the persisted settings view of the scheduler. It is what
// the persistence collaborator loads at startup and saves after every
// mutating command.
type Snapshot struct {
	AlarmHour      int
	AlarmMinute    int
	AlarmEnabled   bool
	AutoOffEnabled bool
	AutoOffMinutes int
}

// DefaultSnapshot returns the settings used when nothing has been
// persisted yet.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		AlarmHour:      6,
		AlarmMinute:    30,
		AlarmEnabled:   false,
		AutoOffEnabled: true,
		AutoOffMinutes: 45,
	}
}

// Persister saves settings snapshots. Failures are logged by the
// scheduler and never propagated: in-memory state stays authoritative
// until the next successful save.
type Persister interface {
	Save(Snapshot) error
}
