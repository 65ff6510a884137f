// Package effect implements the lighting-effect state machine: alarm
// matching, the sunrise fade, manual fades, and the auto-off countdown.
package effect

import (
	"github.com/rs/zerolog/log"

	"wakelightd/internal/clock"
	"wakelightd/internal/curve"
	"wakelightd/internal/output"
)

// Timing and target constants. The sunrise ceiling is deliberately
// warm-heavy: the cool channel tops out at a minority fraction of the
// warm channel, approximating the color shift of dawn.
const (
	sunriseDurationMillis = uint64(15 * 60 * 1000)
	manualFadeMillis      = uint64(350)
	millisPerMinute       = uint64(60 * 1000)

	sunriseWarmCeiling = 1023
	sunriseCoolCeiling = 409

	progressLogMillis = uint64(5 * 1000)
)

// Kind identifies which effect currently owns the output.
type Kind int

const (
	KindIdle Kind = iota
	KindSunrise
	KindManualFade
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindSunrise:
		return "sunrise"
	case KindManualFade:
		return "manual_fade"
	default:
		return "unknown"
	}
}

// Level is a (warm, cool) brightness pair in logical 0-1023 units. The
// scheduler retains the last written level so any new fade starts from
// it without a visible step.
type Level struct {
	Warm int
	Cool int
}

// activeEffect is the tagged union of running effects. At most one is
// active; a nil field on the Scheduler means idle. Keeping the variants
// as distinct types makes the exclusivity a compile-time property rather
// than a pair of booleans to keep in sync.
type activeEffect interface {
	kind() Kind
}

type sunriseFade struct {
	start uint64
}

func (*sunriseFade) kind() Kind { return KindSunrise }

type manualFade struct {
	start    uint64
	duration uint64
	from     Level
	to       Level
}

func (*manualFade) kind() Kind { return KindManualFade }

// Status is a read-only view of the scheduler, sufficient for a status
// endpoint without reaching into internals.
type Status struct {
	Now     clock.WallTime
	Synced  bool
	Alarm   AlarmSchedule
	AutoOff AutoOffConfig
	Active  Kind
	Output  Level
}

// Scheduler owns the effect state machine. It is not safe for concurrent
// use: ticks and commands must all run on the same goroutine.
type Scheduler struct {
	clk   clock.Clock
	sink  output.Sink
	saver Persister

	alarm   AlarmSchedule
	autoOff AutoOffConfig

	active    activeEffect
	level     Level
	countdown autoOffCountdown

	lastProgressLog uint64
}

// New creates a scheduler from a loaded settings snapshot. The output
// starts dark.
func New(clk clock.Clock, sink output.Sink, saver Persister, snap Snapshot) *Scheduler {
	s := &Scheduler{
		clk:   clk,
		sink:  sink,
		saver: saver,
		alarm: AlarmSchedule{
			Hour:    snap.AlarmHour,
			Minute:  snap.AlarmMinute,
			Enabled: snap.AlarmEnabled,
		},
		autoOff: AutoOffConfig{
			Enabled: snap.AutoOffEnabled,
			Minutes: snap.AutoOffMinutes,
		},
	}
	s.write(Level{}, curve.DefaultGamma)
	return s
}

// Tick advances the active effect by one step and polls the auto-off
// countdown. It must be called repeatedly; the math is correct for any
// tick interval.
func (s *Scheduler) Tick() {
	now := s.clk.Millis()

	if s.countdown.poll(now) {
		log.Info().Msg("Auto-off elapsed, fading lights off")
		s.startManualFade(Level{})
	}

	switch e := s.active.(type) {
	case nil:
		s.maybeStartSunrise(now)
	case *sunriseFade:
		s.advanceSunrise(e, now)
	case *manualFade:
		s.advanceManualFade(e, now)
	}
}

// SetAlarm configures and enables the wake time. Out-of-range values are
// rejected without touching any state.
func (s *Scheduler) SetAlarm(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidTime
	}

	s.alarm.Hour = hour
	s.alarm.Minute = minute
	s.alarm.Enabled = true
	s.persist()

	log.Info().Int("hour", hour).Int("minute", minute).Msg("Alarm set")
	return nil
}

// ToggleAlarm enables or disables the alarm. Disabling cancels a sunrise
// in progress, leaving the output at its current level.
func (s *Scheduler) ToggleAlarm(enabled bool) {
	s.alarm.Enabled = enabled
	if !enabled {
		if _, ok := s.active.(*sunriseFade); ok {
			s.active = nil
			log.Info().Msg("Sunrise cancelled by alarm disable")
		}
	}
	s.persist()

	log.Info().Bool("enabled", enabled).Msg("Alarm toggled")
}

// ManualOn fades both channels to full brightness.
func (s *Scheduler) ManualOn() {
	log.Info().Msg("Manual: fading lights on")
	s.startManualFade(Level{Warm: curve.LevelMax, Cool: curve.LevelMax})
}

// ManualOff fades both channels to zero.
func (s *Scheduler) ManualOff() {
	log.Info().Msg("Manual: fading lights off")
	s.startManualFade(Level{})
}

// SetBrightness fades to an explicit (warm, cool) target.
func (s *Scheduler) SetBrightness(warm, cool int) error {
	if warm < curve.LevelMin || warm > curve.LevelMax || cool < curve.LevelMin || cool > curve.LevelMax {
		return ErrInvalidBrightness
	}

	log.Info().Int("warm", warm).Int("cool", cool).Msg("Manual: fading to brightness")
	s.startManualFade(Level{Warm: warm, Cool: cool})
	return nil
}

// SetAutoOff configures the post-sunrise countdown. It does not touch a
// countdown that is already armed.
func (s *Scheduler) SetAutoOff(enabled bool, minutes int) error {
	if minutes < 1 || minutes > 1440 {
		return ErrInvalidMinutes
	}

	s.autoOff.Enabled = enabled
	s.autoOff.Minutes = minutes
	s.persist()

	log.Info().Bool("enabled", enabled).Int("minutes", minutes).Msg("Auto-off configured")
	return nil
}

// Alarm returns the current alarm configuration.
func (s *Scheduler) Alarm() AlarmSchedule {
	return s.alarm
}

// AutoOff returns the current auto-off configuration.
func (s *Scheduler) AutoOff() AutoOffConfig {
	return s.autoOff
}

// Output returns the last level written to the sink, in logical units.
func (s *Scheduler) Output() Level {
	return s.level
}

// ActiveKind returns which effect currently owns the output.
func (s *Scheduler) ActiveKind() Kind {
	if s.active == nil {
		return KindIdle
	}
	return s.active.kind()
}

// Status returns the full read-only view.
func (s *Scheduler) Status() Status {
	return Status{
		Now:     s.clk.WallClock(),
		Synced:  s.clk.Synced(),
		Alarm:   s.alarm,
		AutoOff: s.autoOff,
		Active:  s.ActiveKind(),
		Output:  s.level,
	}
}

// Settings returns the persistable snapshot of the configuration.
func (s *Scheduler) Settings() Snapshot {
	return Snapshot{
		AlarmHour:      s.alarm.Hour,
		AlarmMinute:    s.alarm.Minute,
		AlarmEnabled:   s.alarm.Enabled,
		AutoOffEnabled: s.autoOff.Enabled,
		AutoOffMinutes: s.autoOff.Minutes,
	}
}

// startManualFade begins a fade from the current output level to the
// target. It supersedes whatever is running: an active sunrise is
// cancelled and a pending auto-off countdown is cleared.
func (s *Scheduler) startManualFade(target Level) {
	s.countdown.disarm()
	s.active = &manualFade{
		start:    s.clk.Millis(),
		duration: manualFadeMillis,
		from:     s.level,
		to:       target,
	}
}

func (s *Scheduler) maybeStartSunrise(now uint64) {
	if !s.alarm.Enabled {
		return
	}
	if !s.clk.Synced() {
		return
	}

	if s.alarm.Matches(s.clk.WallClock()) {
		s.active = &sunriseFade{start: now}
		s.lastProgressLog = now
		log.Info().
			Int("hour", s.alarm.Hour).
			Int("minute", s.alarm.Minute).
			Msg("Sunrise started")
	}
}

func (s *Scheduler) advanceSunrise(e *sunriseFade, now uint64) {
	elapsed := now - e.start

	if elapsed >= sunriseDurationMillis {
		// Snap to the ceiling so rounding never undershoots the target.
		s.write(Level{Warm: sunriseWarmCeiling, Cool: sunriseCoolCeiling}, curve.SunriseGamma)
		s.active = nil

		if s.autoOff.Enabled {
			s.countdown.arm(now + uint64(s.autoOff.Minutes)*millisPerMinute)
			log.Info().Int("minutes", s.autoOff.Minutes).Msg("Auto-off scheduled")
		}

		log.Info().Msg("Sunrise complete")
		return
	}

	// Linear two-point ramp from dark to the ceiling, written with gamma
	// 1.0 so the visible ramp matches elapsed time.
	progress := float64(elapsed) / float64(sunriseDurationMillis)
	warm := int(float64(sunriseWarmCeiling) * progress)
	cool := int(float64(sunriseCoolCeiling) * progress)
	s.write(Level{Warm: warm, Cool: cool}, curve.SunriseGamma)

	if now-s.lastProgressLog >= progressLogMillis {
		log.Debug().
			Float64("progress", progress).
			Int("warm", warm).
			Int("cool", cool).
			Msg("Sunrise progress")
		s.lastProgressLog = now
	}
}

func (s *Scheduler) advanceManualFade(e *manualFade, now uint64) {
	elapsed := now - e.start

	if e.duration == 0 || elapsed >= e.duration {
		// Snap exactly to the target to shed interpolation rounding.
		s.write(e.to, curve.DefaultGamma)
		s.active = nil
		log.Debug().Int("warm", e.to.Warm).Int("cool", e.to.Cool).Msg("Manual fade complete")
		return
	}

	progress := float64(elapsed) / float64(e.duration)
	eased := curve.EaseInOutSine(progress)
	warm := e.from.Warm + int(float64(e.to.Warm-e.from.Warm)*eased)
	cool := e.from.Cool + int(float64(e.to.Cool-e.from.Cool)*eased)
	s.write(Level{Warm: warm, Cool: cool}, curve.DefaultGamma)
}

// write clamps the level, records it as the current output, and hands the
// gamma-corrected pair to the sink.
func (s *Scheduler) write(lv Level, gamma float64) {
	lv.Warm = curve.Clamp(lv.Warm)
	lv.Cool = curve.Clamp(lv.Cool)
	s.level = lv

	warm := curve.ApplyGamma(lv.Warm, gamma)
	cool := curve.ApplyGamma(lv.Cool, gamma)
	if err := s.sink.Write(warm, cool); err != nil {
		log.Error().Err(err).Msg("Failed to write output")
	}
}

// persist saves the settings snapshot. A failed save is logged and
// otherwise ignored; in-memory state stays authoritative.
func (s *Scheduler) persist() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(s.Settings()); err != nil {
		log.Error().Err(err).Msg("Failed to persist settings")
	}
}
