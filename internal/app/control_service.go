package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"wakelightd/internal/effect"
)

// ControlService runs the effect scheduler's tick loop on a single
// goroutine and serializes external commands into it between ticks. The
// scheduler itself is not safe for concurrent use; this service is what
// makes the HTTP handlers safe to call it.
type ControlService struct {
	sched    *effect.Scheduler
	interval time.Duration

	cmds    chan func()
	stopped chan struct{}
}

// NewControlService creates a control service ticking at the given
// interval.
func NewControlService(sched *effect.Scheduler, interval time.Duration) *ControlService {
	return &ControlService{
		sched:    sched,
		interval: interval,
		cmds:     make(chan func(), 16),
		stopped:  make(chan struct{}),
	}
}

// Start begins the control loop.
func (s *ControlService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *ControlService) run(ctx context.Context) {
	defer close(s.stopped)

	log.Info().Dur("interval", s.interval).Msg("Control loop started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Control loop stopping")
			return
		case cmd := <-s.cmds:
			cmd()
		case <-ticker.C:
			s.sched.Tick()
		}
	}
}

// do executes fn on the control goroutine and waits for it. Calls made
// after shutdown return without running.
func (s *ControlService) do(fn func()) {
	done := make(chan struct{})
	select {
	case s.cmds <- func() { fn(); close(done) }:
	case <-s.stopped:
		return
	}
	select {
	case <-done:
	case <-s.stopped:
	}
}

// SetAlarm configures and enables the wake time.
func (s *ControlService) SetAlarm(hour, minute int) error {
	var err error
	s.do(func() { err = s.sched.SetAlarm(hour, minute) })
	return err
}

// ToggleAlarm enables or disables the alarm.
func (s *ControlService) ToggleAlarm(enabled bool) {
	s.do(func() { s.sched.ToggleAlarm(enabled) })
}

// ManualOn fades the light to full brightness.
func (s *ControlService) ManualOn() {
	s.do(func() { s.sched.ManualOn() })
}

// ManualOff fades the light to zero.
func (s *ControlService) ManualOff() {
	s.do(func() { s.sched.ManualOff() })
}

// SetBrightness fades to an explicit (warm, cool) target.
func (s *ControlService) SetBrightness(warm, cool int) error {
	var err error
	s.do(func() { err = s.sched.SetBrightness(warm, cool) })
	return err
}

// SetAutoOff configures the post-sunrise countdown.
func (s *ControlService) SetAutoOff(enabled bool, minutes int) error {
	var err error
	s.do(func() { err = s.sched.SetAutoOff(enabled, minutes) })
	return err
}

// Status returns a read-only snapshot of the scheduler.
func (s *ControlService) Status() effect.Status {
	var st effect.Status
	s.do(func() { st = s.sched.Status() })
	return st
}
