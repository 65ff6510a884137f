package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"wakelightd/internal/clock"
	"wakelightd/internal/config"
	"wakelightd/internal/effect"
	"wakelightd/internal/httpapi"
	"wakelightd/internal/output"
	"wakelightd/internal/store"
)

// Services is a container for all application services. It manages
// service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	Store *store.Store
	Clock *clock.System
	Sink  output.Sink

	Control *ControlService
	API     *httpapi.Server
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Settings persistence
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.Store = st

	snap, err := st.Load()
	if err != nil {
		// Degrade to defaults rather than refusing to start; the light
		// must keep working without its saved settings.
		log.Error().Err(err).Msg("Failed to load settings, using defaults")
		snap = effect.DefaultSnapshot()
	}
	log.Info().
		Int("hour", snap.AlarmHour).
		Int("minute", snap.AlarmMinute).
		Bool("alarm_enabled", snap.AlarmEnabled).
		Bool("autooff_enabled", snap.AutoOffEnabled).
		Int("autooff_minutes", snap.AutoOffMinutes).
		Msg("Settings loaded")

	// Time sources
	s.Clock = clock.NewSystem(cfg.Timezone)

	// Output sink
	s.Sink, err = newSink(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	// Effect scheduler and its control loop
	sched := effect.New(s.Clock, s.Sink, st, snap)
	s.Control = NewControlService(sched, cfg.TickInterval.Duration())

	// REST API
	s.API = httpapi.NewServer(cfg.HTTP.Host, cfg.HTTP.Port, cfg.HTTP.RateLimitRPS, s.Control)

	return s, nil
}

func newSink(cfg *config.Config) (output.Sink, error) {
	switch cfg.Light.Sink {
	case "pwm":
		return output.NewPWM(cfg.Light.WarmPWMPath, cfg.Light.CoolPWMPath, cfg.Light.PWMFrequencyHz)
	case "console":
		return output.NewConsole(), nil
	default:
		return nil, fmt.Errorf("unknown light sink %q", cfg.Light.Sink)
	}
}

// Start starts all background services.
func (s *Services) Start(ctx context.Context) {
	s.Control.Start(ctx)

	go func() {
		if err := s.API.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("API server error")
		}
	}()
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if closer, ok := s.Sink.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close output sink")
		}
	}
	if s.Store != nil {
		s.Store.Close()
	}
}
