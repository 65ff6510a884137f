// Package output drives the warm and cool LED channels.
package output

import "github.com/rs/zerolog/log"

// Sink receives gamma-corrected (warm, cool) duty pairs in 0-1023. The
// effect scheduler is its sole writer.
type Sink interface {
	Write(warm, cool int) error
}

// Console logs writes instead of touching hardware, for dry runs and
// development on machines without PWM.
type Console struct{}

// NewConsole creates a console sink.
func NewConsole() *Console {
	return &Console{}
}

// Write logs the duty pair at debug level.
func (c *Console) Write(warm, cool int) error {
	log.Debug().Int("warm", warm).Int("cool", cool).Msg("Output")
	return nil
}
