package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// dutyRange is the logical resolution of a channel (10-bit).
const dutyRange = 1023

// pwmChannel is one exported sysfs PWM channel directory, e.g.
// /sys/class/pwm/pwmchip0/pwm0.
type pwmChannel struct {
	path     string
	periodNs int
}

func newPWMChannel(path string, freqHz int) (*pwmChannel, error) {
	ch := &pwmChannel{
		path:     path,
		periodNs: int(1e9) / freqHz,
	}

	if err := ch.writeAttr("period", ch.periodNs); err != nil {
		return nil, fmt.Errorf("failed to set period on %s: %w", path, err)
	}
	if err := ch.writeAttr("duty_cycle", 0); err != nil {
		return nil, fmt.Errorf("failed to zero duty cycle on %s: %w", path, err)
	}
	if err := ch.writeAttr("enable", 1); err != nil {
		return nil, fmt.Errorf("failed to enable %s: %w", path, err)
	}

	return ch, nil
}

func (ch *pwmChannel) set(level int) error {
	duty := ch.periodNs * level / dutyRange
	return ch.writeAttr("duty_cycle", duty)
}

func (ch *pwmChannel) disable() error {
	return ch.writeAttr("enable", 0)
}

func (ch *pwmChannel) writeAttr(name string, value int) error {
	return os.WriteFile(filepath.Join(ch.path, name), []byte(fmt.Sprintf("%d", value)), 0o644)
}

// PWM drives two sysfs PWM channels, one per LED strip color.
type PWM struct {
	warm *pwmChannel
	cool *pwmChannel
}

// NewPWM opens the two channel directories and configures them for the
// given frequency. Both channels must already be exported by the kernel.
func NewPWM(warmPath, coolPath string, freqHz int) (*PWM, error) {
	warm, err := newPWMChannel(warmPath, freqHz)
	if err != nil {
		return nil, err
	}

	cool, err := newPWMChannel(coolPath, freqHz)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("warm", warmPath).
		Str("cool", coolPath).
		Int("freq_hz", freqHz).
		Msg("PWM channels configured")

	return &PWM{warm: warm, cool: cool}, nil
}

// Write applies the duty pair to hardware.
func (p *PWM) Write(warm, cool int) error {
	if err := p.warm.set(warm); err != nil {
		return fmt.Errorf("warm channel: %w", err)
	}
	if err := p.cool.set(cool); err != nil {
		return fmt.Errorf("cool channel: %w", err)
	}
	return nil
}

// Close disables both channels, leaving the light off.
func (p *PWM) Close() error {
	if err := p.warm.disable(); err != nil {
		return err
	}
	return p.cool.disable()
}
