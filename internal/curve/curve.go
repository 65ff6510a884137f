// Package curve provides the easing and gamma mapping used to drive the
// warm/cool LED channels.
package curve

import "math"

// Duty range for both channels (10-bit PWM resolution).
const (
	LevelMin = 0
	LevelMax = 1023
)

// Gamma exponents. Sunrise runs linear so the fade-up stays gradual to the
// eye; every other transition is gamma-corrected for perceptual steps.
const (
	DefaultGamma = 2.2
	SunriseGamma = 1.0
)

// Smoothstep eases progress with 3p²-2p³: gentle at both ends.
// Identity-clamped outside [0,1].
func Smoothstep(p float64) float64 {
	if p <= 0.0 {
		return 0.0
	}
	if p >= 1.0 {
		return 1.0
	}
	return p * p * (3.0 - 2.0*p)
}

// EaseInOutSine eases progress along a half cosine wave.
// Identity-clamped outside [0,1].
func EaseInOutSine(p float64) float64 {
	if p <= 0.0 {
		return 0.0
	}
	if p >= 1.0 {
		return 1.0
	}
	return 0.5 * (1.0 - math.Cos(p*math.Pi))
}

// ApplyGamma maps a linear 0-1023 brightness level to a gamma-corrected
// duty cycle. Gamma 1.0 is the identity.
func ApplyGamma(v int, gamma float64) int {
	if v <= LevelMin {
		return LevelMin
	}
	if v >= LevelMax {
		return LevelMax
	}
	normalized := float64(v) / float64(LevelMax)
	corrected := math.Pow(normalized, gamma)
	return int(corrected*float64(LevelMax) + 0.5)
}

// Clamp constrains a brightness level to the valid duty range.
func Clamp(v int) int {
	if v < LevelMin {
		return LevelMin
	}
	if v > LevelMax {
		return LevelMax
	}
	return v
}
