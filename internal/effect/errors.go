package effect

import "errors"

// Validation errors returned by command methods. A rejected command leaves
// the scheduler completely untouched.
var (
	ErrInvalidTime       = errors.New("hour must be 0-23 and minute 0-59")
	ErrInvalidBrightness = errors.New("brightness values must be 0-1023")
	ErrInvalidMinutes    = errors.New("auto-off minutes must be 1-1440")
)
