package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "./wakelightd.sqlite", cfg.Database.Path)
	require.Equal(t, "Local", cfg.Timezone)
	require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, 10.0, cfg.HTTP.RateLimitRPS)
	require.Equal(t, "console", cfg.Light.Sink)
	require.Equal(t, 5000, cfg.Light.PWMFrequencyHz)
	require.Equal(t, 20*time.Millisecond, cfg.TickInterval.Duration())
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout.Duration())
}

func TestLoadParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
tick_interval: 50ms
shutdown_timeout: 10s
`))
	require.NoError(t, err)
	require.Equal(t, 50*time.Millisecond, cfg.TickInterval.Duration())
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout.Duration())
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("WAKELIGHT_DB", "/data/light.sqlite")

	cfg, err := Load(writeConfig(t, `
database:
  path: ${WAKELIGHT_DB}
timezone: ${WAKELIGHT_TZ:Europe/London}
`))
	require.NoError(t, err)
	require.Equal(t, "/data/light.sqlite", cfg.Database.Path)
	require.Equal(t, "Europe/London", cfg.Timezone)
}

func TestLoadRejectsUnknownSink(t *testing.T) {
	_, err := Load(writeConfig(t, `
light:
  sink: mqtt
`))
	require.ErrorContains(t, err, "unknown light sink")
}

func TestLoadRejectsPWMWithoutPaths(t *testing.T) {
	_, err := Load(writeConfig(t, `
light:
  sink: pwm
`))
	require.ErrorContains(t, err, "warm_pwm_path")
}

func TestLoadPWMSink(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
light:
  sink: pwm
  warm_pwm_path: /sys/class/pwm/pwmchip0/pwm0
  cool_pwm_path: /sys/class/pwm/pwmchip0/pwm1
`))
	require.NoError(t, err)
	require.Equal(t, "pwm", cfg.Light.Sink)
	require.Equal(t, "/sys/class/pwm/pwmchip0/pwm0", cfg.Light.WarmPWMPath)
}
