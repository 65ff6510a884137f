// Package config loads the daemon configuration from YAML.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log             LogConfig      `yaml:"log"`
	HTTP            HTTPConfig     `yaml:"http"`
	Database        DatabaseConfig `yaml:"database"`
	Light           LightConfig    `yaml:"light"`
	Timezone        string         `yaml:"timezone"`
	TickInterval    Duration       `yaml:"tick_interval"`    // Effect update cadence
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"` // Graceful stop timeout
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// HTTPConfig contains REST API server settings
type HTTPConfig struct {
	Host         string  `yaml:"host"`
	Port         int     `yaml:"port"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"` // Command endpoint rate limit
}

// DatabaseConfig contains settings-store options
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LightConfig selects and configures the output sink
type LightConfig struct {
	// Sink is "pwm" for sysfs hardware output or "console" for dry runs
	Sink           string `yaml:"sink"`
	WarmPWMPath    string `yaml:"warm_pwm_path"`
	CoolPWMPath    string `yaml:"cool_pwm_path"`
	PWMFrequencyHz int    `yaml:"pwm_frequency_hz"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./wakelightd.sqlite"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// HTTP defaults
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 10.0
	}

	// Light defaults - console sink keeps a misconfigured daemon harmless
	if cfg.Light.Sink == "" {
		cfg.Light.Sink = "console"
	}
	if cfg.Light.PWMFrequencyHz == 0 {
		cfg.Light.PWMFrequencyHz = 5000
	}

	if cfg.TickInterval == 0 {
		cfg.TickInterval = Duration(20 * time.Millisecond)
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Light.Sink {
	case "console":
	case "pwm":
		if c.Light.WarmPWMPath == "" || c.Light.CoolPWMPath == "" {
			return fmt.Errorf("pwm sink requires warm_pwm_path and cool_pwm_path")
		}
	default:
		return fmt.Errorf("unknown light sink %q", c.Light.Sink)
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
