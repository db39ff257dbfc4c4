package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"incorporator/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. INCORPORATOR_REMOTE_BASE_URL.
const EnvPrefix = "INCORPORATOR"

// Config is the resolved runtime configuration.
type Config struct {
	Home    string        `mapstructure:"home"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Wizard  WizardConfig  `mapstructure:"wizard"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RemoteConfig configures the name availability service client.
type RemoteConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds one HTTP request.
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	// CheckTimeout bounds one background check including retries.
	CheckTimeout time.Duration `mapstructure:"check_timeout"`
}

// WizardConfig configures the flow controller.
type WizardConfig struct {
	CheckWaitTimeout time.Duration `mapstructure:"check_wait_timeout"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
}

// SessionConfig configures persistence.
type SessionConfig struct {
	KeepConfirmed bool `mapstructure:"keep_confirmed"`
}

// LoggingConfig configures the debug log.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Home: DefaultHome(),
		Remote: RemoteConfig{
			BaseURL:        "http://127.0.0.1:8088",
			Timeout:        10 * time.Second,
			MaxAttempts:    3,
			InitialBackoff: 250 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			CheckTimeout:   30 * time.Second,
		},
		Wizard: WizardConfig{
			CheckWaitTimeout: 20 * time.Second,
			PollInterval:     time.Second,
		},
		Logging: LoggingConfig{Level: logging.LevelInfo},
	}
}

// DefaultHome returns ~/.incorporator, or .incorporator when the user's home
// directory is unknown.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".incorporator"
	}
	return filepath.Join(home, ".incorporator")
}

// SetDefaults registers every key's default on v so that environment
// variables and config files can override keys that have no flag.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("home", d.Home)

	v.SetDefault("remote.base_url", d.Remote.BaseURL)
	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("remote.max_attempts", d.Remote.MaxAttempts)
	v.SetDefault("remote.initial_backoff", d.Remote.InitialBackoff)
	v.SetDefault("remote.max_backoff", d.Remote.MaxBackoff)
	v.SetDefault("remote.check_timeout", d.Remote.CheckTimeout)

	v.SetDefault("wizard.check_wait_timeout", d.Wizard.CheckWaitTimeout)
	v.SetDefault("wizard.poll_interval", d.Wizard.PollInterval)

	v.SetDefault("session.keep_confirmed", d.Session.KeepConfirmed)

	v.SetDefault("logging.level", d.Logging.Level)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Home == "" {
		errs = append(errs, errors.New("home must be set"))
	}
	if u, err := url.Parse(c.Remote.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("remote.base_url %q is not an absolute URL", c.Remote.BaseURL))
	}
	if c.Remote.MaxAttempts < 1 {
		errs = append(errs, errors.New("remote.max_attempts must be at least 1"))
	}
	for key, d := range map[string]time.Duration{
		"remote.timeout":            c.Remote.Timeout,
		"remote.initial_backoff":    c.Remote.InitialBackoff,
		"remote.max_backoff":        c.Remote.MaxBackoff,
		"wizard.check_wait_timeout": c.Wizard.CheckWaitTimeout,
		"wizard.poll_interval":      c.Wizard.PollInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", key))
		}
	}
	if c.Remote.CheckTimeout < 0 {
		errs = append(errs, errors.New("remote.check_timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// SessionsDir is where session records are stored.
func (c *Config) SessionsDir() string { return filepath.Join(c.Home, "sessions") }
