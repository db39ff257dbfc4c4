package app_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incorporator/internal/app"
)

func newViper() *viper.Viper {
	v := viper.New()
	app.SetDefaults(v)
	v.SetEnvPrefix(app.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := app.Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, app.Default(), cfg)
	assert.Equal(t, 3, cfg.Remote.MaxAttempts)
	assert.Equal(t, 20*time.Second, cfg.Wizard.CheckWaitTimeout)
	assert.False(t, cfg.Session.KeepConfirmed)
	assert.Equal(t, filepath.Join(cfg.Home, "sessions"), cfg.SessionsDir())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INCORPORATOR_REMOTE_BASE_URL", "https://names.example.com")
	t.Setenv("INCORPORATOR_REMOTE_TIMEOUT", "3s")
	t.Setenv("INCORPORATOR_SESSION_KEEP_CONFIRMED", "true")

	cfg, err := app.Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "https://names.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.True(t, cfg.Session.KeepConfirmed)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wizard:\n  poll_interval: 250ms\nlogging:\n  level: DEBUG\n"), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := app.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Wizard.PollInterval)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	cfg := app.Default()
	cfg.Remote.BaseURL = "not a url"
	cfg.Remote.MaxAttempts = 0
	cfg.Wizard.PollInterval = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.base_url")
	assert.Contains(t, err.Error(), "remote.max_attempts")
	assert.Contains(t, err.Error(), "wizard.poll_interval")
}
