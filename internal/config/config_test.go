package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/config"
	"github.com/rezonia/einvoice-converter/internal/model"
)

// clearEnv unsets keys for the duration of the test
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, config.KeyHTTPAddress, config.KeyHTTPReadTimeout, config.KeyDefaultInterface, config.KeyDebugDir)

	cfg, err := config.Load(nil, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 2*time.Minute, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 20.0, cfg.HTTP.RateLimit)
	assert.Equal(t, 40, cfg.HTTP.RateBurst)
	assert.Empty(t, cfg.Conversion.DebugDir)
	assert.Empty(t, cfg.Conversion.DefaultInterface)
	assert.Empty(t, cfg.Conversion.CodeTablesFile)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv(config.KeyLogLevel, "debug")
	t.Setenv(config.KeyHTTPAddress, ":9090")
	t.Setenv(config.KeyHTTPReadTimeout, "5s")
	t.Setenv(config.KeyHTTPRateLimit, "2.5")
	t.Setenv(config.KeyDefaultInterface, " x ")
	t.Setenv(config.KeyDebugDir, "/tmp/debug")

	cfg, err := config.Load(nil, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 2.5, cfg.HTTP.RateLimit)
	assert.Equal(t, "X", cfg.Conversion.DefaultInterface)
	assert.Equal(t, "/tmp/debug", cfg.Conversion.DebugDir)
	assert.Equal(t, "debug", cfg.Logger().Level)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t, config.KeyCodeTablesFile, config.KeyLogFormat)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CODE_TABLES_FILE=/etc/codes.yaml\nLOG_FORMAT=json\n"), 0o644))

	cfg, err := config.Load(nil, envFile)
	require.NoError(t, err)
	assert.Equal(t, "/etc/codes.yaml", cfg.Conversion.CodeTablesFile)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FlagOverride(t *testing.T) {
	t.Setenv(config.KeyHTTPAddress, ":9090")

	v := viper.New()
	v.Set(config.KeyHTTPAddress, ":7070")

	cfg, err := config.Load(v, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Address)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown interface", config.KeyDefaultInterface, "Q"},
		{"negative rate", config.KeyHTTPRateLimit, "-1"},
		{"no burst", config.KeyHTTPRateBurst, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load(nil, noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_InterfaceError(t *testing.T) {
	cfg := &config.Config{Conversion: config.ConversionConfig{DefaultInterface: "Q"}}
	err := cfg.Validate()
	assert.True(t, errors.Is(err, model.ErrUnknownInterface))
}
