// Package config reads runtime settings from the environment, an optional
// .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rezonia/einvoice-converter/internal/logger"
	"github.com/rezonia/einvoice-converter/internal/outbound"
)

// Setting keys. Each is also the environment variable name.
const (
	KeyLogLevel         = "LOG_LEVEL"
	KeyLogFormat        = "LOG_FORMAT"
	KeyLogOutput        = "LOG_OUTPUT"
	KeyHTTPAddress      = "HTTP_ADDRESS"
	KeyHTTPReadTimeout  = "HTTP_READ_TIMEOUT"
	KeyHTTPWriteTimeout = "HTTP_WRITE_TIMEOUT"
	KeyHTTPRateLimit    = "HTTP_RATE_LIMIT"
	KeyHTTPRateBurst    = "HTTP_RATE_BURST"
	KeyDebugDir         = "DEBUG_DIR"
	KeyDefaultInterface = "DEFAULT_INTERFACE"
	KeyCodeTablesFile   = "CODE_TABLES_FILE"
)

// Config holds all settings
type Config struct {
	Log        LogConfig
	HTTP       HTTPConfig
	Conversion ConversionConfig
}

// LogConfig configures the global logger
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig configures the API server
type HTTPConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RateLimit is in requests per second; zero disables limiting
	RateLimit float64
	RateBurst int
}

// ConversionConfig configures the pipeline
type ConversionConfig struct {
	// DebugDir receives a copy of every intermediate invoice when set
	DebugDir         string
	DefaultInterface string
	// CodeTablesFile replaces the embedded unit and document tables
	CodeTablesFile string
}

// SetDefaults registers the default of every setting on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogOutput, "stderr")
	v.SetDefault(KeyHTTPAddress, ":8080")
	v.SetDefault(KeyHTTPReadTimeout, 30*time.Second)
	v.SetDefault(KeyHTTPWriteTimeout, 2*time.Minute)
	v.SetDefault(KeyHTTPRateLimit, 20)
	v.SetDefault(KeyHTTPRateBurst, 40)
	v.SetDefault(KeyDebugDir, "")
	v.SetDefault(KeyDefaultInterface, "")
	v.SetDefault(KeyCodeTablesFile, "")
}

// Load reads the settings into a Config. Variables from envFiles (".env"
// when none are given) are added to the environment without overriding
// it; missing files are ignored. A nil v selects a fresh viper instance.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if v == nil {
		v = viper.New()
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()
	SetDefaults(v)

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			Output: v.GetString(KeyLogOutput),
		},
		HTTP: HTTPConfig{
			Address:      v.GetString(KeyHTTPAddress),
			ReadTimeout:  v.GetDuration(KeyHTTPReadTimeout),
			WriteTimeout: v.GetDuration(KeyHTTPWriteTimeout),
			RateLimit:    v.GetFloat64(KeyHTTPRateLimit),
			RateBurst:    v.GetInt(KeyHTTPRateBurst),
		},
		Conversion: ConversionConfig{
			DebugDir:         v.GetString(KeyDebugDir),
			DefaultInterface: strings.ToUpper(strings.TrimSpace(v.GetString(KeyDefaultInterface))),
			CodeTablesFile:   v.GetString(KeyCodeTablesFile),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if code := c.Conversion.DefaultInterface; code != "" {
		if _, err := outbound.ProfileFor(code); err != nil {
			return fmt.Errorf("invalid %s: %w", KeyDefaultInterface, err)
		}
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("invalid %s: must not be negative", KeyHTTPRateLimit)
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst < 1 {
		return fmt.Errorf("invalid %s: must be at least 1 when rate limiting", KeyHTTPRateBurst)
	}
	return nil
}

// Logger returns the logger settings
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: c.Log.Output,
	}
}
