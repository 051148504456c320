// Package config loads CLI settings from flags, environment and an optional
// YAML file.
//
// Precedence, highest first: command-line flag, DATESEARCH_* environment
// variable, config file, default.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DATESEARCH_DATABASE.
const EnvPrefix = "DATESEARCH"

// Keys recognized in config files and the environment.
const (
	KeyDatabase  = "database"
	KeyFormat    = "format"
	KeyVerbose   = "verbose"
	KeyNow       = "now"
	KeyLogFormat = "log_format"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// LogFormats lists the accepted log handler formats.
var LogFormats = []string{"text", "json"}

// Config holds resolved settings.
type Config struct {
	// Database is the SQLite file used by import and search.
	Database string `mapstructure:"database"`

	// Format is the output format, text or json.
	Format string `mapstructure:"format"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	// Now overrides the evaluation instant (RFC 3339). Empty means wall clock.
	Now string `mapstructure:"now"`

	// LogFormat selects the slog handler, text or json.
	LogFormat string `mapstructure:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:  "datesearch.db",
		Format:    "text",
		LogFormat: "text",
	}
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyDatabase, d.Database)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyNow, d.Now)
	v.SetDefault(KeyLogFormat, d.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and returns the
// validated result. An empty path skips the file.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config file not found: %s", path)
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and the now override.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, Formats)
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.LogFormat, LogFormats)
	}
	if _, _, err := c.NowTime(); err != nil {
		return err
	}
	return nil
}

// NowTime parses the now override. ok is false when no override is set.
func (c Config) NowTime() (t time.Time, ok bool, err error) {
	if c.Now == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.RFC3339Nano, c.Now)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid now %q: %w", c.Now, err)
	}
	return t.UTC(), true, nil
}

// Logger builds a slog logger writing to w. Verbose lowers the level to Debug.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
