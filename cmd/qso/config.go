package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	cenv "github.com/caarlos0/env/v11"
	"github.com/lmittmann/tint"
)

// Config holds the defaults read from the environment. Flags override them.
type Config struct {
	// Strict fails encoding on values with no String Object form.
	Strict bool `env:"QSO_STRICT" envDefault:"false"`
	// Prefix nests every encoded key below it.
	Prefix string `env:"QSO_PREFIX"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"QSO_LOG_LEVEL" envDefault:"warn"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := cenv.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load environment configuration: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
