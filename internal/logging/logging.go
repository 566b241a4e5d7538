// Package logging configures the process-wide zerolog logger.
package logging

import (
	"alcyxob/workout-tracker/internal/config"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a config string to a zerolog level. Unknown or empty values
// fall back to info.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup sets the global level and writer and returns the root logger. It also
// replaces log.Logger so package-level zerolog calls share the configuration.
func Setup(cfg config.LogConfig) zerolog.Logger {
	return setup(cfg, os.Stdout)
}

func setup(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(out).With().Timestamp().Str("service", "workout-tracker").Logger()
	log.Logger = logger
	return logger
}
