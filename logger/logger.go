// Package logger provides the zerolog-based structured logger used across
// Reelpick. JSON output in production, pretty console output in development.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Init configures the global logger. Call once at startup before any logging.
func Init(env string, debug bool) {
	level := zerolog.InfoLevel
	if debug || env == "development" {
		level = zerolog.DebugLevel
	}

	var out = zerolog.New(os.Stdout)
	if env == "development" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	log = out.Level(level).With().Timestamp().Logger()
}

// Logger returns the configured logger.
func Logger() zerolog.Logger {
	return log
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
