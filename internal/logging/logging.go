// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls where log lines go and how the file sink rotates.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the stock configuration: info level, console
// plus a rotated file under the user config directory.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "staymate", "logs", "staymate.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

var levelTags = map[string]string{
	"debug": "\033[36mDBG\033[0m",
	"info":  "\033[32mINF\033[0m",
	"warn":  "\033[33mWRN\033[0m",
	"error": "\033[31mERR\033[0m",
}

// NewLoggerWithConfig builds the logger. An unparseable level falls back
// to info; a file sink that cannot be created is silently skipped so the
// CLI still works from read-only homes.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var sinks []io.Writer
	if cfg.Console {
		sinks = append(sinks, consoleSink())
	}
	if cfg.File {
		if fw := fileSink(cfg); fw != nil {
			sinks = append(sinks, fw)
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer
	switch len(sinks) {
	case 0:
		out = os.Stderr
	case 1:
		out = sinks[0]
	default:
		out = zerolog.MultiLevelWriter(sinks...)
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func consoleSink() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if s, ok := i.(string); ok {
				if tag, ok := levelTags[s]; ok {
					return tag
				}
				return s
			}
			return "???"
		},
	}
}

func fileSink(cfg LogConfig) io.Writer {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
}

// SetDebugLevel raises the global log level to debug, for --verbose.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithOperation tags every line from the returned logger with an
// operation name.
func WithOperation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}

// LogPollCycle records one notification poll cycle. Skipped cycles log
// at warn so they surface at the default level.
func LogPollCycle(logger zerolog.Logger, cycleID string, bookings, events int, duration time.Duration, err error) {
	line := logger.Debug()
	if err != nil {
		line = logger.Warn()
	}
	line = line.
		Str("event", "poll_cycle").
		Str("cycle_id", cycleID).
		Int("bookings", bookings).
		Int("events", events).
		Dur("duration", duration)
	if err != nil {
		line.Err(err).Msg("Poll cycle skipped")
		return
	}
	line.Msg("Poll cycle completed")
}

// LogAPICall records a backend request at debug level.
func LogAPICall(logger zerolog.Logger, method, endpoint string, duration time.Duration, err error) {
	line := logger.Debug().
		Str("event", "api_call").
		Str("method", method).
		Str("endpoint", endpoint).
		Dur("duration", duration)
	if err != nil {
		line.Err(err).Msg("API call failed")
		return
	}
	line.Msg("API call completed")
}
