// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "trading-diary", "logs", "diary.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// ContextKey is the type for context keys.
type ContextKey string

// LoggerKey is the context key for the logger.
const LoggerKey ContextKey = "logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithUser adds a user ID to the logger context.
func WithUser(logger zerolog.Logger, userID string) zerolog.Logger {
	return logger.With().Str("user_id", userID).Logger()
}

// LogTradeSaved logs a persisted trade.
func LogTradeSaved(logger zerolog.Logger, tradeID, symbol string, pnl float64) {
	logger.Info().
		Str("event", "trade_saved").
		Str("trade_id", tradeID).
		Str("symbol", symbol).
		Float64("pnl", pnl).
		Msg("Trade saved")
}

// LogTradeRecreated logs the compensating create taken when an update target
// was missing.
func LogTradeRecreated(logger zerolog.Logger, oldID, newID string) {
	logger.Warn().
		Str("event", "trade_recreated").
		Str("old_id", oldID).
		Str("new_id", newID).
		Msg("Update target missing, trade recreated under new ID")
}

// LogChallengeArchived logs a milestone rollover.
func LogChallengeArchived(logger zerolog.Logger, oldID, newID string, target float64) {
	logger.Info().
		Str("event", "challenge_archived").
		Str("archived_id", oldID).
		Str("next_id", newID).
		Float64("next_target", target).
		Msg("Challenge archived")
}

// LogCoachCall logs an LLM coach invocation.
func LogCoachCall(logger zerolog.Logger, model string, trades int, duration time.Duration, err error) {
	event := logger.Debug().
		Str("event", "coach_call").
		Str("model", model).
		Int("trades", trades).
		Dur("duration", duration)

	if err != nil {
		event.Err(err).Msg("Coach call failed")
	} else {
		event.Msg("Coach call completed")
	}
}
