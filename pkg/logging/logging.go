// Package logging provides structured, context-aware logging for the SDK.
//
// The default logger writes human-readable console output. Set
// LOG_FORMAT=json (or LOG_JSON=true) to switch to JSON output, and LOG_LEVEL
// to control verbosity (debug, info, warn, error).
package logging

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used throughout the SDK
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
}

type zerologLogger struct {
	logger zerolog.Logger
}

// New creates a logger configured from the environment
func New() Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var logger zerolog.Logger
	if jsonEnabled() {
		logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}

	return &zerologLogger{logger: logger}
}

func jsonEnabled() bool {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		return true
	}
	switch strings.ToLower(os.Getenv("LOG_JSON")) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func (l *zerologLogger) log(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Debug logs a message at debug level
func (l *zerologLogger) Debug(_ context.Context, msg string, fields map[string]interface{}) {
	l.log(l.logger.Debug(), msg, fields)
}

// Info logs a message at info level
func (l *zerologLogger) Info(_ context.Context, msg string, fields map[string]interface{}) {
	l.log(l.logger.Info(), msg, fields)
}

// Warn logs a message at warn level
func (l *zerologLogger) Warn(_ context.Context, msg string, fields map[string]interface{}) {
	l.log(l.logger.Warn(), msg, fields)
}

// Error logs a message at error level
func (l *zerologLogger) Error(_ context.Context, msg string, fields map[string]interface{}) {
	l.log(l.logger.Error(), msg, fields)
}

type noopLogger struct{}

// NoOp returns a logger that discards everything. Useful in tests.
func NoOp() Logger { return noopLogger{} }

func (noopLogger) Debug(context.Context, string, map[string]interface{}) {}
func (noopLogger) Info(context.Context, string, map[string]interface{})  {}
func (noopLogger) Warn(context.Context, string, map[string]interface{})  {}
func (noopLogger) Error(context.Context, string, map[string]interface{}) {}
