package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the process-wide logger. Level is one of
// debug/info/warn/error; pretty switches to human-readable console output.
func Init(level string, pretty bool) {
	lvl := parseLevel(level)

	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	}

	mu.Lock()
	log = l
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// DebugCF logs a debug message for a component with optional fields.
func DebugCF(component, msg string, fields map[string]interface{}) {
	l := current()
	emit(l.Debug(), component, msg, fields)
}

// InfoCF logs an info message for a component with optional fields.
func InfoCF(component, msg string, fields map[string]interface{}) {
	l := current()
	emit(l.Info(), component, msg, fields)
}

// WarnCF logs a warning for a component with optional fields.
func WarnCF(component, msg string, fields map[string]interface{}) {
	l := current()
	emit(l.Warn(), component, msg, fields)
}

// ErrorCF logs an error for a component with optional fields.
func ErrorCF(component, msg string, fields map[string]interface{}) {
	l := current()
	emit(l.Error(), component, msg, fields)
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func emit(e *zerolog.Event, component, msg string, fields map[string]interface{}) {
	e = e.Str("component", component)
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Msg(msg)
}
