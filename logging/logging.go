package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"
)

// Level represents log levels
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel reads a level name such as "debug" or "WARN"
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO", "":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Fields represents structured logging fields
type Fields map[string]any

// Logger defines the interface that the library expects for logging
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	Fatal(err error, msg string, fields ...Fields)

	// WithFields returns a logger with preset fields
	WithFields(fields Fields) Logger

	// WithContext returns a logger carrying the fields stored in ctx
	WithContext(ctx context.Context) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)
}

type contextKey struct{}

// ContextWithFields stores fields for WithContext to pick up, merged over
// any fields already in ctx
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	merged := make(Fields)
	if existing, ok := ctx.Value(contextKey{}).(Fields); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, contextKey{}, merged)
}

// FieldsFromContext returns the fields stored by ContextWithFields
func FieldsFromContext(ctx context.Context) (Fields, bool) {
	if ctx == nil {
		return nil, false
	}
	f, ok := ctx.Value(contextKey{}).(Fields)
	return f, ok
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewDefaultLogger()
)

// SetGlobalLogger sets the global logger instance. A nil logger silences
// the library.
func SetGlobalLogger(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if logger == nil {
		globalLogger = &NoOpLogger{}
	} else {
		globalLogger = logger
	}
}

// GetGlobalLogger returns the current global logger
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Package-level logging functions that use the global logger
func Debug(msg string, fields ...Fields) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...Fields) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...Fields) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(err error, msg string, fields ...Fields) {
	GetGlobalLogger().Error(err, msg, fields...)
}

func Fatal(err error, msg string, fields ...Fields) {
	GetGlobalLogger().Fatal(err, msg, fields...)
}

func WithFields(fields Fields) Logger {
	return GetGlobalLogger().WithFields(fields)
}

func WithContext(ctx context.Context) Logger {
	return GetGlobalLogger().WithContext(ctx)
}

func SetLevel(level Level) {
	GetGlobalLogger().SetLevel(level)
}

// DisableColors globally disables color output for the default logger
func DisableColors() {
	if defaultLogger, ok := GetGlobalLogger().(*DefaultLogger); ok {
		defaultLogger.useColors = false
	}
}

// EnableColors globally enables color output for the default logger
func EnableColors() {
	if defaultLogger, ok := GetGlobalLogger().(*DefaultLogger); ok {
		defaultLogger.useColors = true
	}
}
