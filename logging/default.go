package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
)

// DefaultLogger writes through the standard log package.
// Debug/Info go to the out writer, Warn/Error/Fatal to the err writer,
// colored when the output is a terminal.
type DefaultLogger struct {
	out       *log.Logger
	err       *log.Logger
	level     *Level // shared with derived loggers
	fields    Fields
	useColors bool
}

// NewDefaultLogger creates a logger on stdout/stderr
func NewDefaultLogger() *DefaultLogger {
	l := NewWriterLogger(os.Stdout, os.Stderr)
	l.useColors = isTerminal(os.Stdout)
	return l
}

// NewDefaultLoggerNoColor creates a logger on stdout/stderr without colors
func NewDefaultLoggerNoColor() *DefaultLogger {
	return NewWriterLogger(os.Stdout, os.Stderr)
}

// NewWriterLogger creates an uncolored logger on arbitrary writers
func NewWriterLogger(out, errOut io.Writer) *DefaultLogger {
	level := InfoLevel
	return &DefaultLogger{
		out:    log.New(out, "", log.LstdFlags),
		err:    log.New(errOut, "", log.LstdFlags),
		level:  &level,
		fields: make(Fields),
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil || info == nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// formatFields renders fields as key=value pairs in key order
func formatFields(fields Fields) string {
	keys := slices.Sorted(maps.Keys(fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}

func (d *DefaultLogger) formatMessage(level Level, err error, msg string, fields ...Fields) string {
	all := make(Fields, len(d.fields))
	maps.Copy(all, d.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	sb.WriteString(msg)
	if err != nil {
		sb.WriteString(": ")
		sb.WriteString(err.Error())
	}
	if len(all) > 0 {
		sb.WriteString(" ")
		sb.WriteString(formatFields(all))
	}

	line := sb.String()
	if d.useColors {
		switch level {
		case WarnLevel:
			line = ColorYellow + line + ColorReset
		case ErrorLevel:
			line = ColorRed + line + ColorReset
		case FatalLevel:
			line = ColorBold + ColorRed + line + ColorReset
		}
	}
	return line
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < *d.level {
		return
	}

	line := d.formatMessage(level, err, msg, fields...)
	switch level {
	case DebugLevel, InfoLevel:
		d.out.Println(line)
	case WarnLevel, ErrorLevel:
		d.err.Println(line)
	case FatalLevel:
		d.err.Println(line)
		os.Exit(1)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(d.fields)+len(fields))
	maps.Copy(merged, d.fields)
	maps.Copy(merged, fields)

	return &DefaultLogger{
		out:       d.out,
		err:       d.err,
		level:     d.level,
		fields:    merged,
		useColors: d.useColors,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

// SetLevel changes the level of this logger and every logger derived from
// it with WithFields
func (d *DefaultLogger) SetLevel(level Level) {
	*d.level = level
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
