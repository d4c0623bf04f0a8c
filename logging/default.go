package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"sort"
	"strings"
)

// DefaultLogger writes human-readable lines through Go's standard log
// package. Debug and Info go to the out writer, Warn and above to the
// err writer, colored when attached to a terminal. Fields are rendered
// as sorted key=value pairs so lines are stable across runs.
type DefaultLogger struct {
	out       *log.Logger
	err       *log.Logger
	level     Level
	fields    Fields
	useColors bool
}

// NewDefaultLogger creates a logger on stdout/stderr with colored
// output when stdout is a terminal.
func NewDefaultLogger() *DefaultLogger {
	l := NewDefaultLoggerTo(os.Stdout, os.Stderr)
	l.useColors = isTerminal()
	return l
}

// NewDefaultLoggerTo creates a logger on arbitrary writers, without
// colors. Both streams may be the same writer.
func NewDefaultLoggerTo(out, errOut io.Writer) *DefaultLogger {
	return &DefaultLogger{
		out:    log.New(out, "", log.LstdFlags),
		err:    log.New(errOut, "", log.LstdFlags),
		level:  InfoLevel,
		fields: make(Fields),
	}
}

// NewDefaultLoggerNoColor creates a stdout/stderr logger without
// colored output.
func NewDefaultLoggerNoColor() *DefaultLogger {
	return NewDefaultLoggerTo(os.Stdout, os.Stderr)
}

// isTerminal checks if stdout is attached to a character device
func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (d *DefaultLogger) formatMessage(level Level, err error, msg string, fields ...Fields) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level.String(), msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}

	merged := make(Fields, len(d.fields))
	maps.Copy(merged, d.fields)
	for _, f := range fields {
		maps.Copy(merged, f)
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, merged[k])
	}

	line := b.String()
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
	if level < d.level {
		return
	}

	line := d.formatMessage(level, err, msg, fields...)
	if level >= WarnLevel {
		d.err.Println(line)
	} else {
		d.out.Println(line)
	}
	if level == FatalLevel {
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
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}

// NoOpLogger discards everything; install it to silence the library.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
