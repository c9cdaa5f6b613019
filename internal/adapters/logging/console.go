// Package logging provides logger adapters.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// Severity prefixes for console output. The provisioning run is usually
// watched from a terminal piped through curl|sh, so the prefixes stay
// short and grep-friendly.
var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleFatal = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func prefix(level ports.Level) string {
	switch level {
	case ports.LevelDebug:
		return styleDebug.Render("[debug]")
	case ports.LevelInfo:
		return styleInfo.Render("[+]")
	case ports.LevelWarn:
		return styleWarn.Render("[WARN]")
	case ports.LevelError:
		return styleFatal.Render("[FATAL]")
	default:
		return "[?]"
	}
}

// ConsoleLogger logs structured messages to the console.
type ConsoleLogger struct {
	mu          sync.Mutex
	out         io.Writer
	level       ports.Level
	fields      []ports.Field
	jsonFormat  bool
	includeTime bool
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.level = level
	}
}

// WithJSONFormat enables JSON output format.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.jsonFormat = enabled
	}
}

// WithTimestamp includes timestamp in log entries.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.includeTime = enabled
	}
}

// NewConsoleLogger creates a new console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:   os.Stderr,
		level: ports.LevelInfo,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a new logger with additional fields.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	newFields := make([]ports.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &ConsoleLogger{
		out:         l.out,
		level:       l.level,
		fields:      newFields,
		jsonFormat:  l.jsonFormat,
		includeTime: l.includeTime,
	}
}

// Level returns the minimum log level.
func (l *ConsoleLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all := make([]ports.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	if l.jsonFormat {
		l.logJSON(level, msg, all)
		return
	}
	l.logText(level, msg, all)
}

func (l *ConsoleLogger) logText(level ports.Level, msg string, fields []ports.Field) {
	if l.includeTime {
		fmt.Fprintf(l.out, "%s ", time.Now().Format(time.RFC3339))
	}
	fmt.Fprintf(l.out, "%s %s", prefix(level), msg)
	for _, f := range fields {
		fmt.Fprintf(l.out, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(l.out)
}

func (l *ConsoleLogger) logJSON(level ports.Level, msg string, fields []ports.Field) {
	entry := map[string]interface{}{
		"level":   level.String(),
		"message": msg,
	}
	if l.includeTime {
		entry["time"] = time.Now().Format(time.RFC3339)
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out, "%s %s\n", prefix(level), msg)
		return
	}
	fmt.Fprintln(l.out, string(data))
}

// Ensure ConsoleLogger implements ports.Logger.
var _ ports.Logger = (*ConsoleLogger)(nil)
