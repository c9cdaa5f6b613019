package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// LogEntry records one logged message.
type LogEntry struct {
	Level   ports.Level
	Message string
	Fields  []ports.Field
}

// Logger is a recording test double for ports.Logger.
type Logger struct {
	mu      sync.RWMutex
	level   ports.Level
	entries []LogEntry
}

// NewLogger creates a recording Logger mock.
func NewLogger() *Logger {
	return &Logger{level: ports.LevelDebug}
}

func (m *Logger) record(level ports.Level, msg string, fields []ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Debug records a debug message.
func (m *Logger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	m.record(ports.LevelDebug, msg, fields)
}

// Info records an info message.
func (m *Logger) Info(_ context.Context, msg string, fields ...ports.Field) {
	m.record(ports.LevelInfo, msg, fields)
}

// Warn records a warning message.
func (m *Logger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	m.record(ports.LevelWarn, msg, fields)
}

// Error records an error message.
func (m *Logger) Error(_ context.Context, msg string, fields ...ports.Field) {
	m.record(ports.LevelError, msg, fields)
}

// With returns the same recorder; field scoping is not modeled.
func (m *Logger) With(_ ...ports.Field) ports.Logger {
	return m
}

// Level returns the minimum log level.
func (m *Logger) Level() ports.Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

// SetLevel sets the minimum log level.
func (m *Logger) SetLevel(level ports.Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// Entries returns all recorded entries.
func (m *Logger) Entries() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]LogEntry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// HasMessage reports whether a message at the given level contains substr.
func (m *Logger) HasMessage(level ports.Level, substr string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Ensure Logger implements ports.Logger.
var _ ports.Logger = (*Logger)(nil)
