// Package logger provides component-tagged structured logging over log/slog.
// All output goes to stderr; stdout is reserved for user-facing CLI output.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	handler *slog.Logger
)

func init() {
	handler = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// SetVerbose raises the log level to Debug when v is true, Info otherwise.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	if v {
		level = slog.LevelDebug
	}
	handler = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return handler
}

func attrs(component string, fields map[string]interface{}) []any {
	out := make([]any, 0, 2+2*len(fields))
	out = append(out, "component", component)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

// InfoCF logs an info-level message tagged with a component name and fields.
func InfoCF(component, message string, fields map[string]interface{}) {
	current().Info(message, attrs(component, fields)...)
}

// WarnCF logs a warn-level message tagged with a component name and fields.
func WarnCF(component, message string, fields map[string]interface{}) {
	current().Warn(message, attrs(component, fields)...)
}

// ErrorCF logs an error-level message tagged with a component name and fields.
func ErrorCF(component, message string, fields map[string]interface{}) {
	current().Error(message, attrs(component, fields)...)
}

// DebugCF logs a debug-level message tagged with a component name and fields.
func DebugCF(component, message string, fields map[string]interface{}) {
	current().Debug(message, attrs(component, fields)...)
}

// Info logs an info-level message with no component tag.
func Info(message string) {
	current().Info(message)
}

// Warn logs a warn-level message with no component tag.
func Warn(message string) {
	current().Warn(message)
}

// Error logs an error-level message with no component tag.
func Error(message string) {
	current().Error(message)
}
