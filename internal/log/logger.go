// Package log wraps log/slog with component-scoped loggers and the shared
// field vocabulary of the ledger system.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Logger is a slog.Logger bound to one component. Every record it emits
// carries the component field.
type Logger struct {
	*slog.Logger
	component string
}

// Config holds logger construction options.
type Config struct {
	Level   slog.Level
	Handler slog.Handler
}

// DefaultConfig returns info-level text logging on stdout.
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo}
}

// New creates a logger bound to the app component. A nil Handler falls
// back to a text handler on stdout at the configured level.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}
	return &Logger{
		Logger:    slog.New(handler),
		component: ComponentApp,
	}
}

// WithComponent returns a logger bound to the given component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger,
		component: component,
	}
}

// InfoContext logs at info level with the component field attached.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Logger.InfoContext(ctx, msg, append([]any{FieldComponent, l.component}, args...)...)
}

// ErrorContext logs at error level with the component field attached.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, append([]any{FieldComponent, l.component}, args...)...)
}
