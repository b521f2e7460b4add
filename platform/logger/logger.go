// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ActorKey is the context key for the acting administrator
	ActorKey contextKey = "actor"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and actor from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("request_id", requestID)),
		}
	}

	if actor, ok := ctx.Value(ActorKey).(string); ok && actor != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("actor", actor)),
		}
	}

	return newLogger
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// ConfigFallback logs that a stored rules configuration could not be used
// and compiled-in defaults were served instead.
func (l *Logger) ConfigFallback(reason string, err error) {
	if err != nil {
		l.Warn("rules_config_fallback",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Warn("rules_config_fallback", slog.String("reason", reason))
}

// AuditWriteFailed logs a swallowed change-history write failure.
func (l *Logger) AuditWriteFailed(section string, err error) {
	l.Error("rules_history_write_failed",
		slog.String("section", section),
		slog.String("error", err.Error()),
	)
}

// RulesUpdated logs a successful administrator rules write.
func (l *Logger) RulesUpdated(action string, sections []string) {
	l.Info("rules_updated",
		slog.String("action", action),
		slog.Any("sections", sections),
	)
}
