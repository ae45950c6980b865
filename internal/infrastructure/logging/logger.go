package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger interface for store and service operations
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// DefaultLogger writes structured JSON lines through log/slog
type DefaultLogger struct {
	handler slog.Handler
}

// NewDefaultLogger creates a logger writing JSON to stderr at info level
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, "info")
}

// NewLogger creates a JSON logger writing to w at the given level
// (debug, info, warn, error). Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				a.Key = "timestamp"
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339))
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	})
	return &DefaultLogger{handler: handler}
}

// ParseLevel maps a textual level onto slog levels
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fieldsToAttrs converts the variadic fields slice to slog attributes.
// Expected format: key1, value1, key2, value2, ...
func fieldsToAttrs(fields []interface{}) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields)/2+1)

	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("field_%d", i/2)
		}
		if i+1 >= len(fields) {
			// Odd number of fields, keep the dangling value under an index key
			attrs = append(attrs, slog.Any(fmt.Sprintf("field_%d", i/2), fields[i]))
			continue
		}
		value := fields[i+1]
		if err, isErr := value.(error); isErr && err != nil {
			value = err.Error()
		}
		attrs = append(attrs, slog.Any(key, value))
	}

	return attrs
}

func (l *DefaultLogger) log(level slog.Level, msg string, fields []interface{}) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}
	record := slog.NewRecord(time.Now(), level, msg, 0)
	record.AddAttrs(fieldsToAttrs(fields)...)
	_ = l.handler.Handle(ctx, record)
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.log(slog.LevelDebug, msg, fields)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.log(slog.LevelInfo, msg, fields)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.log(slog.LevelWarn, msg, fields)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.log(slog.LevelError, msg, fields)
}

// ClassifiedError is implemented by store errors (kept as an interface to avoid circular imports)
type ClassifiedError interface {
	Error() string
	GetCode() string
	IsRetryable() bool
	GetContext() map[string]string
	GetTimestamp() time.Time
}

// LogError logs a failed operation with the error classification when available
func LogError(logger Logger, err error, operation string, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	fields := []interface{}{"operation", operation}

	if classified, ok := err.(ClassifiedError); ok {
		fields = append(fields,
			"error_code", classified.GetCode(),
			"retryable", classified.IsRetryable(),
			"timestamp", classified.GetTimestamp(),
		)
		for k, v := range classified.GetContext() {
			fields = append(fields, k, v)
		}
		for k, v := range context {
			fields = append(fields, k, v)
		}
		logger.Error(fmt.Sprintf("Store error: %s", err.Error()), fields...)
		return
	}

	fields = append(fields, "error_type", fmt.Sprintf("%T", err))
	for k, v := range context {
		fields = append(fields, k, v)
	}
	logger.Error(fmt.Sprintf("Unexpected error: %s", err.Error()), fields...)
}

// LogOperation logs a successful operation with its duration
func LogOperation(logger Logger, operation string, duration time.Duration, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	fields := []interface{}{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}
	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Debug(fmt.Sprintf("Operation completed: %s", operation), fields...)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
