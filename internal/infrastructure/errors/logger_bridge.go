package errors

import (
	"fmt"

	"focusos/internal/infrastructure/logging"
)

// LoggerBridge adapts the logging.Logger interface to RetryLogger
type LoggerBridge struct {
	logger logging.Logger
}

// NewLoggerBridge creates a new bridge from logging.Logger to RetryLogger
func NewLoggerBridge(logger logging.Logger) RetryLogger {
	return &LoggerBridge{logger: logger}
}

// Printf formats the retry message and logs it at warn level
func (b *LoggerBridge) Printf(format string, v ...interface{}) {
	if b.logger != nil {
		b.logger.Warn(fmt.Sprintf(format, v...), "component", "retry")
	}
}

// SetDefaultRetryLogger routes retry messages to logger
func SetDefaultRetryLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	SetRetryLogger(NewLoggerBridge(logger))
}
