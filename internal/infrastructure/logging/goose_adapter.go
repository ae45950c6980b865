package logging

import (
	"fmt"
	"strings"
)

// GooseLogger adapts Logger to the goose migration logger interface
type GooseLogger struct {
	logger Logger
}

// NewGooseLogger wraps logger for goose.SetLogger
func NewGooseLogger(logger Logger) *GooseLogger {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &GooseLogger{logger: logger}
}

// Printf logs goose progress output at info level
func (g *GooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

// Fatalf logs at error level. Migration failures are returned as errors by
// goose, so this never exits the process.
func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}
