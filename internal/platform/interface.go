package platform

import (
	"context"

	"focusos/internal/infrastructure/logging"
)

// Notification is a basic OS-level notification
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier defines the interface for platform-specific desktop notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log instead of the desktop.
// Used on headless systems and when no notification tool is installed.
type LogNotifier struct {
	Logger logging.Logger
}

// Notify logs n at info level
func (l LogNotifier) Notify(_ context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	logger.Info("Notification", "title", n.Title, "message", n.Message)
	return nil
}
