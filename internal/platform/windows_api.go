//go:build windows

package platform

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"

	"focusos/internal/infrastructure/logging"
)

// WindowsNotifier shows notifications as a non-blocking message box
type WindowsNotifier struct {
	logger logging.Logger
}

// NewNotifier creates a Notifier for Windows
func NewNotifier(logger logging.Logger) Notifier {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &WindowsNotifier{logger: logger}
}

// Notify shows n without waiting for the user to dismiss it
func (w *WindowsNotifier) Notify(_ context.Context, n Notification) error {
	title, err := windows.UTF16PtrFromString(n.Title)
	if err != nil {
		return fmt.Errorf("invalid notification title: %w", err)
	}
	message, err := windows.UTF16PtrFromString(n.Message)
	if err != nil {
		return fmt.Errorf("invalid notification message: %w", err)
	}

	go func() {
		flags := uint32(windows.MB_OK | windows.MB_ICONINFORMATION | windows.MB_SETFOREGROUND | windows.MB_TOPMOST)
		if _, err := windows.MessageBox(0, message, title, flags); err != nil {
			w.logger.Warn("MessageBox failed", "error", err)
		}
	}()
	return nil
}
