//go:build darwin

package platform

import "focusos/internal/infrastructure/logging"

// NewNotifier creates a Notifier for macOS using osascript
func NewNotifier(logger logging.Logger) Notifier {
	return newCommandNotifier("osascript", osascriptArgs, LogNotifier{Logger: logger})
}
