//go:build linux

package platform

import "focusos/internal/infrastructure/logging"

// NewNotifier creates a Notifier for Linux desktops using notify-send
func NewNotifier(logger logging.Logger) Notifier {
	return newCommandNotifier("notify-send", notifySendArgs, LogNotifier{Logger: logger})
}
