//go:build !linux && !darwin && !windows

package platform

import "focusos/internal/infrastructure/logging"

// NewNotifier logs notifications on platforms without a desktop integration
func NewNotifier(logger logging.Logger) Notifier {
	return LogNotifier{Logger: logger}
}
