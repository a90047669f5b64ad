// Package notify sends desktop notifications
package notify

import (
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Notifier provides a generic interface for sending notifications
type Notifier interface {
	Notify(title string, message string)
}

// ToastNotifier sends native desktop notifications (toasts on windows, libnotify/dbus on linux)
type ToastNotifier struct {
	logger *zap.SugaredLogger
}

// NopNotifier drops every notification, used when notifications are disabled in the config
type NopNotifier struct{}

// NewToastNotifier creates a ToastNotifier
func NewToastNotifier(logger *zap.SugaredLogger) (*ToastNotifier, error) {
	logger = logger.Named("notifier")
	tn := &ToastNotifier{logger: logger}

	logger.Debug("Created toast notifier instance")

	return tn, nil
}

// Notify sends a notification, logging rather than returning any failure
func (tn *ToastNotifier) Notify(title string, message string) {
	tn.logger.Infow("Sending toast notification", "title", title, "message", message)

	if err := beeep.Notify(title, message, ""); err != nil {
		tn.logger.Errorw("Failed to send toast notification", "error", err)
	}
}

func (NopNotifier) Notify(string, string) {}
