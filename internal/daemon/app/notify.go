package app

import "github.com/gen2brain/beeep"

// Notifier shows a non-blocking desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier uses the platform notification service.
type DesktopNotifier struct{}

// Notify shows an alert-style notification.
func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Alert(title, message, "")
}
