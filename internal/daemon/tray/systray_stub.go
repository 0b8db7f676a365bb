//go:build !cgo && !windows

package tray

import "errors"

// Run returns an error: the system tray needs cgo on this platform.
func Run(onReady func(Surface), onExit func()) error {
	return errors.New("system tray is unavailable without cgo support")
}

// Quit is a no-op without a tray.
func Quit() {}
