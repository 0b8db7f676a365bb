//go:build !windows

package config

import (
	"errors"
	"os"
	"syscall"
)

// processAlive checks whether pid is running using kill -0.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	// EPERM means the process exists but belongs to someone else.
	return err == nil || errors.Is(err, syscall.EPERM)
}
