// Package dispatch starts shell commands and desktop handlers without waiting
// for them.
package dispatch

import (
	"errors"
	"fmt"
	"log"
	"os/exec"

	"github.com/cmdtray/cmdtray/internal/logging"
)

// Launch runs command through the platform shell as a detached background
// process. It returns once the process has started; exit status and output
// are never observed.
func Launch(command string) error {
	if command == "" {
		return errors.New("empty command")
	}

	cmd := shellCommand(command)
	if err := start(cmd); err != nil {
		return fmt.Errorf("failed to launch %q: %w", command, err)
	}
	logging.Debugf("launched %q (pid %d)", command, cmd.Process.Pid)
	return nil
}

// Open hands target (a file path or URL) to the desktop's default handler.
func Open(target string) error {
	if target == "" {
		return errors.New("empty target")
	}
	if err := start(openCommand(target)); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

func start(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}

	// Reap the child so it does not linger as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Debugf("%s exited: %v", cmd.Path, err)
		}
	}()
	return nil
}

// LaunchAndLog launches command and logs a failure to start. Failures are
// not reported to the user.
func LaunchAndLog(command string) {
	if err := Launch(command); err != nil {
		log.Printf("Command dispatch failed: %v", err)
	}
}
