//go:build !windows

package dispatch

import (
	"os"
	"os/exec"
	"runtime"
	"syscall"
)

const fallbackShell = "/bin/sh"

// userShell returns the user's login shell, or /bin/sh.
func userShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return fallbackShell
}

func shellCommand(command string) *exec.Cmd {
	cmd := exec.Command(userShell(), "-c", command)
	// New session: the child survives the tray and gets no controlling terminal.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd
}

func openCommand(target string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		return exec.Command("open", target)
	}
	return exec.Command("xdg-open", target)
}
