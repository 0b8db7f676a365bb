//go:build windows

package dispatch

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// comspec returns the command interpreter, normally cmd.exe.
func comspec() string {
	if sh := os.Getenv("ComSpec"); sh != "" {
		return sh
	}
	return "cmd.exe"
}

func shellCommand(command string) *exec.Cmd {
	sh := comspec()
	cmd := exec.Command(sh)
	// cmd.exe does its own parsing, so pass the line through unquoted.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       `"` + sh + `" /C ` + command,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
	return cmd
}

func openCommand(target string) *exec.Cmd {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
}
