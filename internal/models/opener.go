package models

import "runtime"

// OpenURLCommand returns a shell command that opens target with the
// desktop's default handler.
func OpenURLCommand(target string) string {
	switch runtime.GOOS {
	case "windows":
		return `start "" "` + target + `"`
	case "darwin":
		return `open "` + target + `"`
	default:
		return `xdg-open "` + target + `"`
	}
}
