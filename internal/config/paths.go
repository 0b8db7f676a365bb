// Package config handles settings loading, the instance lock, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the name of the per-user cmdtray directory.
	AppDirName = "cmdtray"

	// LogsDirName is the name of the logs directory.
	LogsDirName = "logs"
)

// File names
const (
	SettingsFileName = "settings.json"
	InstanceFileName = "instance.yaml"
	LogFileName      = "cmdtray.log"
	AboutFileName    = "about.html"
)

// AppDir returns the per-user application data directory
// (e.g. ~/.config/cmdtray, %AppData%\cmdtray).
func AppDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

// SettingsFile returns the path to the settings.json file.
func SettingsFile() (string, error) {
	return inAppDir(SettingsFileName)
}

// InstanceFile returns the path to the instance.yaml lock file.
func InstanceFile() (string, error) {
	return inAppDir(InstanceFileName)
}

// LogFile returns the path to the rotating log file.
func LogFile() (string, error) {
	return inAppDir(filepath.Join(LogsDirName, LogFileName))
}

// AboutFile returns the path the About page is rendered to.
func AboutFile() (string, error) {
	return inAppDir(AboutFileName)
}

func inAppDir(name string) (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
