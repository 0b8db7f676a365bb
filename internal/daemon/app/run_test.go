package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cmdtray/cmdtray/internal/config"
	"github.com/cmdtray/cmdtray/internal/daemon/tray"
	"github.com/cmdtray/cmdtray/internal/logging"
	"github.com/cmdtray/cmdtray/internal/models"
)

func testOptions(t *testing.T) Options {
	dir := t.TempDir()
	return Options{
		SettingsPath: filepath.Join(dir, config.SettingsFileName),
		InstancePath: filepath.Join(dir, config.InstanceFileName),
		AboutPath:    filepath.Join(dir, config.AboutFileName),
		QuietPeriod:  testQuiet,
		Log:          logging.Options{File: filepath.Join(dir, config.LogsDirName, config.LogFileName)},
	}
}

func stubPlatform(t *testing.T, run func(onReady func(tray.Surface), onExit func()) error) *fatalRecorder {
	t.Helper()
	rec := &fatalRecorder{}
	prevRun, prevQuit, prevFatal := runTray, quitTray, newFatalHandler
	runTray = run
	quitTray = func() {}
	newFatalHandler = rec.handler
	t.Cleanup(func() {
		runTray, quitTray, newFatalHandler = prevRun, prevQuit, prevFatal
	})
	return rec
}

func TestRunSecondInstanceExitsEarly(t *testing.T) {
	opts := testOptions(t)
	if err := config.CreateYAML(opts.InstancePath, models.NewInstanceInfo(os.Getppid())); err != nil {
		t.Fatalf("CreateYAML() error = %v", err)
	}

	trayStarted := false
	stubPlatform(t, func(func(tray.Surface), func()) error {
		trayStarted = true
		return nil
	})

	if err := Run(opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if trayStarted {
		t.Errorf("second instance created a tray")
	}
	if fileExists(opts.SettingsPath) {
		t.Errorf("second instance touched the settings file")
	}
	if fileExists(filepath.Dir(opts.Log.File)) {
		t.Errorf("second instance created the log directory")
	}
}

func TestRunFirstInstance(t *testing.T) {
	opts := testOptions(t)
	surface := newFakeSurface()

	var lockHeld bool
	rec := stubPlatform(t, func(onReady func(tray.Surface), onExit func()) error {
		onReady(surface)
		lockHeld = fileExists(opts.InstancePath)
		onExit()
		return nil
	})

	if err := Run(opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rec.exitCode != -1 {
		t.Fatalf("fatal handler ran: %s", rec.message)
	}
	if !lockHeld {
		t.Errorf("instance lock not held while the tray was running")
	}
	if fileExists(opts.InstancePath) {
		t.Errorf("instance lock not released on exit")
	}
	if !fileExists(opts.SettingsPath) {
		t.Errorf("settings file not created")
	}
	if !fileExists(opts.Log.File) {
		t.Errorf("log file not written once the lock was held")
	}
	if len(surface.last()) != 4 {
		t.Errorf("menu = %q, want default command plus 3 actions", labels(surface.last()))
	}
}

func TestRunStartupFailureIsFatal(t *testing.T) {
	opts := testOptions(t)
	if err := os.WriteFile(opts.SettingsPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	rec := stubPlatform(t, func(onReady func(tray.Surface), onExit func()) error {
		onReady(newFakeSurface())
		return nil
	})

	if err := Run(opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rec.exitCode != 1 {
		t.Fatalf("exit code = %d, want 1", rec.exitCode)
	}
	if rec.title != fatalTitle || rec.clipboard == "" {
		t.Errorf("fatal error not surfaced: title %q clipboard %q", rec.title, rec.clipboard)
	}
	if fileExists(opts.InstancePath) {
		t.Errorf("instance lock not released before exit")
	}
}
