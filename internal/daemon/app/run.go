package app

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmdtray/cmdtray/internal/config"
	"github.com/cmdtray/cmdtray/internal/daemon/about"
	"github.com/cmdtray/cmdtray/internal/daemon/dispatch"
	"github.com/cmdtray/cmdtray/internal/daemon/tray"
	"github.com/cmdtray/cmdtray/internal/daemon/watcher"
	"github.com/cmdtray/cmdtray/internal/logging"
)

// Options locate the files the running tray uses.
type Options struct {
	SettingsPath string
	InstancePath string
	AboutPath    string
	QuietPeriod  time.Duration

	// Log is applied once the instance lock is held, so a second instance
	// never opens the log file.
	Log logging.Options
}

// DefaultOptions returns options pointing into the per-user app directory.
func DefaultOptions() (Options, error) {
	settings, err := config.SettingsFile()
	if err != nil {
		return Options{}, err
	}
	instance, err := config.InstanceFile()
	if err != nil {
		return Options{}, err
	}
	aboutPath, err := config.AboutFile()
	if err != nil {
		return Options{}, err
	}
	return Options{
		SettingsPath: settings,
		InstancePath: instance,
		AboutPath:    aboutPath,
		QuietPeriod:  watcher.DefaultQuietPeriod,
	}, nil
}

// Platform entry points, replaced in tests.
var (
	runTray         = tray.Run
	quitTray        = tray.Quit
	newFatalHandler = NewFatalHandler
)

// Run takes the single instance lock and runs the tray until Quit. A second
// instance returns immediately without touching the tray or settings.
// This blocks the calling goroutine (must be main).
func Run(opts Options) error {
	lock, holder, err := config.AcquireInstanceLock(opts.InstancePath)
	if errors.Is(err, config.ErrAlreadyRunning) {
		if holder != nil {
			log.Printf("cmdtray already running (PID %d), exiting", holder.PID)
		} else {
			log.Printf("cmdtray already running, exiting")
		}
		return nil
	}

	if err == nil && opts.Log.File != "" {
		closer := logging.Setup(opts.Log)
		defer closer.Close()
	}

	fatal := newFatalHandler()
	if err != nil {
		fatal.Handle(err)
		return err
	}
	release := func() {
		if err := lock.Release(); err != nil {
			log.Printf("Failed to release instance lock: %v", err)
		}
	}
	defer release()
	fatal.OnExit(release)

	deps := Deps{
		Notifier:  DesktopNotifier{},
		Launch:    dispatch.LaunchAndLog,
		Open:      dispatch.Open,
		OpenAbout: func() error { return about.Open(opts.AboutPath) },
		Quit:      quitTray,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var a *App
	onReady := func(surface tray.Surface) {
		defer fatal.Recover()

		a = New(opts.SettingsPath, opts.QuietPeriod, surface, deps)
		fatal.OnExit(a.Stop)
		if err := a.Start(); err != nil {
			fatal.Handle(err)
			return
		}
		log.Printf("cmdtray started (PID %d)", os.Getpid())

		go a.Loop(ctx)
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-sigCh:
				log.Printf("Received signal %v, shutting down...", sig)
				quitTray()
			case <-ctx.Done():
			}
			signal.Stop(sigCh)
		}()
	}
	onExit := func() {
		cancel()
		if a != nil {
			a.Stop()
		}
		log.Println("cmdtray stopped")
	}

	return runTray(onReady, onExit)
}
