// Package app wires the settings store, watcher and tray together and owns
// the process lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cmdtray/cmdtray/internal/config"
	"github.com/cmdtray/cmdtray/internal/daemon/menu"
	"github.com/cmdtray/cmdtray/internal/daemon/tray"
	"github.com/cmdtray/cmdtray/internal/daemon/watcher"
	"github.com/cmdtray/cmdtray/internal/logging"
)

// State is a lifecycle phase.
type State int

// Lifecycle states. The lifecycle only moves forward, except that
// Reconciling always returns to Watching.
const (
	StateStarting State = iota
	StateEnsuringSettings
	StateBuildingInitialMenu
	StateWatching
	StateReconciling
	StateQuitting
	StateFatalError
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateEnsuringSettings:
		return "ensuring-settings"
	case StateBuildingInitialMenu:
		return "building-initial-menu"
	case StateWatching:
		return "watching"
	case StateReconciling:
		return "reconciling"
	case StateQuitting:
		return "quitting"
	case StateFatalError:
		return "fatal-error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Notification titles.
const (
	validationTitle = "Errors found with settings config"
	parseTitle      = "Could not read settings config"
)

// Deps are the platform actions the app triggers.
type Deps struct {
	Notifier  Notifier
	Launch    func(command string)
	Open      func(target string) error
	OpenAbout func() error
	Quit      func()
}

// App is the single application context: one settings store, one tray
// identity and one watcher, created at startup and torn down at quit.
type App struct {
	store   *config.SettingsStore
	tray    *tray.Controller
	watcher *watcher.Watcher
	deps    Deps
	quiet   time.Duration

	mu    sync.Mutex
	state State
}

// New creates the app for the settings file at settingsPath, drawing on surface.
func New(settingsPath string, quiet time.Duration, surface tray.Surface, deps Deps) *App {
	a := &App{
		store: config.NewSettingsStore(settingsPath),
		deps:  deps,
		quiet: quiet,
		state: StateStarting,
	}
	a.tray = tray.NewController(surface, tray.Handlers{
		Launch:       deps.Launch,
		OpenSettings: a.openSettings,
		OpenAbout:    a.openAbout,
		Quit:         a.requestQuit,
	})
	return a
}

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) setState(s State) {
	a.mu.Lock()
	prev := a.state
	a.state = s
	a.mu.Unlock()
	logging.Debugf("lifecycle: %s -> %s", prev, s)
}

// Tray returns the tray controller.
func (a *App) Tray() *tray.Controller {
	return a.tray
}

// Start creates the settings file if needed, publishes the initial menu and
// starts watching. Any error is fatal to startup.
func (a *App) Start() error {
	if s := a.State(); s != StateStarting {
		return fmt.Errorf("app already started (state %s)", s)
	}

	a.setState(StateEnsuringSettings)
	created, err := a.store.EnsureExists()
	if err != nil {
		a.setState(StateFatalError)
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	if created {
		log.Printf("Created settings file at %s", a.store.Path())
	} else {
		log.Printf("Settings file found at %s", a.store.Path())
	}

	a.setState(StateBuildingInitialMenu)
	if err := a.reconcile(true); err != nil {
		a.setState(StateFatalError)
		return err
	}

	w, err := watcher.New(a.store.Path(), a.quiet)
	if err != nil {
		a.setState(StateFatalError)
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		w.Stop()
		a.setState(StateFatalError)
		return err
	}
	a.watcher = w

	a.setState(StateWatching)
	return nil
}

// Reconcile reloads the settings and republishes the menu and icon. Problems
// are reported to the user; the tray stays up.
func (a *App) Reconcile() {
	a.setState(StateReconciling)
	if err := a.reconcile(false); err != nil {
		log.Printf("Reconcile failed: %v", err)
	}
	a.setState(StateWatching)
}

// reconcile runs one reload. Only during startup are read and parse errors
// returned; afterwards they are reported like validation errors.
func (a *App) reconcile(startup bool) error {
	settings, warnings, err := a.store.Reload()
	for _, w := range warnings {
		log.Printf("Settings warning: %s", w)
	}

	var validationErr *config.ValidationError
	switch {
	case err == nil:
		tree := menu.Build(settings)
		a.tray.Apply(tree, settings.General.DarkTheme)
		log.Printf("Menu published with %d commands", tree.Leaves())
		return nil

	case errors.As(err, &validationErr):
		a.notify(validationTitle, "Errors found:\n"+strings.Join(validationErr.Problems, "\n"))
		a.tray.Apply(menu.Build(settings), settings.General.DarkTheme)
		return nil

	case startup:
		return err

	default:
		a.notify(parseTitle, err.Error())
		a.tray.Apply(menu.Tree{}, a.tray.Dark())
		return nil
	}
}

func (a *App) notify(title, message string) {
	log.Printf("%s: %s", title, message)
	if a.deps.Notifier == nil {
		return
	}
	if err := a.deps.Notifier.Notify(title, message); err != nil {
		log.Printf("Failed to show notification: %v", err)
	}
}

// Loop runs reconciliations and click handling one at a time until ctx is
// canceled.
func (a *App) Loop(ctx context.Context) {
	var triggers <-chan struct{}
	if a.watcher != nil {
		triggers = a.watcher.Triggers()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-triggers:
			a.Reconcile()
		case id := <-a.tray.Clicks():
			a.tray.HandleClick(id)
		}
	}
}

// Stop closes the watcher. It is safe to call more than once.
func (a *App) Stop() {
	a.setState(StateQuitting)
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

func (a *App) openSettings() {
	if a.deps.Open == nil {
		return
	}
	if err := a.deps.Open(a.store.Path()); err != nil {
		log.Printf("Failed to open settings: %v", err)
	}
}

func (a *App) openAbout() {
	if a.deps.OpenAbout == nil {
		return
	}
	if err := a.deps.OpenAbout(); err != nil {
		log.Printf("Failed to open about page: %v", err)
	}
}

func (a *App) requestQuit() {
	log.Println("Quit requested")
	if a.deps.Quit != nil {
		a.deps.Quit()
	}
}
