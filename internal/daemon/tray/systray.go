//go:build cgo || windows

package tray

import (
	"context"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onReady receives the surface once the tray exists; onExit runs after Quit.
func Run(onReady func(Surface), onExit func()) error {
	s := &systraySurface{clicks: make(chan int, 16)}
	systray.Run(func() {
		onReady(s)
	}, func() {
		s.shutdown()
		if onExit != nil {
			onExit()
		}
	})
	return nil
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

type systraySurface struct {
	clicks chan int

	mu      sync.Mutex
	entries []trayEntry
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

func (s *systraySurface) SetIcon(icon []byte) {
	if runtime.GOOS == "darwin" {
		systray.SetTemplateIcon(icon, icon)
		return
	}
	systray.SetIcon(icon)
}

func (s *systraySurface) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (s *systraySurface) Clicks() <-chan int {
	return s.clicks
}

// SetMenu hides the previous items and appends the new ones. systray cannot
// remove items, so hidden ones remain until exit.
func (s *systraySurface) SetMenu(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		entry.cancel()
		entry.item.Hide()
	}
	s.entries = s.entries[:0]

	for _, item := range items {
		s.add(item, nil)
	}
}

// add renders item under parent (nil = root). Caller holds mu.
func (s *systraySurface) add(item Item, parent *systray.MenuItem) {
	var mi *systray.MenuItem
	if parent == nil {
		mi = systray.AddMenuItem(item.Label, item.Tooltip)
	} else {
		mi = parent.AddSubMenuItem(item.Label, item.Tooltip)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.entries = append(s.entries, trayEntry{item: mi, cancel: cancel})

	if item.Children != nil {
		go drainClicks(ctx, mi.ClickedCh)
		for _, child := range item.Children {
			s.add(child, mi)
		}
		return
	}

	go s.forwardClicks(ctx, mi.ClickedCh, item.ID)
}

func (s *systraySurface) forwardClicks(ctx context.Context, ch <-chan struct{}, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			select {
			case s.clicks <- id:
			case <-ctx.Done():
				return
			}
		}
	}
}

func drainClicks(ctx context.Context, ch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
		}
	}
}

func (s *systraySurface) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		entry.cancel()
	}
	s.entries = nil
}
