// Package tray implements the system tray icon and menu.
package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/cmdtray/cmdtray/internal/daemon/menu"
)

// Labels of the actions appended to every published menu.
const (
	SettingsLabel = "Settings"
	AboutLabel    = "About"
	QuitLabel     = "Quit"
)

// Item is one rendered menu entry. Submenus have Children and are not
// clickable themselves.
type Item struct {
	ID       int
	Label    string
	Tooltip  string
	Children []Item
}

// Surface is the platform tray. SetMenu replaces everything shown before.
// Clicks delivers the ID of each clicked leaf.
type Surface interface {
	SetIcon(icon []byte)
	SetTooltip(tooltip string)
	SetMenu(items []Item)
	Clicks() <-chan int
}

// ActionKind identifies what a clicked item does.
type ActionKind int

// Action kinds.
const (
	ActionCommand ActionKind = iota
	ActionSettings
	ActionAbout
	ActionQuit
)

// Action is the data attached to a clickable item.
type Action struct {
	Kind    ActionKind
	Command string // ActionCommand only
}

// Handlers perform the actions. Nil handlers are skipped.
type Handlers struct {
	Launch       func(command string)
	OpenSettings func()
	OpenAbout    func()
	Quit         func()
}

// Controller owns the tray identity: the icon and the published menu.
type Controller struct {
	surface  Surface
	handlers Handlers

	mu      sync.Mutex
	nextID  int
	actions map[int]Action
	items   []Item
	dark    bool
}

// NewController returns a controller drawing on surface.
func NewController(surface Surface, handlers Handlers) *Controller {
	return &Controller{
		surface:  surface,
		handlers: handlers,
		actions:  make(map[int]Action),
	}
}

// SetIcon selects the light or dark icon.
func (c *Controller) SetIcon(dark bool) {
	c.mu.Lock()
	c.dark = dark
	c.mu.Unlock()

	c.surface.SetIcon(Icon(dark))
}

// Publish replaces the menu with tree followed by Settings, About and Quit.
// Clicks on items from earlier menus are ignored afterwards.
func (c *Controller) Publish(tree menu.Tree) {
	c.mu.Lock()
	c.actions = make(map[int]Action)
	items := c.convert(tree)
	items = append(items,
		c.addItem(SettingsLabel, "Open the settings file", Action{Kind: ActionSettings}),
		c.addItem(AboutLabel, "About cmdtray", Action{Kind: ActionAbout}),
		c.addItem(QuitLabel, "Quit cmdtray", Action{Kind: ActionQuit}),
	)
	c.items = items
	c.mu.Unlock()

	c.surface.SetMenu(items)
	c.surface.SetTooltip(formatTooltip(tree.Leaves()))
}

// Apply sets the icon and publishes tree.
func (c *Controller) Apply(tree menu.Tree, dark bool) {
	c.SetIcon(dark)
	c.Publish(tree)
}

// convert assigns IDs to the tree. Caller holds mu.
func (c *Controller) convert(nodes []menu.Node) []Item {
	items := make([]Item, 0, len(nodes))
	for _, node := range nodes {
		if node.IsSubmenu() {
			items = append(items, Item{
				ID:       c.allocID(),
				Label:    node.Label,
				Children: c.convert(node.Children),
			})
			continue
		}
		items = append(items, c.addItem(node.Label, node.Command, Action{Kind: ActionCommand, Command: node.Command}))
	}
	return items
}

// addItem registers action under a new ID. Caller holds mu.
func (c *Controller) addItem(label, tooltip string, action Action) Item {
	id := c.allocID()
	c.actions[id] = action
	return Item{ID: id, Label: label, Tooltip: tooltip}
}

func (c *Controller) allocID() int {
	c.nextID++
	return c.nextID
}

// Dark reports whether the dark icon is selected.
func (c *Controller) Dark() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dark
}

// Items returns the currently published menu.
func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup returns the action for an item ID of the current menu.
func (c *Controller) Lookup(id int) (Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	action, ok := c.actions[id]
	return action, ok
}

// Clicks returns the surface's click channel.
func (c *Controller) Clicks() <-chan int {
	return c.surface.Clicks()
}

// HandleClick performs the action attached to id.
func (c *Controller) HandleClick(id int) {
	action, ok := c.Lookup(id)
	if !ok {
		log.Printf("Ignoring click on stale menu item %d", id)
		return
	}

	switch action.Kind {
	case ActionCommand:
		if c.handlers.Launch != nil {
			c.handlers.Launch(action.Command)
		}
	case ActionSettings:
		if c.handlers.OpenSettings != nil {
			c.handlers.OpenSettings()
		}
	case ActionAbout:
		if c.handlers.OpenAbout != nil {
			c.handlers.OpenAbout()
		}
	case ActionQuit:
		if c.handlers.Quit != nil {
			c.handlers.Quit()
		}
	}
}

func formatTooltip(commands int) string {
	if commands == 1 {
		return "cmdtray - 1 command"
	}
	return fmt.Sprintf("cmdtray - %d commands", commands)
}
