// Package models defines the data structures persisted by cmdtray.
package models

// Placeholders substituted for empty or missing entry fields.
const (
	PlaceholderLabel   = "Unnamed command"
	PlaceholderCommand = "echo cmdtray: no command configured for this entry"
)

// GeneralConfig holds settings that are not tied to a command.
type GeneralConfig struct {
	DarkTheme bool `json:"darkTheme"` // absent = light icon
}

// CommandEntry is one launchable shell command.
type CommandEntry struct {
	Label   string `json:"label"`
	Command string `json:"command"`
	Group   string `json:"group,omitempty"` // empty = menu root
}

// Settings represents the user settings file.
// This corresponds to <user config dir>/cmdtray/settings.json.
type Settings struct {
	General  GeneralConfig  `json:"general"`
	Commands []CommandEntry `json:"commands"`
}

// NewSettings creates the payload written on first run.
func NewSettings() *Settings {
	return &Settings{
		General: GeneralConfig{DarkTheme: false},
		Commands: []CommandEntry{
			{
				Label:   "Example: Open Google",
				Command: OpenURLCommand("https://google.com"),
			},
		},
	}
}

// DisplayLabel returns the label shown in the menu.
func (c CommandEntry) DisplayLabel() string {
	if c.Label == "" {
		return PlaceholderLabel
	}
	return c.Label
}

// ShellCommand returns the command passed to the shell on click.
func (c CommandEntry) ShellCommand() string {
	if c.Command == "" {
		return PlaceholderCommand
	}
	return c.Command
}
