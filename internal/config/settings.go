package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/cmdtray/cmdtray/internal/models"
)

// settingsIndent is the indentation used when the settings file is created.
const settingsIndent = "   "

// RawSettings is a parsed but not yet validated settings document.
type RawSettings struct {
	General  json.RawMessage `json:"general"`
	Commands json.RawMessage `json:"commands"`
}

// SettingsStore owns the on-disk settings file. It never caches settings:
// every Load reads the file again.
type SettingsStore struct {
	path string
}

// NewSettingsStore returns a store for the settings file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.path
}

// DefaultPayload returns the bytes written to a freshly created settings file.
func DefaultPayload() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", settingsIndent)
	if err := enc.Encode(models.NewSettings()); err != nil {
		return nil, fmt.Errorf("failed to marshal default settings: %w", err)
	}
	return buf.Bytes(), nil
}

// EnsureExists creates the settings file with the default payload if it is
// absent. An existing file is left untouched. created reports whether the
// file was written by this call.
func (s *SettingsStore) EnsureExists() (created bool, err error) {
	payload, err := DefaultPayload()
	if err != nil {
		return false, err
	}

	if err := CreateExclusive(s.path, payload); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Load reads and parses the settings file. Comments and trailing commas are
// accepted. Malformed content yields a *ParseError.
func (s *SettingsStore) Load() (*RawSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", s.path, err)
	}
	return ParseSettings(s.path, data)
}

// ParseSettings parses settings file content. path is only used in errors.
// Only malformed syntax is a *ParseError. Valid JSON that is not an object
// yields empty settings, which Normalize rejects as missing commands.
func ParseSettings(path string, data []byte) (*RawSettings, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var raw RawSettings
	if doc = bytes.TrimSpace(doc); len(doc) == 0 || doc[0] != '{' {
		return &raw, nil
	}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &raw, nil
}

// Reload loads and normalizes the settings file in one step.
func (s *SettingsStore) Reload() (*models.Settings, []string, error) {
	raw, err := s.Load()
	if err != nil {
		return nil, nil, err
	}
	settings, warnings, err := Normalize(raw)
	return settings, warnings, err
}

// Normalize fills missing optional fields with defaults. Problems with
// individual fields are returned as warnings and never reject the settings.
//
// A missing or non-array commands field is the only hard failure: it returns a
// *ValidationError together with settings holding no commands, so the caller
// can still publish the default actions and icon.
func Normalize(raw *RawSettings) (*models.Settings, []string, error) {
	settings := &models.Settings{Commands: []models.CommandEntry{}}
	var warnings []string

	settings.General, warnings = normalizeGeneral(raw.General, warnings)

	commands := bytes.TrimSpace(raw.Commands)
	if len(commands) == 0 || bytes.Equal(commands, []byte("null")) {
		return settings, warnings, &ValidationError{Problems: []string{"Config missing commands array."}}
	}
	if commands[0] != '[' {
		return settings, warnings, &ValidationError{Problems: []string{"Config commands field must be an array."}}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(commands, &entries); err != nil {
		return settings, warnings, &ValidationError{Problems: []string{fmt.Sprintf("Config commands array is unreadable: %v", err)}}
	}

	for i, entryRaw := range entries {
		var entry models.CommandEntry
		entry, warnings = normalizeEntry(i, entryRaw, warnings)
		settings.Commands = append(settings.Commands, entry)
	}

	return settings, warnings, nil
}

func normalizeGeneral(raw json.RawMessage, warnings []string) (models.GeneralConfig, []string) {
	var general models.GeneralConfig

	fields, ok := objectFields(raw)
	if !ok {
		return general, append(warnings, "general field is not an object; using defaults")
	}

	if v, present := fields["darkTheme"]; present && !isNull(v) {
		if err := json.Unmarshal(v, &general.DarkTheme); err != nil {
			warnings = append(warnings, "general.darkTheme is not a boolean; using light theme")
		}
	}
	return general, warnings
}

func normalizeEntry(index int, raw json.RawMessage, warnings []string) (models.CommandEntry, []string) {
	var entry models.CommandEntry

	fields, ok := objectFields(raw)
	if !ok || isNull(raw) {
		return entry, append(warnings, fmt.Sprintf("command at index %d is not an object", index))
	}

	var hasLabel, hasCommand bool
	entry.Label, hasLabel, warnings = stringField(fields, "label", index, warnings)
	entry.Command, hasCommand, warnings = stringField(fields, "command", index, warnings)
	entry.Group, _, warnings = stringField(fields, "group", index, warnings)

	switch {
	case !hasCommand && !hasLabel:
		warnings = append(warnings, fmt.Sprintf("command and label fields missing for command at index %d", index))
	case !hasCommand:
		warnings = append(warnings, fmt.Sprintf("command field missing for command at index %d", index))
	case !hasLabel:
		warnings = append(warnings, fmt.Sprintf("label field missing for command at index %d", index))
	}

	return entry, warnings
}

// objectFields decodes raw as a JSON object. An absent value is an empty object.
func objectFields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return fields, true
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// stringField reads key from fields. present is false when the key is absent
// or null; a non-string value is reported and treated as empty.
func stringField(fields map[string]json.RawMessage, key string, index int, warnings []string) (string, bool, []string) {
	v, present := fields[key]
	if !present || isNull(v) {
		return "", false, warnings
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", true, append(warnings, fmt.Sprintf("%s field at index %d is not a string", key, index))
	}
	return s, true, warnings
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
