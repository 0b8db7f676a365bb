package models

import (
	"time"

	"github.com/google/uuid"
)

// InstanceInfo identifies the running tray process.
// This corresponds to <user config dir>/cmdtray/instance.yaml.
type InstanceInfo struct {
	Version   int       `yaml:"version"`
	PID       int       `yaml:"pid"`
	Token     string    `yaml:"token"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewInstanceInfo creates instance info for the current process.
func NewInstanceInfo(pid int) *InstanceInfo {
	return &InstanceInfo{
		Version:   1,
		PID:       pid,
		Token:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}
