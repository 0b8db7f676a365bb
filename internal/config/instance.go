package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cmdtray/cmdtray/internal/models"
)

// ErrAlreadyRunning is returned when another live instance holds the lock.
var ErrAlreadyRunning = errors.New("cmdtray is already running")

// unreadableGrace is how long a lock file that cannot be parsed is assumed to
// be mid-write by a starting instance rather than stale.
const unreadableGrace = 5 * time.Second

// InstanceLock is the process-wide single instance lock, backed by an
// exclusively created instance.yaml.
type InstanceLock struct {
	path string
	info *models.InstanceInfo
}

// AcquireInstanceLock takes the lock at path. If a live process already holds
// it, ErrAlreadyRunning is returned along with the holder's info. Locks left
// behind by dead processes are removed and retaken.
func AcquireInstanceLock(path string) (*InstanceLock, *models.InstanceInfo, error) {
	info := models.NewInstanceInfo(os.Getpid())

	for attempt := 0; attempt < 3; attempt++ {
		err := CreateYAML(path, info)
		if err == nil {
			return &InstanceLock{path: path, info: info}, nil, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, nil, fmt.Errorf("failed to create instance lock: %w", err)
		}

		holder, alive := lockHolder(path)
		if alive {
			return nil, holder, ErrAlreadyRunning
		}

		log.Printf("Removing stale instance lock %s", path)
		if err := removeStaleLock(path, holder); err != nil {
			return nil, holder, fmt.Errorf("failed to remove stale instance lock: %w", err)
		}
	}

	return nil, nil, fmt.Errorf("failed to acquire instance lock %s", path)
}

// removeStaleLock moves the lock at path aside and deletes it. If the moved
// file no longer belongs to stale, another instance retook the lock after it
// was read, so the file is put back instead.
func removeStaleLock(path string, stale *models.InstanceInfo) error {
	aside := path + ".stale-" + uuid.NewString()
	if err := os.Rename(path, aside); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var moved models.InstanceInfo
	if err := LoadYAML(aside, &moved); err == nil && !sameHolder(&moved, stale) {
		log.Printf("Instance lock %s was retaken by PID %d, restoring it", path, moved.PID)
		if err := os.Link(aside, path); err != nil && !errors.Is(err, fs.ErrExist) {
			// No hard links on this filesystem.
			return os.Rename(aside, path)
		}
	}
	return os.Remove(aside)
}

// sameHolder reports whether current is the lock that was judged stale. A nil
// stale means the file was unreadable, so any readable holder is new.
func sameHolder(current, stale *models.InstanceInfo) bool {
	if stale == nil {
		return current.PID == 0
	}
	return current.PID == stale.PID && current.Token == stale.Token
}

// lockHolder reads the lock file and reports whether its owner is alive.
func lockHolder(path string) (*models.InstanceInfo, bool) {
	var holder models.InstanceInfo
	if err := LoadYAML(path, &holder); err != nil || holder.PID == 0 {
		// Another instance may have created the file but not written it yet.
		st, statErr := os.Stat(path)
		if statErr != nil {
			return nil, false
		}
		return nil, time.Since(st.ModTime()) < unreadableGrace
	}

	if holder.PID == os.Getpid() {
		return &holder, false
	}
	return &holder, processAlive(holder.PID)
}

// Info returns the info written to the lock file.
func (l *InstanceLock) Info() *models.InstanceInfo {
	return l.info
}

// Release removes the lock file if it still belongs to this lock.
func (l *InstanceLock) Release() error {
	var current models.InstanceInfo
	if err := LoadYAML(l.path, &current); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if current.Token != l.info.Token {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
