package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmdtray/cmdtray/internal/models"
)

func TestAcquireInstanceLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), InstanceFileName)

	lock, holder, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("AcquireInstanceLock() error = %v", err)
	}
	if holder != nil {
		t.Errorf("AcquireInstanceLock() holder = %+v, want nil", holder)
	}

	var written models.InstanceInfo
	if err := LoadYAML(path, &written); err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if written.PID != os.Getpid() || written.Token != lock.Info().Token {
		t.Errorf("lock file = %+v, want pid %d token %s", written, os.Getpid(), lock.Info().Token)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if fileExists(path) {
		t.Errorf("lock file still present after Release()")
	}
}

func TestAcquireInstanceLockHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), InstanceFileName)
	other := models.NewInstanceInfo(os.Getppid())
	if err := CreateYAML(path, other); err != nil {
		t.Fatalf("CreateYAML() error = %v", err)
	}

	lock, holder, err := AcquireInstanceLock(path)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("AcquireInstanceLock() error = %v, want ErrAlreadyRunning", err)
	}
	if lock != nil {
		t.Errorf("AcquireInstanceLock() lock = %+v, want nil", lock)
	}
	if holder == nil || holder.Token != other.Token {
		t.Errorf("AcquireInstanceLock() holder = %+v, want %+v", holder, other)
	}
}

func TestAcquireInstanceLockRemovesStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), InstanceFileName)
	stale := models.NewInstanceInfo(0x7ffffff0)
	if err := CreateYAML(path, stale); err != nil {
		t.Fatalf("CreateYAML() error = %v", err)
	}

	lock, _, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("AcquireInstanceLock() error = %v", err)
	}
	if lock.Info().Token == stale.Token {
		t.Errorf("lock kept the stale token")
	}
}

func TestReleaseKeepsForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), InstanceFileName)
	lock, _, err := AcquireInstanceLock(path)
	if err != nil {
		t.Fatalf("AcquireInstanceLock() error = %v", err)
	}

	// Another instance replaced the file after ours was considered stale.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove lock: %v", err)
	}
	if err := CreateYAML(path, models.NewInstanceInfo(os.Getppid())); err != nil {
		t.Fatalf("CreateYAML() error = %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if !fileExists(path) {
		t.Errorf("Release() removed a lock it does not own")
	}
}

func TestRemoveStaleLock(t *testing.T) {
	stale := models.NewInstanceInfo(0x7ffffff0)
	live := models.NewInstanceInfo(os.Getppid())

	tests := []struct {
		name      string
		onDisk    *models.InstanceInfo
		judged    *models.InstanceInfo
		wantToken string // empty: lock removed
	}{
		{name: "Stale holder is removed", onDisk: stale, judged: stale},
		{name: "Lock retaken after it was read", onDisk: live, judged: stale, wantToken: live.Token},
		{name: "Unreadable lock retaken", onDisk: live, judged: nil, wantToken: live.Token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, InstanceFileName)
			if err := CreateYAML(path, tt.onDisk); err != nil {
				t.Fatalf("CreateYAML() error = %v", err)
			}

			if err := removeStaleLock(path, tt.judged); err != nil {
				t.Fatalf("removeStaleLock() error = %v", err)
			}

			if tt.wantToken == "" {
				if fileExists(path) {
					t.Errorf("stale lock still present")
				}
			} else {
				var current models.InstanceInfo
				if err := LoadYAML(path, &current); err != nil {
					t.Fatalf("LoadYAML() error = %v", err)
				}
				if current.Token != tt.wantToken {
					t.Errorf("lock token = %q, want %q", current.Token, tt.wantToken)
				}
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			want := 0
			if tt.wantToken != "" {
				want = 1
			}
			if len(entries) != want {
				t.Errorf("dir has %d entries, want %d", len(entries), want)
			}
		})
	}
}

func TestRemoveStaleLockMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), InstanceFileName)
	if err := removeStaleLock(path, nil); err != nil {
		t.Errorf("removeStaleLock() error = %v, want nil", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
