package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_AcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	lock := NewFileLock(path, "cli")

	require.NoError(t, lock.Acquire())

	// Lock file holds our metadata.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var meta LockFile
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, os.Getpid(), meta.PID)
	assert.Equal(t, "cli", meta.Owner)

	require.NoError(t, lock.Release())

	// Lock file removed on release.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLock_SecondAcquireFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	first := NewFileLock(path, "serve")
	require.NoError(t, first.Acquire())
	defer func() {
		if err := first.Release(); err != nil {
			t.Logf("release: %v", err)
		}
	}()

	second := NewFileLock(path, "cli")
	err := second.Acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration locked by serve")
}

func TestFileLock_StealsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	// A lock held by a process that no longer exists. PID 1 is alive but
	// unsignalable pids are hard to fabricate portably, so use a huge PID
	// that cannot exist alongside an expired timestamp.
	stale := LockFile{
		PID:       99999999,
		Hostname:  "gone-host",
		Owner:     "cli",
		Timestamp: time.Now().Add(-time.Hour),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	lock := NewFileLock(path, "serve")
	if err := lock.Acquire(); err != nil {
		// flock on a fresh fd succeeds even when a stale file exists, so
		// either path is fine as long as acquisition lands.
		t.Fatalf("acquire over stale lock: %v", err)
	}
	require.NoError(t, lock.Release())
}

func TestFileLock_ReleaseWithoutAcquireIsNoop(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), ".lock"), "cli")
	assert.NoError(t, lock.Release())
}

func TestFileLock_IsStale(t *testing.T) {
	lock := NewFileLock("", "cli")

	assert.True(t, lock.isStale(&LockFile{PID: 99999999, Timestamp: time.Now()}),
		"dead process is stale")
	assert.True(t, lock.isStale(&LockFile{PID: os.Getpid(), Timestamp: time.Now().Add(-time.Hour)}),
		"old lock is stale even with a live owner")
	assert.False(t, lock.isStale(&LockFile{PID: os.Getpid(), Timestamp: time.Now()}),
		"fresh lock from a live process is not stale")
}
