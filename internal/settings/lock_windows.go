//go:build windows

package settings

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// fileLock serializes settings writes across editor processes with the
// first byte of a lock file, held through LockFileEx.
type fileLock struct {
	path string
}

// lockHandle is an acquired lock; release it with Unlock.
type lockHandle struct {
	file *os.File
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path + ".lock"}
}

// Lock blocks until the exclusive lock is acquired.
func (l *fileLock) Lock() (*lockHandle, error) {
	return l.acquire(windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// TryLock takes the lock only if no other holder has it. A nil handle with
// a nil error means the lock is busy.
func (l *fileLock) TryLock() (*lockHandle, error) {
	h, err := l.acquire(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return nil, nil
	}
	return h, err
}

func (l *fileLock) acquire(flags uint32) (*lockHandle, error) {
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings lock: %w", err)
	}
	if err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, &windows.Overlapped{}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to acquire settings lock: %w", err)
	}
	return &lockHandle{file: f}, nil
}

// Unlock releases the lock. Safe to call more than once.
func (h *lockHandle) Unlock() error {
	if h == nil || h.file == nil {
		return nil
	}
	f := h.file
	h.file = nil

	if err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, &windows.Overlapped{}); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release settings lock: %w", err)
	}
	return f.Close()
}
