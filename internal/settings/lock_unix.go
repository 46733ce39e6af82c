//go:build !windows

package settings

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// fileLock serializes settings writes across editor processes with flock.
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
	return l.acquire(syscall.LOCK_EX)
}

// TryLock takes the lock only if no other holder has it. A nil handle with
// a nil error means the lock is busy.
func (l *fileLock) TryLock() (*lockHandle, error) {
	h, err := l.acquire(syscall.LOCK_EX | syscall.LOCK_NB)
	if errors.Is(err, syscall.EWOULDBLOCK) {
		return nil, nil
	}
	return h, err
}

func (l *fileLock) acquire(how int) (*lockHandle, error) {
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings lock: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), how); err != nil {
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

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release settings lock: %w", err)
	}
	return f.Close()
}
