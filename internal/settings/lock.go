package settings

import (
	"errors"
	"time"
)

// ErrLockTimeout is returned by Store.Save when another process holds the
// settings lock for longer than the store's lock timeout.
var ErrLockTimeout = errors.New("timed out waiting for settings lock")

// DefaultLockTimeout bounds how long Save waits for a peer process.
const DefaultLockTimeout = 5 * time.Second

const lockRetryInterval = 25 * time.Millisecond

// lockWithin polls TryLock until it succeeds or timeout elapses.
func (l *fileLock) lockWithin(timeout time.Duration) (*lockHandle, error) {
	deadline := time.Now().Add(timeout)
	for {
		h, err := l.TryLock()
		if err != nil || h != nil {
			return h, err
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockRetryInterval)
	}
}
