package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// LockTimeoutError reports failure to acquire an advisory lock file before
// the timeout elapsed.
type LockTimeoutError struct {
	Path   string
	Waited time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("FS_LOCK: %s held by another process after %s", e.Path, e.Waited)
}

// WithLock runs fn while holding an advisory lock file at path. The lock is
// acquired by exclusive creation and removed afterwards; contention is
// retried until timeout. Processes that do not create the lock file are not
// excluded.
func WithLock(path string, timeout, retry time.Duration, fn func() error) error {
	start := time.Now()
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			fmt.Fprintf(f, "pid %d\n", os.Getpid())
			f.Close()
			defer os.Remove(path)
			return fn()
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("FS_LOCK: %w", err)
		}
		if waited := time.Since(start); waited >= timeout {
			return &LockTimeoutError{Path: path, Waited: waited}
		}
		time.Sleep(retry)
	}
}
