package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWithLockRunsAndCleansUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.lock")

	ran := false
	err := WithLock(path, time.Second, time.Millisecond, func() error {
		ran = true
		if _, err := os.Stat(path); err != nil {
			t.Errorf("lock file should exist while held: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock: %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file should be removed after release")
	}
}

func TestWithLockPropagatesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.lock")
	want := errors.New("boom")

	err := WithLock(path, time.Second, time.Millisecond, func() error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("WithLock = %v, want %v", err, want)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file should be removed after an error")
	}
}

func TestWithLockTimesOutOnContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir.lock")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("pre-create lock: %v", err)
	}

	err := WithLock(path, 20*time.Millisecond, 5*time.Millisecond, func() error {
		t.Error("fn must not run while the lock is held elsewhere")
		return nil
	})
	var timeoutErr *LockTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("WithLock = %v, want LockTimeoutError", err)
	}
	if timeoutErr.Path != path {
		t.Errorf("timeout path = %q, want %q", timeoutErr.Path, path)
	}
}
