// Package numtracker reconciles scan numbers with a legacy directory of
// zero-byte marker files named `<number>.<extension>`, still written by
// older acquisition software. The directory is the out-of-band counter for a
// beamline: the highest-numbered marker present is the last number consumed
// by anything, inside this service or not.
package numtracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"scanpath/internal/fsutil"
)

const (
	lockName    = ".scanpath.lock"
	lockTimeout = 10 * time.Second
	lockRetry   = 50 * time.Millisecond
)

// Tracker manages the marker files for one beamline's fallback directory.
type Tracker struct {
	dir string
	ext string
	log *zap.Logger
}

// New returns a tracker over dir using ext as the marker file extension.
func New(dir, ext string, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{dir: dir, ext: ext, log: log}
}

// WithLock runs fn while holding the directory's advisory lock file.
// External writers that ignore the lock can still race; that limitation is
// accepted, not worked around.
func (t *Tracker) WithLock(fn func() error) error {
	return fsutil.WithLock(filepath.Join(t.dir, lockName), lockTimeout, lockRetry, fn)
}

// HighestScan returns the highest marker number present in the directory,
// or zero when there are no markers.
func (t *Tracker) HighestScan() (int64, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return 0, fmt.Errorf("NT_SCAN: %w", err)
	}
	var high int64
	suffix := "." + t.ext
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), suffix)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(name, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		if n > high {
			high = n
		}
	}
	return high, nil
}

// Advance records next as consumed: it creates the marker file for next and
// removes the immediately preceding marker. Older markers are left in place
// so a gap caused by the database getting ahead stays visible.
func (t *Tracker) Advance(next, previousHigh int64) error {
	if previousHigh+1 != next {
		t.log.Warn("scan number gap in fallback directory",
			zap.String("dir", t.dir),
			zap.Int64("directory_high", previousHigh),
			zap.Int64("allocated", next))
	}
	marker := t.markerPath(next)
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("NT_MARKER: %w", err)
	}
	f.Close()
	if next > 1 {
		if err := os.Remove(t.markerPath(next - 1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("NT_MARKER: %w", err)
		}
	}
	return nil
}

func (t *Tracker) markerPath(n int64) string {
	return filepath.Join(t.dir, fmt.Sprintf("%d.%s", n, t.ext))
}
