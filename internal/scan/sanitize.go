package scan

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Subdirectory is a validated relative path under the visit directory.
// The zero value (no subdirectory) is valid.
type Subdirectory struct {
	path string
}

// ErrAbsoluteSubdirectory rejects subdirectories with a leading separator.
var ErrAbsoluteSubdirectory = errors.New("SUBDIR_PARSE: subdirectory cannot be absolute")

// InvalidComponentError names the position of a subdirectory component that
// is not a plain directory name.
type InvalidComponentError struct {
	Index int
}

func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("SUBDIR_PARSE: segment %d of path is not valid for a subdirectory", e.Index)
}

// NewSubdirectory validates p as a relative path. "." components are
// dropped, ".." components and absolute paths are rejected.
func NewSubdirectory(p string) (Subdirectory, error) {
	if p == "" {
		return Subdirectory{}, nil
	}
	if strings.HasPrefix(p, "/") {
		return Subdirectory{}, ErrAbsoluteSubdirectory
	}
	var kept []string
	for i, comp := range strings.Split(p, "/") {
		switch comp {
		case "", ".":
			continue
		case "..":
			return Subdirectory{}, &InvalidComponentError{Index: i}
		}
		kept = append(kept, comp)
	}
	return Subdirectory{path: path.Join(kept...)}, nil
}

func (s Subdirectory) String() string {
	return s.path
}

// IsEmpty reports whether no subdirectory was requested.
func (s Subdirectory) IsEmpty() bool {
	return s.path == ""
}

// Detector is a sanitized detector name, safe to use as a path segment.
type Detector string

// NewDetector normalizes name by replacing every character outside ASCII
// alphanumerics with an underscore. It is total and idempotent.
func NewDetector(name string) Detector {
	if !strings.ContainsFunc(name, invalidDetectorRune) {
		return Detector(name)
	}
	var out strings.Builder
	out.Grow(len(name))
	for _, r := range name {
		if invalidDetectorRune(r) {
			out.WriteByte('_')
		} else {
			out.WriteRune(r)
		}
	}
	return Detector(out.String())
}

func invalidDetectorRune(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

func (d Detector) String() string {
	return string(d)
}
