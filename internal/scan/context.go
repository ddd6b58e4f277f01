package scan

import (
	"strconv"
	"strings"
	"time"

	"scanpath/internal/paths"
)

// BeamlineContext resolves beamline fields for a visit on an instrument.
// The clock is injected so that the year field is deterministic in tests.
type BeamlineContext struct {
	Instrument string
	Visit      string
	now        func() time.Time
}

// NewBeamlineContext builds a context resolving against the wall clock.
func NewBeamlineContext(instrument, visit string) BeamlineContext {
	return BeamlineContext{Instrument: instrument, Visit: visit, now: time.Now}
}

// WithClock returns a copy of the context using now as its time source.
func (c BeamlineContext) WithClock(now func() time.Time) BeamlineContext {
	c.now = now
	return c
}

// Resolve implements template.FieldSource for beamline fields.
func (c BeamlineContext) Resolve(field paths.BeamlineField) string {
	switch field {
	case paths.BeamlineYear:
		now := c.now
		if now == nil {
			now = time.Now
		}
		return strconv.Itoa(now().Year())
	case paths.BeamlineVisit:
		return c.Visit
	case paths.BeamlineProposal:
		proposal, _, _ := strings.Cut(c.Visit, "-")
		return proposal
	case paths.BeamlineInstrument:
		return c.Instrument
	}
	return ""
}

// ForScan derives the context for an allocated scan.
func (c BeamlineContext) ForScan(number int64, subdirectory Subdirectory) ScanContext {
	return ScanContext{Beamline: c, ScanNumber: number, Subdirectory: subdirectory}
}

// ScanContext resolves scan fields, delegating beamline fields to the
// enclosing beamline context.
type ScanContext struct {
	Beamline     BeamlineContext
	ScanNumber   int64
	Subdirectory Subdirectory
}

// Resolve implements template.FieldSource for scan fields.
func (c ScanContext) Resolve(field paths.ScanField) string {
	switch field.Kind {
	case paths.ScanSubdirectory:
		return c.Subdirectory.String()
	case paths.ScanNumber:
		return strconv.FormatInt(c.ScanNumber, 10)
	case paths.ScanBeamline:
		return c.Beamline.Resolve(field.Beamline)
	}
	return ""
}

// ForDetector derives the context for one detector, sanitizing its name.
func (c ScanContext) ForDetector(name string) DetectorContext {
	return DetectorContext{Scan: c, Detector: NewDetector(name)}
}

// DetectorContext resolves detector fields, delegating scan fields to the
// enclosing scan context.
type DetectorContext struct {
	Scan     ScanContext
	Detector Detector
}

// Resolve implements template.FieldSource for detector fields.
func (c DetectorContext) Resolve(field paths.DetectorField) string {
	switch field.Kind {
	case paths.DetectorName:
		return c.Detector.String()
	case paths.DetectorScan:
		return c.Scan.Resolve(field.Scan)
	}
	return ""
}
