package paths

import (
	"fmt"

	"scanpath/internal/template"
)

// Compiled template types, one per path kind. The distinct field set
// parameters keep a template of one kind from being rendered against another
// kind's context.
type (
	VisitTemplate    = template.Template[BeamlineField]
	ScanTemplate     = template.Template[ScanField]
	DetectorTemplate = template.Template[DetectorField]
)

// ParseVisitTemplate compiles text against the beamline field set.
func ParseVisitTemplate(text string) (*VisitTemplate, error) {
	return template.Parse(text, ParseBeamlineField)
}

// ParseScanTemplate compiles text against the scan field set.
func ParseScanTemplate(text string) (*ScanTemplate, error) {
	return template.Parse(text, ParseScanField)
}

// ParseDetectorTemplate compiles text against the detector field set.
func ParseDetectorTemplate(text string) (*DetectorTemplate, error) {
	return template.Parse(text, ParseDetectorField)
}

// Kind names one of the three template kinds in configuration and on the
// command line.
type Kind string

const (
	KindVisit    Kind = "visit"
	KindScan     Kind = "scan"
	KindDetector Kind = "detector"
)

// Kinds lists all template kinds in display order.
func Kinds() []Kind {
	return []Kind{KindVisit, KindScan, KindDetector}
}

// ParseKind validates a user-supplied kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVisit, KindScan, KindDetector:
		return Kind(s), nil
	}
	return "", fmt.Errorf("TPL_KIND: unknown template kind %q (expected visit, scan or detector)", s)
}

// Validate compiles text against the kind's field set, discarding the
// result. Used to reject invalid templates at configuration-write time.
func (k Kind) Validate(text string) error {
	var err error
	switch k {
	case KindVisit:
		_, err = ParseVisitTemplate(text)
	case KindScan:
		_, err = ParseScanTemplate(text)
	case KindDetector:
		_, err = ParseDetectorTemplate(text)
	default:
		err = fmt.Errorf("TPL_KIND: unknown template kind %q", string(k))
	}
	return err
}
