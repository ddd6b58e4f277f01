// Package paths defines the closed field sets available to each path
// template kind. Scan templates may reference beamline fields and detector
// templates may reference scan (and through them beamline) fields, either
// bare or with an explicit dotted prefix naming the delegation.
package paths

import "strings"

// BeamlineField is a placeholder valid in a visit directory template.
type BeamlineField uint8

const (
	BeamlineYear BeamlineField = iota
	BeamlineVisit
	BeamlineProposal
	BeamlineInstrument
)

// ScanFieldKind discriminates the variants of ScanField.
type ScanFieldKind uint8

const (
	ScanSubdirectory ScanFieldKind = iota
	ScanNumber
	ScanBeamline
)

// ScanField is a placeholder valid in a scan file template. A ScanBeamline
// field carries the delegated beamline field.
type ScanField struct {
	Kind     ScanFieldKind
	Beamline BeamlineField
}

// DetectorFieldKind discriminates the variants of DetectorField.
type DetectorFieldKind uint8

const (
	DetectorName DetectorFieldKind = iota
	DetectorScan
)

// DetectorField is a placeholder valid in a detector file template. A
// DetectorScan field carries the delegated scan field.
type DetectorField struct {
	Kind DetectorFieldKind
	Scan ScanField
}

// ParseBeamlineField maps a placeholder name onto a beamline field.
func ParseBeamlineField(name string) (BeamlineField, bool) {
	switch name {
	case "year":
		return BeamlineYear, true
	case "visit":
		return BeamlineVisit, true
	case "proposal":
		return BeamlineProposal, true
	case "instrument":
		return BeamlineInstrument, true
	}
	return 0, false
}

// ParseScanField maps a placeholder name onto a scan field. Names that are
// not local to the scan set delegate to the beamline set, optionally behind
// an explicit "beamline." prefix. Local names shadow delegated ones.
func ParseScanField(name string) (ScanField, bool) {
	switch name {
	case "subdirectory":
		return ScanField{Kind: ScanSubdirectory}, true
	case "scan_number":
		return ScanField{Kind: ScanNumber}, true
	}
	rest := strings.TrimPrefix(name, "beamline.")
	if bf, ok := ParseBeamlineField(rest); ok {
		return ScanField{Kind: ScanBeamline, Beamline: bf}, true
	}
	return ScanField{}, false
}

// ParseDetectorField maps a placeholder name onto a detector field,
// delegating non-local names to the scan set, optionally behind an explicit
// "scan." prefix.
func ParseDetectorField(name string) (DetectorField, bool) {
	if name == "detector" {
		return DetectorField{Kind: DetectorName}, true
	}
	rest := strings.TrimPrefix(name, "scan.")
	if sf, ok := ParseScanField(rest); ok {
		return DetectorField{Kind: DetectorScan, Scan: sf}, true
	}
	return DetectorField{}, false
}
