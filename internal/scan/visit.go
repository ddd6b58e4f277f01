// Package scan holds the validated inputs and the context chain used to
// render path templates: a beamline context for visit directories, a scan
// context derived from it by allocating a scan number, and a detector
// context derived from that for each detector file.
package scan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Visit identifies an experiment session: a proposal code, proposal number
// and session number, written as e.g. "cm12345-3".
type Visit struct {
	Code    string
	Number  int
	Session int
}

var (
	ErrVisitFormat   = errors.New("VISIT_PARSE: expected <code><proposal>-<session>")
	ErrVisitCode     = errors.New("VISIT_PARSE: proposal code must be alphabetic")
	ErrVisitProposal = errors.New("VISIT_PARSE: proposal number is not a number")
	ErrVisitSession  = errors.New("VISIT_PARSE: session is not a number")
)

// ParseVisit parses a visit identifier of the form <code><proposal>-<session>.
func ParseVisit(s string) (Visit, error) {
	proposal, session, ok := strings.Cut(s, "-")
	if !ok {
		return Visit{}, ErrVisitFormat
	}
	sess, err := strconv.Atoi(session)
	if err != nil {
		return Visit{}, ErrVisitSession
	}
	split := strings.IndexFunc(proposal, func(r rune) bool {
		return !isAlpha(r)
	})
	if split < 0 {
		return Visit{}, ErrVisitFormat
	}
	if split == 0 {
		return Visit{}, ErrVisitCode
	}
	num, err := strconv.Atoi(proposal[split:])
	if err != nil {
		return Visit{}, ErrVisitProposal
	}
	return Visit{Code: proposal[:split], Number: num, Session: sess}, nil
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Proposal returns the proposal identifier, e.g. "cm12345".
func (v Visit) Proposal() string {
	return v.Code + strconv.Itoa(v.Number)
}

func (v Visit) String() string {
	return fmt.Sprintf("%s-%d", v.Proposal(), v.Session)
}
