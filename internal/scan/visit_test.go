package scan

import (
	"errors"
	"testing"
)

func TestParseVisit(t *testing.T) {
	v, err := ParseVisit("cm12345-3")
	if err != nil {
		t.Fatalf("ParseVisit: %v", err)
	}
	want := Visit{Code: "cm", Number: 12345, Session: 3}
	if v != want {
		t.Errorf("ParseVisit = %+v, want %+v", v, want)
	}
	if v.Proposal() != "cm12345" {
		t.Errorf("Proposal() = %q, want cm12345", v.Proposal())
	}
	if v.String() != "cm12345-3" {
		t.Errorf("String() = %q, want cm12345-3", v.String())
	}
}

func TestParseVisitErrors(t *testing.T) {
	cases := []struct {
		input string
		want  error
	}{
		{"123-3", ErrVisitCode},
		{"cm12345", ErrVisitFormat},
		{"cm-3", ErrVisitFormat},
		{"cm12fede-3", ErrVisitProposal},
		{"cm12345-abc", ErrVisitSession},
		{"", ErrVisitFormat},
	}
	for _, tc := range cases {
		_, err := ParseVisit(tc.input)
		if !errors.Is(err, tc.want) {
			t.Errorf("ParseVisit(%q) = %v, want %v", tc.input, err, tc.want)
		}
	}
}
