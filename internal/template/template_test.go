package template

import (
	"errors"
	"testing"
)

type testField string

func parseTestField(name string) (testField, bool) {
	switch name {
	case "name", "value":
		return testField(name), true
	}
	return "", false
}

type testSource map[string]string

func (s testSource) Resolve(f testField) string { return s[string(f)] }

func TestRender(t *testing.T) {
	src := testSource{"name": "i22", "value": "42"}
	cases := []struct {
		text string
		want string
	}{
		{"", ""},
		{"plain literal", "plain literal"},
		{"{name}", "i22"},
		{"{name}/{value}", "i22/42"},
		{"pre {name} mid {value} post", "pre i22 mid 42 post"},
		{"{name}{name}", "i22i22"},
	}
	for _, tc := range cases {
		tpl, err := Parse(tc.text, parseTestField)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.text, err)
		}
		if got := tpl.Render(src); got != tc.want {
			t.Errorf("Render(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	src := testSource{"name": "bl45p", "value": "7"}
	tpl, err := Parse("{name}/data/{value}", parseTestField)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := tpl.Render(src)
	for i := 0; i < 5; i++ {
		if got := tpl.Render(src); got != first {
			t.Fatalf("render %d = %q, first = %q", i, got, first)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []struct {
		text     string
		position int
	}{
		{"{name", 0},
		{"a{name", 1},
		{"{}", 0},
		{"{na{me}", 0},
		{"}", 0},
		{"ab}", 2},
	}
	for _, tc := range cases {
		_, err := Parse(tc.text, parseTestField)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("Parse(%q) = %v, want SyntaxError", tc.text, err)
		}
		if syntaxErr.Position != tc.position {
			t.Errorf("Parse(%q) position = %d, want %d", tc.text, syntaxErr.Position, tc.position)
		}
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse("abc/{name}/{bogus}", parseTestField)
	var unknownErr *UnknownFieldError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Parse = %v, want UnknownFieldError", err)
	}
	if unknownErr.Name != "bogus" {
		t.Errorf("unknown field name = %q, want bogus", unknownErr.Name)
	}
	if unknownErr.Position != 12 {
		t.Errorf("unknown field position = %d, want 12", unknownErr.Position)
	}
}

func TestStringKeepsOriginalText(t *testing.T) {
	text := "{name}/fixed/{value}"
	tpl, err := Parse(text, parseTestField)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tpl.String() != text {
		t.Errorf("String() = %q, want %q", tpl.String(), text)
	}
}
