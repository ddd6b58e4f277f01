// Package template implements the flat placeholder template engine behind
// visit, scan and detector path generation. A template is literal text
// interspersed with `{field}` placeholders; the set of valid field names is
// fixed by the type parameter, so a template compiled for one field set can
// never be rendered against another.
package template

import (
	"fmt"
	"strings"
)

// FieldSource resolves a single field to its string value. Implementations
// are expected to be total over their field set: rendering never fails.
type FieldSource[F any] interface {
	Resolve(field F) string
}

type segment[F any] struct {
	literal string
	field   F
	isField bool
}

// Template is an immutable compiled template over the field set F.
type Template[F any] struct {
	text     string
	segments []segment[F]
}

// SyntaxError reports malformed placeholder delimiters.
type SyntaxError struct {
	Position int
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("TPL_SYNTAX: %s at offset %d", e.Reason, e.Position)
}

// UnknownFieldError reports a placeholder name outside the template's
// closed field set.
type UnknownFieldError struct {
	Name     string
	Position int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("TPL_FIELD: unknown field %q at offset %d", e.Name, e.Position)
}

// Parse compiles text into a template over F. parseField maps a placeholder
// name (the text between braces) onto a field value; names it rejects fail
// compilation with an UnknownFieldError. Parsing is pure and performs no I/O.
func Parse[F any](text string, parseField func(name string) (F, bool)) (*Template[F], error) {
	var segments []segment[F]
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment[F]{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); {
		switch text[i] {
		case '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, &SyntaxError{Position: i, Reason: "unterminated placeholder"}
			}
			name := text[i+1 : i+1+end]
			if strings.ContainsRune(name, '{') {
				return nil, &SyntaxError{Position: i, Reason: "nested placeholder"}
			}
			if name == "" {
				return nil, &SyntaxError{Position: i, Reason: "empty placeholder"}
			}
			field, ok := parseField(name)
			if !ok {
				return nil, &UnknownFieldError{Name: name, Position: i + 1}
			}
			flush()
			segments = append(segments, segment[F]{field: field, isField: true})
			i += end + 2
		case '}':
			return nil, &SyntaxError{Position: i, Reason: "unmatched '}'"}
		default:
			literal.WriteByte(text[i])
			i++
		}
	}
	flush()
	return &Template[F]{text: text, segments: segments}, nil
}

// Render resolves every field segment against src and concatenates the
// result. Resolved values are joined verbatim; making them path-safe is the
// caller's responsibility before they enter the source.
func (t *Template[F]) Render(src FieldSource[F]) string {
	var out strings.Builder
	out.Grow(len(t.text))
	for _, seg := range t.segments {
		if seg.isField {
			out.WriteString(src.Resolve(seg.field))
		} else {
			out.WriteString(seg.literal)
		}
	}
	return out.String()
}

// String returns the original template text.
func (t *Template[F]) String() string {
	return t.text
}
