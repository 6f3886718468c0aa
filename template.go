package logpick

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Template delimiters
const (
	// Starts the name of a capture.
	OpenName = '{'
	// Ends the name of a capture.
	CloseName = '}'
)

var (
	ErrConsecutiveCaptures = errors.New("consecutive captures with no separator")
	ErrUnterminatedName    = errors.New("unterminated capture name")
)

// TemplateError reports a malformed template. Offset is the byte offset in the
// template source where the problem was detected.
type TemplateError struct {
	Offset int
	err    error
}

func (e TemplateError) Error() string {
	return fmt.Sprintf("illegal template at %d: %s", e.Offset, e.err)
}

func (e TemplateError) Unwrap() error { return e.err }

// Segment is a capture name followed by the literal that terminates the
// capture. The first segment of a template holds the literal in front of the
// first capture and never has a name.
type Segment struct {
	name string
	text string
	lit  literal
}

// Name returns the capture name. The text in front of the literal is discarded
// if the name is empty.
func (s *Segment) Name() string { return s.name }

// Literal returns the separator text that ends the segment.
func (s *Segment) Literal() string { return s.text }

// Fallbacks returns the failure table of the segment's literal.
func (s *Segment) Fallbacks() []int {
	res := make([]int, len(s.lit.states))
	for i, st := range s.lit.states {
		res[i] = st.fallback
	}
	return res
}

// Template is a compiled template. It is immutable and can be used
// concurrently.
type Template struct {
	src  string
	segs []Segment
}

// Compile parses a template like
//
//	[{ts}] level={level} msg={msg}
//
// into its segments.
func Compile(tmpl string) (*Template, error) {
	var (
		segs     []Segment
		cur      Segment
		text     strings.Builder
		name     strings.Builder
		inName   bool
		nameFrom int
	)
	for i, c := range tmpl {
		if inName {
			if c == CloseName {
				cur.name = name.String()
				name.Reset()
				inName = false
			} else {
				name.WriteRune(c)
			}
			continue
		}
		if c != OpenName {
			cur.lit.append(c)
			text.WriteRune(c)
			continue
		}
		if cur.lit.empty() && len(segs) > 0 {
			return nil, TemplateError{Offset: i, err: ErrConsecutiveCaptures}
		}
		cur.text = text.String()
		text.Reset()
		segs = append(segs, cur)
		cur = Segment{}
		inName = true
		nameFrom = i
	}
	if inName {
		return nil, TemplateError{Offset: nameFrom, err: ErrUnterminatedName}
	}
	cur.text = text.String()
	segs = append(segs, cur)
	return &Template{src: tmpl, segs: segs}, nil
}

func MustCompile(tmpl string) *Template {
	t, err := Compile(tmpl)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source.
func (t *Template) String() string { return t.src }

// Segments returns the compiled segments. Callers must not modify them.
func (t *Template) Segments() []Segment { return t.segs }

// Names returns the capture names in template order without duplicates.
func (t *Template) Names() (names []string) {
	for i := range t.segs {
		if nm := t.segs[i].name; nm != "" && !slices.Contains(names, nm) {
			names = append(names, nm)
		}
	}
	return names
}
