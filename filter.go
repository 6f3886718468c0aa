package logpick

import (
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/coregex"
)

// LineFilter decides which lines are parsed at all. Implementations must be
// safe for concurrent use.
type LineFilter interface {
	Accept(line string) bool
}

type matchFilter struct {
	rgx *coregex.Regex
}

// MatchFilter accepts only lines that match the regular expression pattern.
func MatchFilter(pattern string) (LineFilter, error) {
	rgx, err := coregex.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("line filter: %w", err)
	}
	return matchFilter{rgx: rgx}, nil
}

func (f matchFilter) Accept(line string) bool { return f.rgx.MatchString(line) }

func (f matchFilter) String() string { return "match " + f.rgx.String() }

type excludeFilter struct {
	words []string
	ac    *ahocorasick.Automaton
}

// ExcludeFilter rejects lines that contain any of words, e.g. to drop header
// lines of a log file in a single pass.
func ExcludeFilter(words ...string) (LineFilter, error) {
	if len(words) == 0 {
		return nil, errors.New("exclude filter: no words")
	}
	bld := ahocorasick.NewBuilder()
	for _, w := range words {
		if w == "" {
			return nil, errors.New("exclude filter: empty word")
		}
		bld.AddPattern([]byte(w))
	}
	ac, err := bld.Build()
	if err != nil {
		return nil, fmt.Errorf("exclude filter: %w", err)
	}
	return excludeFilter{words: words, ac: ac}, nil
}

func (f excludeFilter) Accept(line string) bool {
	return !f.ac.IsMatch([]byte(line))
}

func (f excludeFilter) String() string { return fmt.Sprintf("exclude %q", f.words) }

// Filters accepts a line if all its filters do.
type Filters []LineFilter

func (fs Filters) Accept(line string) bool {
	for _, f := range fs {
		if f != nil && !f.Accept(line) {
			return false
		}
	}
	return true
}
