package logpick

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type segPart struct{ name, lit string }

func segParts(t *Template) (res []segPart) {
	for _, s := range t.Segments() {
		res = append(res, segPart{s.Name(), s.Literal()})
	}
	return res
}

func ExampleCompile() {
	tmpl, err := Compile("[{ts}] level={level} msg={msg}")
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, seg := range tmpl.Segments() {
		fmt.Printf("%q %q\n", seg.Name(), seg.Literal())
	}
	// Output:
	// "" "["
	// "ts" "] level="
	// "level" " msg="
	// "msg" ""
}

func TestCompile(t *testing.T) {
	for _, tc := range []struct {
		tmpl string
		want []segPart
	}{
		{"", []segPart{{"", ""}}},
		{"no captures", []segPart{{"", "no captures"}}},
		{"{all}", []segPart{{"", ""}, {"all", ""}}},
		{"{head} end", []segPart{{"", ""}, {"head", " end"}}},
		{"start {tail}", []segPart{{"", "start "}, {"tail", ""}}},
		{"a={a}|b={b}", []segPart{{"", "a="}, {"a", "|b="}, {"b", ""}}},
		{"a{x}b{y}c", []segPart{{"", "a"}, {"x", "b"}, {"y", "c"}}},
		{"x{}y{v}", []segPart{{"", "x"}, {"", "y"}, {"v", ""}}},
		{"a}b{c}", []segPart{{"", "a}b"}, {"c", ""}}},
		{"{a{b}:", []segPart{{"", ""}, {"a{b", ":"}}},
	} {
		t.Run(tc.tmpl, func(t *testing.T) {
			tmpl, err := Compile(tc.tmpl)
			require.NoError(t, err)
			assert.Equal(t, tc.want, segParts(tmpl))
			assert.Equal(t, tc.tmpl, tmpl.String())
		})
	}
}

func TestCompile_errors(t *testing.T) {
	for _, tc := range []struct {
		tmpl   string
		err    error
		offset int
	}{
		{"{a}{b}", ErrConsecutiveCaptures, 3},
		{"x{a}{b}y", ErrConsecutiveCaptures, 4},
		{"a{b", ErrUnterminatedName, 1},
		{"{", ErrUnterminatedName, 0},
		{"a{b}c{d", ErrUnterminatedName, 5},
	} {
		t.Run(tc.tmpl, func(t *testing.T) {
			_, err := Compile(tc.tmpl)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			var terr TemplateError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tc.offset, terr.Offset)
		})
	}
}

func TestMustCompile_panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("{a}{b}") })
	assert.NotPanics(t, func() { MustCompile("{a} {b}") })
}

func TestTemplate_Names(t *testing.T) {
	tmpl := MustCompile("{b}:{a}:{}:{b}.{c}")
	assert.Equal(t, []string{"b", "a", "c"}, tmpl.Names())
	assert.Nil(t, MustCompile("plain").Names())
}

func TestSegment_Fallbacks(t *testing.T) {
	tmpl := MustCompile("aab{x}abab")
	segs := tmpl.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, []int{0, 0, 1}, segs[0].Fallbacks())
	assert.Equal(t, []int{0, 0, 0, 1}, segs[1].Fallbacks())
}
