// Package gen generates Go code for typed access to the captures of a template.
package gen

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/fractalqb/logpick"
)

const logpickPath = "github.com/fractalqb/logpick"

// Options configures code generation.
type Options struct {
	// Template is the source of the template
	Template string

	// Name of the generated struct, e.g. "Access" generates type Access and
	// func ParseAccess
	Name string

	// Package is the Go package name for the generated code
	Package string

	// OutputFile is the path where generated code will be written
	OutputFile string
}

func (o Options) Validate() error {
	if o.Template == "" {
		return fmt.Errorf("template cannot be empty")
	}
	if !isIdent(o.Name) {
		return fmt.Errorf("name '%s' is not a Go identifier", o.Name)
	}
	if !isIdent(o.Package) {
		return fmt.Errorf("package '%s' is not a Go identifier", o.Package)
	}
	return nil
}

// Generate writes the code for opts to opts.OutputFile.
func Generate(opts Options) error {
	if opts.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	f, err := File(opts)
	if err != nil {
		return err
	}
	if err = f.Save(opts.OutputFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.OutputFile, err)
	}
	return nil
}

// Render writes the code for opts to w.
func Render(w io.Writer, opts Options) error {
	f, err := File(opts)
	if err != nil {
		return err
	}
	return f.Render(w)
}

// File builds the code for opts.
func File(opts Options) (*jen.File, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	tmpl, err := logpick.Compile(opts.Template)
	if err != nil {
		return nil, err
	}
	names := tmpl.Names()
	fields := FieldNames(names)

	f := jen.NewFile(opts.Package)
	f.HeaderComment(fmt.Sprintf("Code generated by logpick for template: %s", opts.Template))
	f.HeaderComment("DO NOT EDIT.")

	tmplVar := lowerFirst(opts.Name) + "Template"
	f.Var().Id(tmplVar).Op("=").Qual(logpickPath, "MustCompile").Call(jen.Lit(opts.Template))
	f.Line()

	structFields := make([]jen.Code, len(names))
	for i, nm := range names {
		structFields[i] = jen.Id(fields[i]).String().Tag(map[string]string{"json": nm})
	}
	f.Commentf("%s holds the captures of template %q.", opts.Name, opts.Template)
	f.Type().Id(opts.Name).Struct(structFields...)
	f.Line()

	cases := make([]jen.Code, len(names))
	for i, nm := range names {
		cases[i] = jen.Case(jen.Lit(nm)).Block(
			jen.Id("res").Dot(fields[i]).Op("=").Id("c").Dot("Value"),
		)
	}
	f.Commentf("Parse%s extracts the captures from line. It returns false if line has no captures.", opts.Name)
	f.Func().Id("Parse"+opts.Name).
		Params(jen.Id("line").String()).
		Params(jen.Id("res").Id(opts.Name), jen.Id("ok").Bool()).
		Block(
			jen.Id("rec").Op(":=").Id(tmplVar).Dot("Extract").Call(jen.Id("line")),
			jen.If(jen.Id("rec").Dot("Empty").Call()).Block(
				jen.Return(jen.Id("res"), jen.False()),
			),
			jen.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("rec")).Block(
				jen.Switch(jen.Id("c").Dot("Name")).Block(cases...),
			),
			jen.Return(jen.Id("res"), jen.True()),
		)
	return f, nil
}

// FieldNames maps capture names to unique exported Go identifiers.
func FieldNames(names []string) []string {
	res := make([]string, len(names))
	used := make(map[string]bool)
	for i, nm := range names {
		fn := exported(nm)
		base := fn
		for n := 2; used[fn]; n++ {
			fn = fmt.Sprintf("%s%d", base, n)
		}
		used[fn] = true
		res[i] = fn
	}
	return res
}

func exported(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			sb.WriteRune(r)
		default:
			upper = true
		}
	}
	res := sb.String()
	if res == "" {
		return "Field"
	}
	if r := []rune(res)[0]; !unicode.IsLetter(r) {
		return "F" + res
	}
	return res
}

func lowerFirst(s string) string {
	rs := []rune(s)
	rs[0] = unicode.ToLower(rs[0])
	return string(rs)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !(r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return true
}
