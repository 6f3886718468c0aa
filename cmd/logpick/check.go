package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fractalqb/logpick"
)

func init() {
	checkCmd.RunE = checkTemplate
	checkCmd.Flags().StringVarP(&checkCmd.template, "template", "t", "",
		"Set the template")
	checkCmd.Flags().StringVarP(&checkCmd.name, "name", "n", "",
		"Use the named template from the config file")
	checkCmd.MarkFlagsMutuallyExclusive("template", "name")
	rootCmd.AddCommand(&checkCmd.Command)
}

var checkCmd = struct {
	cobra.Command
	template string
	name     string
}{
	Command: cobra.Command{
		Use:   "check",
		Short: "Compile a template and show its segments",
		Args:  cobra.NoArgs,
	},
}

func checkTemplate(cmd *cobra.Command, _ []string) error {
	opts := extractOptions{template: checkCmd.template, name: checkCmd.name}
	src, err := opts.templateSource(rootCmd.cfg)
	if err != nil {
		return err
	}
	tmpl, err := logpick.Compile(src)
	if err != nil {
		return err
	}
	return printSegments(cmd.OutOrStdout(), tmpl)
}

func printSegments(w io.Writer, tmpl *logpick.Template) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "#\tCAPTURE\tLITERAL\tFALLBACKS"); err != nil {
		return err
	}
	for i, seg := range tmpl.Segments() {
		name := seg.Name()
		if name == "" {
			name = "-"
		}
		fbs := make([]string, 0, len(seg.Fallbacks()))
		for _, fb := range seg.Fallbacks() {
			fbs = append(fbs, fmt.Sprint(fb))
		}
		_, err := fmt.Fprintf(tw, "%d\t%s\t%q\t[%s]\n", i, name, seg.Literal(), strings.Join(fbs, " "))
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}
