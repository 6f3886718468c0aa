package main

import (
	"github.com/spf13/cobra"

	"github.com/fractalqb/logpick/internal/gen"
)

func init() {
	generateCmd.RunE = generateCode
	flags := generateCmd.Flags()
	flags.StringVarP(&generateCmd.template, "template", "t", "",
		"Set the template")
	flags.StringVarP(&generateCmd.tmplName, "template-name", "n", "",
		"Use the named template from the config file")
	generateCmd.MarkFlagsMutuallyExclusive("template", "template-name")
	flags.StringVar(&generateCmd.opts.Name, "name", "",
		"Set the name of the generated type")
	generateCmd.MarkFlagRequired("name")
	flags.StringVarP(&generateCmd.opts.Package, "package", "p", "main",
		"Set the package of the generated code")
	flags.StringVarP(&generateCmd.opts.OutputFile, "output", "o", "",
		"Set the output file")
	generateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(&generateCmd.Command)
}

var generateCmd = struct {
	cobra.Command
	template string
	tmplName string
	opts     gen.Options
}{
	Command: cobra.Command{
		Use:   "generate",
		Short: "Generate Go code with a typed parse function for a template",
		Args:  cobra.NoArgs,
	},
}

func generateCode(cmd *cobra.Command, _ []string) (err error) {
	src := extractOptions{template: generateCmd.template, name: generateCmd.tmplName}
	opts := generateCmd.opts
	if opts.Template, err = src.templateSource(rootCmd.cfg); err != nil {
		return err
	}
	if err = gen.Generate(opts); err != nil {
		return err
	}
	log.Info("generated code",
		"file", opts.OutputFile,
		"type", opts.Name,
	)
	return nil
}
