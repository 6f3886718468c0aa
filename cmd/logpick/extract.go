package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/fractalqb/logpick"
	"github.com/fractalqb/logpick/internal/config"
)

func init() {
	extractCmd.RunE = extractFiles
	flags := extractCmd.Flags()
	flags.StringVarP(&extractCmd.opts.template, "template", "t", "",
		"Set the template")
	flags.StringVarP(&extractCmd.opts.name, "name", "n", "",
		"Use the named template from the config file")
	extractCmd.MarkFlagsMutuallyExclusive("template", "name")
	flags.StringVarP(&extractCmd.opts.format, "format", "f", "",
		"Set output format: lines or list (default lines)")
	flags.BoolVar(&extractCmd.opts.raw, "raw", false,
		"Write names and values without JSON escaping")
	flags.IntVarP(&extractCmd.opts.workers, "workers", "w", 0,
		"Set number of goroutines that parse lines")
	flags.StringVar(&extractCmd.opts.filter, "filter", "",
		"Only parse lines that match this regular expression")
	flags.StringArrayVar(&extractCmd.opts.exclude, "exclude", nil,
		"Skip lines containing this text (repeatable)")
	flags.IntVar(&extractCmd.opts.maxLine, "max-line", 0,
		"Set the maximum line length in bytes")
	rootCmd.AddCommand(&extractCmd.Command)
}

var extractCmd = struct {
	cobra.Command
	opts extractOptions
}{
	Command: cobra.Command{
		Use:   "extract [flags] [file...]",
		Short: "Extract records from files or stdin",
	},
}

type extractOptions struct {
	template string
	name     string
	format   string
	raw      bool
	workers  int
	filter   string
	exclude  []string
	maxLine  int
}

func extractFiles(cmd *cobra.Command, files []string) error {
	opts := extractCmd.opts
	cfg := *rootCmd.cfg
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("raw") {
		cfg.Raw = opts.raw
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("filter") {
		cfg.Filter = opts.filter
	}
	if flags.Changed("exclude") {
		cfg.Exclude = opts.exclude
	}
	if flags.Changed("max-line") {
		cfg.MaxLineSize = opts.maxLine
	}
	opts.format = ""
	return opts.run(cmd.InOrStdin(), cmd.OutOrStdout(), &cfg, files)
}

func (opts *extractOptions) templateSource(cfg *config.Config) (string, error) {
	switch {
	case opts.template != "":
		return opts.template, nil
	case opts.name != "":
		return cfg.Template(opts.name)
	}
	return "", errors.New("missing template, use --template or --name")
}

// run extracts the records of files, or of in if there are no files. A
// non-empty opts.format overrides the configured format.
func (opts *extractOptions) run(in io.Reader, out io.Writer, cfg *config.Config, files []string) error {
	src, err := opts.templateSource(cfg)
	if err != nil {
		return err
	}
	tmpl, err := logpick.Compile(src)
	if err != nil {
		return err
	}
	format := opts.format
	if format == "" {
		format = cfg.Format
	}
	f, err := logpick.ParseFormat(format)
	if err != nil {
		return err
	}
	filter, err := cfg.LineFilter()
	if err != nil {
		return err
	}
	wr := logpick.NewWriter(out, f)
	wr.Raw = cfg.Raw
	var current string
	sc := logpick.Scan{
		Template:    tmpl,
		Filter:      filter,
		Workers:     cfg.Workers,
		MaxLineSize: cfg.MaxLineSize,
		OnRecord: func(_ int, rec logpick.Record) error {
			return wr.Write(rec)
		},
		OnSkip: func(lno int, line string, filtered bool) {
			log.Debug("skip line",
				"input", current,
				"line", lno,
				"filtered", filtered,
				"text", line,
			)
		},
	}
	log.Debug("compiled template",
		"template", tmpl.String(),
		"captures", tmpl.Names(),
	)
	if len(files) == 0 {
		current = "stdin"
		err = scanInput(current, func() (logpick.Stats, error) {
			return sc.Reader(in)
		})
	}
	for _, file := range files {
		if err != nil {
			break
		}
		current = file
		err = scanInput(current, func() (logpick.Stats, error) {
			return sc.File(file)
		})
	}
	if cerr := wr.Close(); err == nil {
		err = cerr
	}
	return err
}

func scanInput(name string, scan func() (logpick.Stats, error)) error {
	st, err := scan()
	if err != nil {
		return &inputError{name: name, err: err}
	}
	log.Debug("scanned input",
		"input", name,
		"lines", st.Lines,
		"records", st.Records,
		"empty", st.Empty,
		"filtered", st.Filtered,
	)
	return nil
}

type inputError struct {
	name string
	err  error
}

func (e *inputError) Error() string { return e.name + ": " + e.err.Error() }

func (e *inputError) Unwrap() error { return e.err }
