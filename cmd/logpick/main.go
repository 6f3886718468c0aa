// A command line tool to extract fields from log files
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fractalqb/logpick/internal/config"
)

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.RunE = legacyExtract
	rootCmd.PersistentFlags().StringVarP(&rootCmd.cfgFile, "config", "c", "",
		"Read settings and named templates from YAML file")
	rootCmd.PersistentFlags().BoolVarP(&rootCmd.verbose, "verbose", "v", false,
		"Log debug messages to stderr")
}

var rootCmd = struct {
	cobra.Command
	cfgFile string
	verbose bool
	cfg     *config.Config
}{
	Command: cobra.Command{
		Use:   "logpick <file> <template>",
		Short: "Extract named fields from log lines",
		Long: `Extract named fields from the lines of a log file with a template like

   [{ts}] level={level} msg={msg}

Literal text in the template separates the captures in curly braces. Each
input line that yields at least one non-empty capture is written as a JSON
object. Called with a file and a template, logpick writes all records as a
JSON list.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
	},
}

var log = slog.New(slog.NewTextHandler(os.Stderr, nil))

func setup(cmd *cobra.Command, args []string) (err error) {
	if rootCmd.verbose {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	if rootCmd.cfgFile == "" {
		rootCmd.cfg = config.Default()
		return nil
	}
	if rootCmd.cfg, err = config.Load(rootCmd.cfgFile); err != nil {
		return err
	}
	log.Debug("loaded config",
		"file", rootCmd.cfgFile,
		"templates", rootCmd.cfg.TemplateNames(),
	)
	return nil
}

func legacyExtract(cmd *cobra.Command, args []string) error {
	opts := extractOptions{
		template: args[1],
		format:   "list",
	}
	return opts.run(cmd.InOrStdin(), cmd.OutOrStdout(), rootCmd.cfg, args[:1])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
