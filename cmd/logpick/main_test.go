package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalqb/logpick"
	"github.com/fractalqb/logpick/internal/config"
)

const appLog = `[21:58:11] level=INFO msg=starting
# comment
[21:58:12] level=WARN msg=say "hi"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// resetFlags restores the flag state that cobra keeps between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.cfgFile, rootCmd.verbose = "", false
		extractCmd.opts = extractOptions{}
		checkCmd.template, checkCmd.name = "", ""
		generateCmd.template, generateCmd.tmplName = "", ""
		generateCmd.opts.Name, generateCmd.opts.Package, generateCmd.opts.OutputFile = "", "main", ""
		resetFlags(&rootCmd.Command)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

const kvConfig = `templates:
  kv: '{k}={v}'
format: list
workers: 2
exclude: ['#']
`

const kvInput = "#x=y\na=\"1\"\nb=2\n"

func TestLegacyInvocation(t *testing.T) {
	file := writeFile(t, "app.log", appLog)
	out, err := execute(t, file, "[{ts}] level={level} msg={msg}")
	require.NoError(t, err)
	assert.Equal(t, `[
{"ts":"21:58:11","level":"INFO","msg":"starting"},
{"ts":"21:58:12","level":"WARN","msg":"say \"hi\""}
]
`, out)
}

func TestLegacyInvocation_badTemplate(t *testing.T) {
	file := writeFile(t, "app.log", appLog)
	_, err := execute(t, file, "{a}{b}")
	assert.ErrorIs(t, err, logpick.ErrConsecutiveCaptures)
}

func TestExtractOptions_run(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude = []string{"WARN"}
	cfg.Raw = true
	opts := extractOptions{template: "[{ts}] level={level} msg={msg}"}
	var out bytes.Buffer
	err := opts.run(strings.NewReader(appLog), &out, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ts":"21:58:11","level":"INFO","msg":"starting"}`+"\n", out.String())
}

func TestExtractOptions_namedTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.Templates = map[string]string{"kv": "{k}={v}"}
	cfg.Workers = 3
	file := writeFile(t, "kv.txt", "a=1\nb=2\n")
	opts := extractOptions{name: "kv", format: "list"}
	var out bytes.Buffer
	require.NoError(t, opts.run(nil, &out, cfg, []string{file}))
	assert.Equal(t, "[\n{\"k\":\"a\",\"v\":\"1\"},\n{\"k\":\"b\",\"v\":\"2\"}\n]\n", out.String())

	opts = extractOptions{name: "missing"}
	assert.Error(t, opts.run(nil, &out, cfg, []string{file}))
	opts = extractOptions{}
	assert.Error(t, opts.run(nil, &out, cfg, []string{file}))
}

func TestExtractOptions_missingFile(t *testing.T) {
	opts := extractOptions{template: "{x}"}
	var out bytes.Buffer
	err := opts.run(nil, &out, config.Default(), []string{filepath.Join(t.TempDir(), "nope")})
	var ierr *inputError
	require.ErrorAs(t, err, &ierr)
	assert.True(t, os.IsNotExist(ierr.Unwrap()))
}

func TestPrintSegments(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printSegments(&out, logpick.MustCompile("aab{x}abab")))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"#", "CAPTURE", "LITERAL", "FALLBACKS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "-", `"aab"`, "[0", "0", "1]"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "x", `"abab"`, "[0", "0", "0", "1]"}, strings.Fields(lines[2]))
}

func TestExtract_config(t *testing.T) {
	cfgPath := writeFile(t, "logpick.yaml", kvConfig)
	file := writeFile(t, "kv.txt", kvInput)
	t.Run("from config", func(t *testing.T) {
		out, err := execute(t, "-c", cfgPath, "extract", "-n", "kv", file)
		require.NoError(t, err)
		assert.Equal(t, `[
{"k":"a","v":"\"1\""},
{"k":"b","v":"2"}
]
`, out)
	})
	t.Run("flags override", func(t *testing.T) {
		out, err := execute(t, "-c", cfgPath, "extract", "-n", "kv",
			"-f", "lines", "--raw", "-w", "0", "--exclude", "b=", file)
		require.NoError(t, err)
		assert.Equal(t, `{"k":"#x","v":"y"}
{"k":"a","v":""1""}
`, out)
	})
	t.Run("filter", func(t *testing.T) {
		out, err := execute(t, "-c", cfgPath, "extract", "-n", "kv",
			"--filter", "^b", "-f", "lines", file)
		require.NoError(t, err)
		assert.Equal(t, `{"k":"b","v":"2"}`+"\n", out)
	})
	t.Run("max line", func(t *testing.T) {
		_, err := execute(t, "-c", cfgPath, "extract", "-n", "kv", "--max-line", "2", file)
		var lerr logpick.LineError
		require.True(t, errors.As(err, &lerr))
		assert.Equal(t, 1, lerr.Line)
	})
	t.Run("unknown name", func(t *testing.T) {
		_, err := execute(t, "-c", cfgPath, "extract", "-n", "nope", file)
		assert.Error(t, err)
	})
	t.Run("bad config", func(t *testing.T) {
		_, err := execute(t, "-c", writeFile(t, "bad.yaml", "format: xml\n"), "extract", "-t", "{x}", file)
		assert.Error(t, err)
	})
}

func TestCheck(t *testing.T) {
	cfgPath := writeFile(t, "logpick.yaml", kvConfig)
	t.Run("named", func(t *testing.T) {
		out, err := execute(t, "-c", cfgPath, "check", "-n", "kv")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, []string{"0", "-", `""`, "[]"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"1", "k", `"="`, "[0]"}, strings.Fields(lines[2]))
		assert.Equal(t, []string{"2", "v", `""`, "[]"}, strings.Fields(lines[3]))
	})
	t.Run("bad template", func(t *testing.T) {
		_, err := execute(t, "check", "-t", "{a}{b}")
		assert.ErrorIs(t, err, logpick.ErrConsecutiveCaptures)
	})
}

func TestGenerate(t *testing.T) {
	cfgPath := writeFile(t, "logpick.yaml", kvConfig)
	outFile := filepath.Join(t.TempDir(), "kv_gen.go")
	t.Run("named", func(t *testing.T) {
		_, err := execute(t, "-c", cfgPath, "generate",
			"-n", "kv", "--name", "KV", "-p", "logs", "-o", outFile)
		require.NoError(t, err)
		code, err := os.ReadFile(outFile)
		require.NoError(t, err)
		assert.Contains(t, string(code), "package logs")
		assert.Contains(t, string(code), "func ParseKV(line string) (res KV, ok bool)")
	})
	t.Run("missing type name", func(t *testing.T) {
		_, err := execute(t, "generate", "-t", "{x}", "-o", outFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"name"`)
	})
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestPrintSegments_writeError(t *testing.T) {
	err := printSegments(failWriter{}, logpick.MustCompile("a{x}b"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
