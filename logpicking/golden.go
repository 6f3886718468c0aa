// Package logpicking supports checking extracted records in your Go tests
// against golden files.
//
// Example compares the records extracted from app.log with the golden file
// testdata/TestAppLog.jsonl:
//
//	func TestAppLog(t *testing.T) {
//		tmpl := logpick.MustCompile("[{ts}] level={level} msg={msg}")
//		f, _ := os.Open("app.log")
//		defer f.Close()
//		logpicking.Fatal(t, tmpl, "", f)
//	}
//
// The golden file holds one JSON record per line, each prefixed with the
// number of the input line it was extracted from:
//
//	1 {"ts":"2023-06-27 21:58:11","level":"INFO","msg":"starting"}
//	3 {"ts":"2023-06-27 21:58:12","level":"WARN","msg":"low memory"}
package logpicking

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/fractalqb/logpick"
)

// When this environment variable is set to a regexp and the name of the current
// test matches, calls to Error or Fatal will record the records as new golden
// data instead of comparing them. E.g.
//
//	LOGPICKING_RECORD=TestAppLog go test .
const RecordEnv = "LOGPICKING_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata (see go help
// test).
const GoTestdataDir = "testdata"

func Error(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) error {
	return defaultConfig.Error(t, tmpl, hint, subj)
}

func Fatal(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) {
	defaultConfig.Fatal(t, tmpl, hint, subj)
}

func Record(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) {
	defaultConfig.Record(t, tmpl, hint, subj)
}

type GoldenRepo struct {
	Dir    string
	Suffix string
}

const (
	StdSuffix = ".jsonl"
	NoSuffix  = "\x00"
)

func (gr GoldenRepo) Filename(t *testing.T, hint string) string {
	suffix := gr.Suffix
	switch suffix {
	case "":
		suffix = StdSuffix
	case NoSuffix:
		suffix = ""
	}
	if hint == "" {
		return filepath.Join(gr.Dir, t.Name()+suffix)
	}
	if suffix == "" || strings.HasSuffix(hint, suffix) {
		return filepath.Join(gr.Dir, t.Name(), hint)
	}
	return filepath.Join(gr.Dir, t.Name(), hint+suffix)
}

type Config struct {
	GoldenFileName  func(t *testing.T, hint string) string
	MismatchLimit   int
	RecordOverwrite bool
}

var defaultConfig = Config{
	GoldenFileName:  GoldenRepo{Dir: GoTestdataDir}.Filename,
	MismatchLimit:   1,
	RecordOverwrite: false,
}

// ErrMismatch is wrapped by the errors of Config.Error.
var ErrMismatch = errors.New("records differ from golden file")

func (cfg Config) Error(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) error {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, tmpl, hint, subj)
		return nil
	}
	err := cfg.compare(t, tmpl, hint, subj)
	if err != nil {
		t.Error(err)
	}
	return err
}

func (cfg Config) Fatal(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, tmpl, hint, subj)
		return
	}
	if err := cfg.compare(t, tmpl, hint, subj); err != nil {
		t.Fatal(err)
	}
}

func recordTest(t *testing.T) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("logpicking: invalid regexp '%s' in %s, not recording: %s", rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

// Lines extracts the records from subj in golden file format.
func Lines(tmpl *logpick.Template, subj io.Reader) ([]string, error) {
	var res []string
	sc := logpick.Scan{
		Template: tmpl,
		OnRecord: func(lno int, rec logpick.Record) error {
			res = append(res, strconv.Itoa(lno)+" "+rec.String())
			return nil
		},
	}
	_, err := sc.Reader(subj)
	return res, err
}

func (cfg *Config) compare(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) error {
	goldfile := cfg.GoldenFileName(t, hint)
	gold, err := os.ReadFile(goldfile)
	if os.IsNotExist(err) {
		t.Logf("to record a golden file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv,
			t.Name(),
		)
		return fmt.Errorf("golden file %s does not exist", goldfile)
	} else if err != nil {
		return err
	}
	have, err := Lines(tmpl, subj)
	if err != nil {
		return err
	}
	var want []string
	scn := bufio.NewScanner(bytes.NewReader(gold))
	for scn.Scan() {
		if l := scn.Text(); l != "" {
			want = append(want, l)
		}
	}
	if err = scn.Err(); err != nil {
		return err
	}
	if hint == "" {
		hint = "record"
	}
	misses := 0
	for i := 0; i < max(len(have), len(want)); i++ {
		var h, w string
		if i < len(have) {
			h = have[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if h == w {
			continue
		}
		misses++
		t.Logf("%s %d:\n have [%s]\n want [%s]", hint, i+1, h, w)
		if cfg.MismatchLimit > 0 && misses >= cfg.MismatchLimit {
			break
		}
	}
	if misses > 0 {
		return fmt.Errorf("%s: %w", goldfile, ErrMismatch)
	}
	return nil
}

func (cfg Config) Record(t *testing.T, tmpl *logpick.Template, hint string, subj io.Reader) {
	t.Helper()
	goldfile := cfg.GoldenFileName(t, hint)
	if _, err := os.Stat(goldfile); !os.IsNotExist(err) && !cfg.RecordOverwrite {
		t.Fatalf("logpicking: golden file '%s' already exists", goldfile)
	}
	if err := os.MkdirAll(filepath.Dir(goldfile), 0777); err != nil {
		t.Fatal(err)
	}
	lines, err := Lines(tmpl, subj)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if err = os.WriteFile(goldfile, buf.Bytes(), 0666); err != nil {
		t.Fatal(err)
	}
	t.Errorf("logpicking recorder wrote: %s", goldfile)
}
