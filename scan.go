package logpick

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"git.fractalqb.de/fractalqb/icontainer/islist"
)

// DefaultMaxLineSize is the longest input line a Scan accepts by default.
const DefaultMaxLineSize = 1024 * 1024

var ErrNoTemplate = errors.New("no template")

// RecordFunc is called for each line that yields a non-empty record. Returning
// an error aborts the scan.
type RecordFunc func(lineNo int, rec Record) error

// SkipFunc is called for each line that yields no record. Filtered is true if
// the line was rejected by the scan's filter before parsing.
type SkipFunc func(lineNo int, line string, filtered bool)

// Scan extracts records from all lines of a text. A Scan can be reused for
// more than one text but must not be used concurrently.
type Scan struct {
	Template *Template
	// Only lines accepted by Filter are parsed. A nil Filter accepts all lines.
	Filter LineFilter
	// Number of goroutines that parse lines. If Workers <= 1 lines are parsed
	// sequentially. Records are reported in input order in any case.
	Workers int
	// If MaxLineSize <= 0, DefaultMaxLineSize is used.
	MaxLineSize int

	OnRecord RecordFunc
	OnSkip   SkipFunc
}

// Stats counts the lines of a scan.
type Stats struct {
	Lines    int
	Records  int
	Empty    int
	Filtered int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d lines: %d records, %d empty, %d filtered",
		s.Lines, s.Records, s.Empty, s.Filtered)
}

type LineError struct {
	Line int
	err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d:%s", e.Line, e.err)
}

func (e LineError) Unwrap() error { return e.err }

func (sc *Scan) Reader(rd io.Reader) (st Stats, err error) {
	if sc.Template == nil {
		return st, ErrNoTemplate
	}
	lines := bufio.NewScanner(rd)
	maxLn := sc.MaxLineSize
	if maxLn <= 0 {
		maxLn = DefaultMaxLineSize
	}
	lines.Buffer(make([]byte, 0, min(maxLn, bufio.MaxScanTokenSize)), maxLn)
	if sc.Workers > 1 {
		err = sc.parallel(lines, &st)
	} else {
		err = sc.sequential(lines, &st)
	}
	return st, err
}

func (sc *Scan) String(text string) (Stats, error) {
	return sc.Reader(strings.NewReader(text))
}

func (sc *Scan) File(name string) (Stats, error) {
	f, err := os.Open(name)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()
	return sc.Reader(f)
}

func (sc *Scan) sequential(lines *bufio.Scanner, st *Stats) error {
	p := sc.Template.NewParser()
	for lines.Scan() {
		st.Lines++
		line := lines.Text()
		if sc.Filter != nil && !sc.Filter.Accept(line) {
			sc.skip(st, st.Lines, line, true)
			continue
		}
		if err := sc.emit(st, st.Lines, line, p.Parse(line)); err != nil {
			return err
		}
	}
	if err := lines.Err(); err != nil {
		return LineError{Line: st.Lines + 1, err: err}
	}
	return nil
}

// lineJob is a line in flight between the reading goroutine and the workers.
// Pending jobs are queued in input order.
type lineJob struct {
	no       int
	line     string
	filtered bool
	rec      Record
	done     chan struct{}
	next     *lineJob
}

// ListNext to implement intrusive singly linked list
func (j *lineJob) ListNext() islist.Node {
	if j.next == nil {
		return nil
	}
	return j.next
}

// SetListNext to implement intrusive singly linked list
func (j *lineJob) SetListNext(n islist.Node) {
	if n == nil {
		j.next = nil
	} else {
		j.next = n.(*lineJob)
	}
}

func (sc *Scan) parallel(lines *bufio.Scanner, st *Stats) (err error) {
	jobs := make(chan *lineJob, sc.Workers)
	var wg sync.WaitGroup
	for range sc.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := sc.Template.NewParser()
			for j := range jobs {
				j.rec = p.Parse(j.line)
				close(j.done)
			}
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()
	var (
		pending *islist.List
		window  = 4 * sc.Workers
		lno     = 0
	)
	for lines.Scan() {
		lno++
		j := &lineJob{no: lno, line: lines.Text(), done: make(chan struct{})}
		if pending == nil {
			pending = islist.New(j)
		} else {
			pending.PushBack(j)
		}
		if sc.Filter != nil && !sc.Filter.Accept(j.line) {
			j.filtered = true
			close(j.done)
		} else {
			jobs <- j
		}
		for pending.Len() >= window {
			if err = sc.finish(st, pending); err != nil {
				return err
			}
		}
	}
	for pending != nil && pending.Len() > 0 {
		if err = sc.finish(st, pending); err != nil {
			return err
		}
	}
	if err = lines.Err(); err != nil {
		return LineError{Line: lno + 1, err: err}
	}
	return nil
}

// finish waits for the oldest pending job and reports its result.
func (sc *Scan) finish(st *Stats, pending *islist.List) error {
	j := pending.Front().(*lineJob)
	<-j.done
	pending.Drop(1)
	st.Lines++
	if j.filtered {
		sc.skip(st, j.no, j.line, true)
		return nil
	}
	return sc.emit(st, j.no, j.line, j.rec)
}

func (sc *Scan) emit(st *Stats, lno int, line string, rec Record) error {
	if rec.Empty() {
		sc.skip(st, lno, line, false)
		return nil
	}
	st.Records++
	if sc.OnRecord != nil {
		if err := sc.OnRecord(lno, rec); err != nil {
			return LineError{Line: lno, err: err}
		}
	}
	return nil
}

func (sc *Scan) skip(st *Stats, lno int, line string, filtered bool) {
	if filtered {
		st.Filtered++
	} else {
		st.Empty++
	}
	if sc.OnSkip != nil {
		sc.OnSkip(lno, line, filtered)
	}
}
