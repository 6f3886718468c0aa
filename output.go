package logpick

import (
	"bufio"
	"fmt"
	"io"
)

// Format selects how a Writer lays out records.
type Format int

const (
	// One record per line.
	FormatLines Format = iota
	// All records in a single bracketed list, one record per line.
	FormatList
)

func (f Format) String() string {
	switch f {
	case FormatLines:
		return "lines"
	case FormatList:
		return "list"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "lines":
		return FormatLines, nil
	case "list":
		return FormatList, nil
	}
	return FormatLines, fmt.Errorf("unknown output format '%s'", s)
}

// Writer writes records to an output stream. Call Close to complete the output;
// it does not close the underlying writer.
type Writer struct {
	// Raw selects the legacy format without escaping.
	Raw bool

	wr     *bufio.Writer
	format Format
	n      int
	buf    []byte
}

func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{wr: bufio.NewWriter(w), format: f}
}

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.n }

func (w *Writer) Write(rec Record) error {
	w.buf = w.buf[:0]
	if w.format == FormatList {
		if w.n == 0 {
			w.buf = append(w.buf, '[', '\n')
		} else {
			w.buf = append(w.buf, ',', '\n')
		}
	}
	if w.Raw {
		w.buf = rec.AppendRaw(w.buf)
	} else {
		w.buf = rec.AppendJSON(w.buf)
	}
	if w.format == FormatLines {
		w.buf = append(w.buf, '\n')
	}
	if _, err := w.wr.Write(w.buf); err != nil {
		return err
	}
	w.n++
	return nil
}

func (w *Writer) Close() (err error) {
	if w.format == FormatList {
		if w.n == 0 {
			_, err = w.wr.WriteString("[\n]\n")
		} else {
			_, err = w.wr.WriteString("\n]\n")
		}
		if err != nil {
			return err
		}
	}
	return w.wr.Flush()
}
