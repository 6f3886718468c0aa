package logpick

import "unicode/utf8"

// Parser extracts records from single lines. It reuses its matchers from line
// to line and must not be used concurrently. Use one Parser per goroutine with
// a shared Template.
type Parser struct {
	tmpl *Template
	ms   []Matcher
}

func (t *Template) NewParser() *Parser {
	p := &Parser{
		tmpl: t,
		ms:   make([]Matcher, len(t.segs)),
	}
	for i := range t.segs {
		p.ms[i].seg = &t.segs[i]
	}
	return p
}

func (p *Parser) Template() *Template { return p.tmpl }

// Parse runs the line through the template's segments. The scan never rewinds:
// each segment continues where the previous segment's literal ended. When the
// line ends before a literal is found, the segments from there on contribute
// nothing. An empty Record means the line has no result.
func (p *Parser) Parse(line string) (rec Record) {
	pos := 0
	last := len(p.ms) - 1
	for i := range p.ms {
		m := &p.ms[i]
		m.Reset()
		if m.seg.lit.empty() {
			if i < last {
				continue
			}
			for _, c := range line[pos:] {
				m.Feed(c)
			}
			pos = len(line)
			rec.set(m.seg.name, m.Value())
			break
		}
		matched := false
		for pos < len(line) {
			c, sz := utf8.DecodeRuneInString(line[pos:])
			pos += sz
			if m.Feed(c) {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		rec.set(m.seg.name, m.Value())
	}
	return rec
}

// Extract parses a single line with a fresh Parser. Prefer a Parser when
// processing many lines.
func (t *Template) Extract(line string) Record {
	return t.NewParser().Parse(line)
}
