package logpick

// Matcher scans for the literal of one segment. It borrows the segment from its
// template and owns the scan state. A Matcher must not be used concurrently.
type Matcher struct {
	seg *Segment
	y   int
	buf []rune
}

func NewMatcher(seg *Segment) *Matcher {
	return &Matcher{seg: seg}
}

// Reset prepares the matcher for the next scan. The buffer's capacity is kept.
func (m *Matcher) Reset() {
	m.y = 0
	m.buf = m.buf[:0]
}

// Matched reports whether the segment's literal was found. A segment with an
// empty literal is always matched.
func (m *Matcher) Matched() bool { return m.y == m.seg.lit.len() }

// Feed consumes c and reports whether this completed the literal. Once a
// non-empty literal is matched, Feed does not consume any more runes until the
// matcher is reset. With an empty literal Feed consumes everything and never
// reports a match.
func (m *Matcher) Feed(c rune) bool {
	states := m.seg.lit.states
	if len(states) > 0 && m.y == len(states) {
		return true
	}
	m.buf = append(m.buf, c)
	if len(states) == 0 {
		return false
	}
	for {
		st := &states[m.y]
		if st.target == c {
			m.y++
			break
		}
		if m.y == 0 {
			break
		}
		m.y = st.fallback
	}
	return m.y == len(states)
}

// Value returns what was consumed in front of the matched literal.
func (m *Matcher) Value() string {
	n := len(m.buf) - m.y
	if n <= 0 {
		return ""
	}
	return string(m.buf[:n])
}
