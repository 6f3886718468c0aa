package logpick

// state is one position of a literal's matching automaton. When the scan is
// at this state and the next rune equals target it advances, otherwise it
// falls back to state fallback.
type state struct {
	target   rune
	fallback int
}

// literal is the compiled separator of a segment. Its zero value is the empty
// literal which is matched without consuming any input.
type literal struct {
	states []state
	// length of the longest proper prefix that is also a suffix of the runes
	// appended so far; only used while building
	x int
}

func newLiteral(s string) (l literal) {
	for _, r := range s {
		l.append(r)
	}
	return l
}

// append extends the literal by c and computes the fallback of the new state
// with the prefix function.
func (l *literal) append(c rune) {
	i := len(l.states)
	l.states = append(l.states, state{target: c, fallback: l.x})
	if i == 0 {
		return
	}
	for l.x > 0 && l.states[l.x].target != c {
		l.x = l.states[l.x].fallback
	}
	if l.states[l.x].target == c {
		l.x++
	}
}

func (l *literal) len() int { return len(l.states) }

func (l *literal) empty() bool { return len(l.states) == 0 }

func (l *literal) String() string {
	rs := make([]rune, len(l.states))
	for i, s := range l.states {
		rs[i] = s.target
	}
	return string(rs)
}
