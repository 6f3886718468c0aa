package logpick

import (
	"bytes"
	"encoding/json"
)

// Capture is a named value extracted from a line.
type Capture struct {
	Name  string
	Value string
}

// Record holds the captures of one line in the order they were first matched.
// Names are unique. Neither names nor values are empty.
type Record []Capture

func (r *Record) set(name, value string) {
	if name == "" || value == "" {
		return
	}
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Capture{Name: name, Value: value})
}

func (r Record) Empty() bool { return len(r) == 0 }

func (r Record) Len() int { return len(r) }

func (r Record) Get(name string) (string, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func (r Record) Names() []string {
	res := make([]string, len(r))
	for i, c := range r {
		res[i] = c.Name
	}
	return res
}

func (r Record) Map() map[string]string {
	res := make(map[string]string, len(r))
	for _, c := range r {
		res[c.Name] = c.Value
	}
	return res
}

// AppendJSON appends the record as a JSON object with properly escaped names
// and values. HTML characters are not escaped.
func (r Record) AppendJSON(dst []byte) []byte {
	dst = append(dst, '{')
	for i, c := range r {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendJSONString(dst, c.Name)
		dst = append(dst, ':')
		dst = appendJSONString(dst, c.Value)
	}
	return append(dst, '}')
}

// AppendRaw appends the record in the legacy format that writes names and
// values verbatim between double quotes. The result is not valid JSON if a
// name or value contains '"', '\' or control characters.
func (r Record) AppendRaw(dst []byte) []byte {
	dst = append(dst, '{')
	for i, c := range r {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '"')
		dst = append(dst, c.Name...)
		dst = append(dst, '"', ':', '"')
		dst = append(dst, c.Value...)
		dst = append(dst, '"')
	}
	return append(dst, '}')
}

func (r Record) MarshalJSON() ([]byte, error) {
	return r.AppendJSON(nil), nil
}

func (r Record) String() string { return string(r.AppendJSON(nil)) }

func appendJSONString(dst []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic(err) // encoding a string cannot fail
	}
	return append(dst, bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})...)
}
