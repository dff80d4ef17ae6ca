// Package parsers tokenizes the line-oriented metrics exposition format:
//
//	metric_name{key="value",key2="value2"} 42.5
//
// It knows nothing about GPUs; callers decide which metrics and labels matter.
package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

// Label is one key="value" pair from a sample's label block.
type Label struct {
	Name  string
	Value string
}

// Labels keeps the pairs in the order they appeared on the line.
type Labels []Label

// Get returns the value of the first label called name.
func (l Labels) Get(name string) (string, bool) {
	for _, label := range l {
		if label.Name == name {
			return label.Value, true
		}
	}
	return "", false
}

// Sample is one parsed metric line.
type Sample struct {
	Metric string
	Labels Labels
	Value  float64
}

// ValueError reports a line that has the metric shape but a value that is
// not a number.
type ValueError struct {
	Metric string
	Raw    string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Raw, e.Metric)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// ParseLine tokenizes a single line.
//
// It returns ok=false with a nil error for blank lines, comments, and
// anything that does not have the metric{labels} value shape. A line with
// the right shape but an unparseable value returns a *ValueError.
func ParseLine(line string) (Sample, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return Sample{}, false, nil
	}

	t := tokenizer{s: line}

	metric := t.name(isMetricStart, isMetricChar)
	if metric == "" || !t.consume('{') {
		return Sample{}, false, nil
	}

	labels, ok := t.labels()
	if !ok {
		return Sample{}, false, nil
	}

	rest := t.s[t.pos:]
	if rest == "" || !isSpace(rest[0]) {
		return Sample{}, false, nil
	}

	// value, plus an optional timestamp we don't use
	fields := strings.Fields(rest)
	if len(fields) == 0 || len(fields) > 2 {
		return Sample{}, false, nil
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Sample{}, false, &ValueError{Metric: metric, Raw: fields[0], Err: err}
	}

	return Sample{Metric: metric, Labels: labels, Value: value}, true, nil
}

// tokenizer walks a single line left to right.
type tokenizer struct {
	s   string
	pos int
}

func (t *tokenizer) peek() (byte, bool) {
	if t.pos >= len(t.s) {
		return 0, false
	}
	return t.s[t.pos], true
}

func (t *tokenizer) consume(c byte) bool {
	if b, ok := t.peek(); ok && b == c {
		t.pos++
		return true
	}
	return false
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.s) && isSpace(t.s[t.pos]) {
		t.pos++
	}
}

// name reads an identifier and returns "" when none starts at pos.
func (t *tokenizer) name(start, char func(byte) bool) string {
	b, ok := t.peek()
	if !ok || !start(b) {
		return ""
	}
	begin := t.pos
	t.pos++
	for t.pos < len(t.s) && char(t.s[t.pos]) {
		t.pos++
	}
	return t.s[begin:t.pos]
}

// labels reads everything after '{' up to and including the closing '}'.
func (t *tokenizer) labels() (Labels, bool) {
	var labels Labels
	for {
		t.skipSpace()
		if t.consume('}') {
			return labels, true
		}

		key := t.name(isLabelStart, isLabelChar)
		if key == "" {
			return nil, false
		}
		t.skipSpace()
		if !t.consume('=') {
			return nil, false
		}
		t.skipSpace()
		value, ok := t.quoted()
		if !ok {
			return nil, false
		}
		labels = append(labels, Label{Name: key, Value: value})

		t.skipSpace()
		if t.consume(',') {
			continue
		}
		if t.consume('}') {
			return labels, true
		}
		return nil, false
	}
}

// quoted reads a double-quoted label value, resolving \\, \" and \n.
func (t *tokenizer) quoted() (string, bool) {
	if !t.consume('"') {
		return "", false
	}

	var b strings.Builder
	for t.pos < len(t.s) {
		c := t.s[t.pos]
		t.pos++
		switch c {
		case '"':
			return b.String(), true
		case '\\':
			if t.pos >= len(t.s) {
				return "", false
			}
			next := t.s[t.pos]
			t.pos++
			switch next {
			case 'n':
				b.WriteByte('\n')
			case '\\', '"':
				b.WriteByte(next)
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isLabelStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLabelChar(c byte) bool {
	return isLabelStart(c) || (c >= '0' && c <= '9')
}

func isMetricStart(c byte) bool {
	return isLabelStart(c) || c == ':'
}

func isMetricChar(c byte) bool {
	return isLabelChar(c) || c == ':'
}
