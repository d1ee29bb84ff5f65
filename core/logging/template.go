package logging

import (
	"fmt"
	"strings"
)

// Hole is a named value substituted into a template.
type Hole struct {
	Name  string
	Value any
}

// StructuredMessage is a template together with its hole values.
type StructuredMessage struct {
	Template string
	Holes    []Hole
}

// Value returns the value bound to the named hole.
func (m StructuredMessage) Value(name string) (any, bool) {
	for _, h := range m.Holes {
		if h.Name == name {
			return h.Value, true
		}
	}
	return nil, false
}

// String renders the template. Holes without a value are kept verbatim.
func (m StructuredMessage) String() string {
	var sb strings.Builder
	for _, seg := range parseTemplate(m.Template) {
		if !seg.hole {
			sb.WriteString(seg.text)
			continue
		}
		if v, ok := m.Value(seg.text); ok {
			fmt.Fprint(&sb, v)
			continue
		}
		sb.WriteString("{" + seg.text + "}")
	}
	return sb.String()
}

// HoleNames returns the distinct hole names in order of first appearance.
func HoleNames(template string) []string {
	var names []string
	seen := map[string]bool{}
	for _, seg := range parseTemplate(template) {
		if seg.hole && !seen[seg.text] {
			seen[seg.text] = true
			names = append(names, seg.text)
		}
	}
	return names
}

// BuildMessage binds values to holes by position. A repeated hole reuses
// its first value; surplus values are ignored.
func BuildMessage(template string, values ...any) StructuredMessage {
	msg := StructuredMessage{Template: template}
	for i, name := range HoleNames(template) {
		if i >= len(values) {
			break
		}
		msg.Holes = append(msg.Holes, Hole{Name: name, Value: values[i]})
	}
	return msg
}

// BuildNamedMessage binds values to holes by name.
func BuildNamedMessage(template string, values map[string]any) StructuredMessage {
	msg := StructuredMessage{Template: template}
	for _, name := range HoleNames(template) {
		if v, ok := values[name]; ok {
			msg.Holes = append(msg.Holes, Hole{Name: name, Value: v})
		}
	}
	return msg
}

type segment struct {
	text string
	hole bool
}

// parseTemplate splits a template into literal text and {name} holes.
// "{{" and "}}" are literal braces; an unterminated hole is literal text.
func parseTemplate(t string) []segment {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case c == '{' && i+1 < len(t) && t[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(t) && t[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(t[i+1:], '}')
			if end <= 0 {
				lit.WriteByte(c)
				continue
			}
			flush()
			segs = append(segs, segment{text: t[i+1 : i+1+end], hole: true})
			i += end + 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs
}
