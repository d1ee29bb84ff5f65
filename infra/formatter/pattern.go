// Package formatter holds the built-in formatters.
package formatter

import (
	"strings"
	"time"

	"github.com/kilianp07/waterlog/core/logging"
)

// DefaultPattern is used when a Pattern has no pattern set.
const DefaultPattern = "{time} [{tag}] {message}"

// Pattern renders entries through a {hole} template. The holes time, log,
// tag and message come from the entry; any other hole is looked up in the
// formatter arguments and kept verbatim when missing.
type Pattern struct {
	Pattern    string
	TimeFormat string
}

// NewPattern returns a Pattern using DefaultPattern and RFC3339 times.
func NewPattern() *Pattern {
	return &Pattern{Pattern: DefaultPattern, TimeFormat: time.RFC3339}
}

func (p *Pattern) Format(e logging.Entry) (string, error) {
	values := make(map[string]any, len(e.Args)+4)
	for k, v := range e.Args {
		values[k] = v
	}
	tf := p.TimeFormat
	if tf == "" {
		tf = time.RFC3339
	}
	values["time"] = e.Time.Format(tf)
	values["log"] = e.Log
	values["tag"] = e.Tag
	values["message"] = e.Message
	pattern := p.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	return logging.BuildNamedMessage(pattern, values).String(), nil
}
