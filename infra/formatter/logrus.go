package formatter

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kilianp07/waterlog/core/logging"
)

// Logrus adapts a logrus formatter. The entry tag selects the level when it
// names one; the log name, the tag, the static fields and the formatter
// arguments become entry data.
type Logrus struct {
	Formatter logrus.Formatter

	mu     sync.RWMutex
	fields logrus.Fields
}

// NewJSON returns a Logrus formatter producing JSON lines.
func NewJSON() *Logrus {
	return &Logrus{Formatter: &logrus.JSONFormatter{}, fields: logrus.Fields{}}
}

// NewText returns a Logrus formatter producing key=value lines without colors.
func NewText() *Logrus {
	return &Logrus{Formatter: &logrus.TextFormatter{DisableColors: true}, fields: logrus.Fields{}}
}

// SetField adds a field to every formatted entry.
func (f *Logrus) SetField(key string, value any) {
	f.mu.Lock()
	if f.fields == nil {
		f.fields = logrus.Fields{}
	}
	f.fields[key] = value
	f.mu.Unlock()
}

func (f *Logrus) Format(e logging.Entry) (string, error) {
	data := logrus.Fields{}
	f.mu.RLock()
	for k, v := range f.fields {
		data[k] = v
	}
	f.mu.RUnlock()
	for k, v := range e.Args {
		data[k] = v
	}
	data["log"] = e.Log
	if e.Tag != "" {
		data["tag"] = e.Tag
	}
	entry := &logrus.Entry{
		Data:    data,
		Time:    e.Time,
		Message: strings.TrimSuffix(e.Message, "\n"),
		Level:   logrus.InfoLevel,
	}
	if lvl, err := logrus.ParseLevel(e.Tag); err == nil {
		entry.Level = lvl
	}
	b, err := f.Formatter.Format(entry)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}
