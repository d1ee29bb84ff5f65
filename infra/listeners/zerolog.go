package listeners

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kilianp07/waterlog/core/logging"
)

// ZerologLevels lists the accepted level names.
var ZerologLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}

// Zerolog is a sink writing structured messages as JSON events. Every hole
// becomes a field next to the rendered message and the template.
type Zerolog struct {
	*logging.Base

	mu     sync.Mutex
	out    io.Writer
	level  zerolog.Level
	fields map[string]string
}

// NewZerolog returns a sink writing to stdout at info level.
func NewZerolog(name string) *Zerolog {
	return &Zerolog{Base: logging.NewBase(name), out: os.Stdout, level: zerolog.InfoLevel}
}

func (z *Zerolog) SetStream(stream string) error {
	w, err := streamWriter(stream)
	if err != nil {
		return err
	}
	z.SetOutput(w)
	return nil
}

func (z *Zerolog) SetOutput(w io.Writer) {
	z.mu.Lock()
	z.out = w
	z.mu.Unlock()
}

// SetLevel sets the level used when the tag does not name one.
func (z *Zerolog) SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return err
	}
	z.mu.Lock()
	z.level = lvl
	z.mu.Unlock()
	return nil
}

// SetFields replaces the static fields, each given as key=value.
func (z *Zerolog) SetFields(pairs []string) error {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return fmt.Errorf("field %q is not key=value", p)
		}
		fields[k] = v
	}
	z.mu.Lock()
	z.fields = fields
	z.mu.Unlock()
	return nil
}

func (z *Zerolog) ProcessMessage(msg logging.StructuredMessage, tag string) error {
	z.mu.Lock()
	defer z.mu.Unlock()
	level := z.level
	if tag != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(tag)); err == nil && lvl != zerolog.NoLevel {
			level = lvl
		}
	}
	ctx := zerolog.New(z.out).With().Timestamp()
	for k, v := range z.fields {
		ctx = ctx.Str(k, v)
	}
	if l := z.Owner(); l != nil {
		ctx = ctx.Str("log", l.Name())
	}
	zl := ctx.Logger()
	ev := zl.WithLevel(level)
	if tag != "" {
		ev = ev.Str("tag", tag)
	}
	for _, h := range msg.Holes {
		ev = ev.Interface(h.Name, h.Value)
	}
	ev.Str("template", msg.Template).Msg(msg.String())
	return nil
}
