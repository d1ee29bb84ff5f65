// Package listeners holds the built-in listeners and sinks.
package listeners

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/kilianp07/waterlog/core/logging"
)

// Console writes lines to stdout or stderr.
type Console struct {
	*logging.Base
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a Console on stdout.
func NewConsole(name string) *Console {
	return &Console{Base: logging.NewBase(name), out: os.Stdout}
}

// SetStream selects "stdout" or "stderr".
func (c *Console) SetStream(stream string) error {
	w, err := streamWriter(stream)
	if err != nil {
		return err
	}
	c.SetOutput(w)
	return nil
}

// SetOutput redirects the console to w.
func (c *Console) SetOutput(w io.Writer) {
	c.mu.Lock()
	c.out = w
	c.mu.Unlock()
}

func (c *Console) Write(message, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, terminate(message))
	return err
}

func streamWriter(stream string) (io.Writer, error) {
	switch strings.ToLower(stream) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unknown stream %q", stream)
	}
}

// terminate appends a newline unless message already ends with one.
func terminate(message string) string {
	if strings.HasSuffix(message, "\n") {
		return message
	}
	return message + "\n"
}
