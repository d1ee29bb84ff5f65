package logging

import (
	"sync"
)

// named is what an endpointSet indexes on. It must not mention Log, which
// holds the sets.
type named interface {
	Name() string
	SetName(name string)
}

// owned binds an endpoint to at most one log at a time.
type owned interface {
	claimOwner(l *Log) bool
	releaseOwner(l *Log)
}

// endpoint is the state shared by listeners and sinks.
type endpoint interface {
	named
	owned
	Enabled() bool
	SetEnabled(enabled bool)
	Filter() *FilterManager
	FormatterArgs() map[string]string
	SetFormatterArg(key, value string)
	Owner() *Log
}

// Listener receives formatted string messages.
type Listener interface {
	endpoint
	Write(message, tag string) error
}

// Sink receives structured messages.
type Sink interface {
	endpoint
	ProcessMessage(msg StructuredMessage, tag string) error
}

// Base implements the bookkeeping of Listener and Sink. Concrete types
// embed a *Base created with NewBase.
type Base struct {
	mu      sync.RWMutex
	name    string
	enabled bool
	filter  *FilterManager
	args    map[string]string
	owner   *Log
}

// NewBase returns an enabled Base with an empty filter.
func NewBase(name string) *Base {
	return &Base{name: name, enabled: true, filter: NewFilterManager(), args: map[string]string{}}
}

func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

func (b *Base) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.mu.Unlock()
}

func (b *Base) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

func (b *Base) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()
}

// Filter returns the live filter set.
func (b *Base) Filter() *FilterManager { return b.filter }

// FormatterArgs returns a copy of the formatter arguments.
func (b *Base) FormatterArgs() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.args))
	for k, v := range b.args {
		out[k] = v
	}
	return out
}

func (b *Base) SetFormatterArg(key, value string) {
	b.mu.Lock()
	b.args[key] = value
	b.mu.Unlock()
}

// Owner returns the log this endpoint is bound to, if any.
func (b *Base) Owner() *Log {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.owner
}

// claimOwner binds b to l unless it already belongs to a log.
func (b *Base) claimOwner(l *Log) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.owner != nil {
		return false
	}
	b.owner = l
	return true
}

func (b *Base) releaseOwner(l *Log) {
	b.mu.Lock()
	if b.owner == l {
		b.owner = nil
	}
	b.mu.Unlock()
}
