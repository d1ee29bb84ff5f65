package logging

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/waterlog/core/metrics"
	"github.com/kilianp07/waterlog/internal/eventbus"
)

// Log formats, filters and broadcasts messages to its listeners and sinks.
type Log struct {
	name string

	mu         sync.RWMutex
	enabled    bool
	defaultTag string
	formatter  Formatter

	filter *FilterManager
	rec    metrics.DeliveryRecorder
	events *eventbus.Bus[Event]
	now    func() time.Time

	listeners endpointSet[Listener]
	sinks     endpointSet[Sink]
}

// Option configures a Log.
type Option func(*Log)

// WithEvents publishes lifecycle events on bus.
func WithEvents(bus *eventbus.Bus[Event]) Option {
	return func(l *Log) { l.events = bus }
}

// WithRecorder records every delivery to a listener or sink.
func WithRecorder(r metrics.DeliveryRecorder) Option {
	return func(l *Log) {
		if r != nil {
			l.rec = r
		}
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(f Formatter) Option {
	return func(l *Log) { l.formatter = f }
}

// WithDefaultTag sets the tag used when a message has none.
func WithDefaultTag(tag string) Option {
	return func(l *Log) { l.defaultTag = tag }
}

// WithClock overrides the time source used for entries.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an enabled Log. An empty name is replaced by a generated one.
func New(name string, opts ...Option) *Log {
	if name == "" {
		name = "log-" + uuid.NewString()
	}
	l := &Log{
		name:      name,
		enabled:   true,
		filter:    NewFilterManager(),
		rec:       metrics.NopRecorder{},
		now:       time.Now,
		listeners: endpointSet[Listener]{kind: "listener"},
		sinks:     endpointSet[Sink]{kind: "sink"},
	}
	for _, o := range opts {
		o(l)
	}
	l.publish(EventLogCreated, "")
	return l
}

func (l *Log) Name() string { return l.name }

func (l *Log) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *Log) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

func (l *Log) DefaultTag() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defaultTag
}

func (l *Log) SetDefaultTag(tag string) {
	l.mu.Lock()
	l.defaultTag = tag
	l.mu.Unlock()
}

func (l *Log) Formatter() Formatter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.formatter
}

func (l *Log) SetFormatter(f Formatter) {
	l.mu.Lock()
	l.formatter = f
	l.mu.Unlock()
}

// Filter returns the filter applied to every message of this log.
func (l *Log) Filter() *FilterManager { return l.filter }

// AddListener binds a listener to this log. A listener may only belong to
// one log at a time; unnamed listeners receive a generated name.
func (l *Log) AddListener(ln Listener) error {
	if err := l.listeners.add(l, ln); err != nil {
		return err
	}
	l.publish(EventListenerAdded, ln.Name())
	return nil
}

func (l *Log) ContainsListener(name string) bool {
	_, ok := l.listeners.get(name)
	return ok
}

func (l *Log) Listener(name string) (Listener, bool) { return l.listeners.get(name) }

// Listeners returns the listeners in registration order.
func (l *Log) Listeners() []Listener { return l.listeners.list() }

// RemoveListener unbinds the named listener.
func (l *Log) RemoveListener(name string) error {
	if _, err := l.listeners.remove(l, name); err != nil {
		return err
	}
	l.publish(EventListenerRemoved, name)
	return nil
}

func (l *Log) RenameListener(oldName, newName string) error {
	return l.listeners.rename(oldName, newName)
}

// AddSink binds a sink to this log, with the same rules as AddListener.
func (l *Log) AddSink(s Sink) error {
	if err := l.sinks.add(l, s); err != nil {
		return err
	}
	l.publish(EventSinkAdded, s.Name())
	return nil
}

func (l *Log) ContainsSink(name string) bool {
	_, ok := l.sinks.get(name)
	return ok
}

func (l *Log) Sink(name string) (Sink, bool) { return l.sinks.get(name) }

func (l *Log) Sinks() []Sink { return l.sinks.list() }

func (l *Log) RemoveSink(name string) error {
	if _, err := l.sinks.remove(l, name); err != nil {
		return err
	}
	l.publish(EventSinkRemoved, name)
	return nil
}

func (l *Log) RenameSink(oldName, newName string) error {
	return l.sinks.rename(oldName, newName)
}

func (l *Log) Write(value string) error { return l.WriteTag(value, "") }

func (l *Log) Writef(format string, args ...any) error {
	return l.WriteTag(fmt.Sprintf(format, args...), "")
}

func (l *Log) WriteLine(value string) error { return l.WriteTag(value+"\n", "") }

func (l *Log) WriteLinef(format string, args ...any) error {
	return l.WriteTag(fmt.Sprintf(format, args...)+"\n", "")
}

func (l *Log) WriteLineTag(value, tag string) error { return l.WriteTag(value+"\n", tag) }

func (l *Log) WriteTagf(tag, format string, args ...any) error {
	return l.WriteTag(fmt.Sprintf(format, args...), tag)
}

// WriteTag formats value, checks the log filter against the raw value and
// hands the result to every enabled listener whose own filter accepts it.
// Listener failures do not stop the broadcast; they are joined and returned.
func (l *Log) WriteTag(value, tag string) error {
	if !l.Enabled() {
		return nil
	}
	tag = l.resolveTag(tag)
	entry := Entry{Log: l.name, Message: value, Tag: tag, Time: l.now()}
	f := l.Formatter()
	formatted := value
	if f != nil {
		var err error
		if formatted, err = f.Format(entry); err != nil {
			return fmt.Errorf("log %s: format: %w", l.name, err)
		}
	}
	if !l.filter.Validate(value, tag) {
		return nil
	}
	return l.push(entry, formatted, f)
}

func (l *Log) push(entry Entry, formatted string, f Formatter) error {
	var errs []error
	l.listeners.each(func(ln Listener) {
		if !ln.Enabled() || !ln.Filter().Validate(formatted, entry.Tag) {
			return
		}
		msg := formatted
		if args := ln.FormatterArgs(); f != nil && len(args) > 0 {
			e := entry
			e.Args = args
			out, err := f.Format(e)
			if err != nil {
				errs = append(errs, fmt.Errorf("listener %s: format: %w", ln.Name(), err))
				l.rec.RecordDelivery(l.name, ln.Name(), err)
				return
			}
			msg = out
		}
		err := ln.Write(msg, entry.Tag)
		l.rec.RecordDelivery(l.name, ln.Name(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("listener %s: %w", ln.Name(), err))
		}
	})
	return errors.Join(errs...)
}

// WriteStructured binds values to the template holes by position.
func (l *Log) WriteStructured(template, tag string, values ...any) error {
	if !l.Enabled() {
		return nil
	}
	template, err := l.formatTemplate(template, tag)
	if err != nil {
		return err
	}
	return l.WriteStructuredMessage(BuildMessage(template, values...), tag)
}

// WriteStructuredNamed binds values to the template holes by name.
func (l *Log) WriteStructuredNamed(template, tag string, values map[string]any) error {
	if !l.Enabled() {
		return nil
	}
	template, err := l.formatTemplate(template, tag)
	if err != nil {
		return err
	}
	return l.WriteStructuredMessage(BuildNamedMessage(template, values), tag)
}

// WriteStructuredMessage hands msg to every enabled sink whose filter
// accepts it.
func (l *Log) WriteStructuredMessage(msg StructuredMessage, tag string) error {
	if !l.Enabled() {
		return nil
	}
	tag = l.resolveTag(tag)
	if !l.filter.ValidateTemplated(msg, tag) {
		return nil
	}
	var errs []error
	l.sinks.each(func(s Sink) {
		if !s.Enabled() || !s.Filter().ValidateTemplated(msg, tag) {
			return
		}
		err := s.ProcessMessage(msg, tag)
		l.rec.RecordDelivery(l.name, s.Name(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", s.Name(), err))
		}
	})
	return errors.Join(errs...)
}

// WriteError writes err and every error it wraps, one per line, each level
// indented by two more spaces.
func (l *Log) WriteError(err error, tag string) error {
	if err == nil {
		return nil
	}
	var sb strings.Builder
	indent := ""
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(&sb, "%s%T: %s\n", indent, e, e.Error())
		indent += "  "
	}
	return l.WriteTag(sb.String(), tag)
}

func (l *Log) resolveTag(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return l.DefaultTag()
	}
	return tag
}

func (l *Log) formatTemplate(template, tag string) (string, error) {
	f := l.Formatter()
	if f == nil {
		return template, nil
	}
	out, err := f.Format(Entry{Log: l.name, Message: template, Tag: l.resolveTag(tag), Time: l.now()})
	if err != nil {
		return "", fmt.Errorf("log %s: format: %w", l.name, err)
	}
	return out, nil
}

func (l *Log) publish(kind EventKind, target string) {
	if l.events == nil {
		return
	}
	l.events.Publish(Event{Kind: kind, Log: l.name, Target: target, Time: l.now()})
}
