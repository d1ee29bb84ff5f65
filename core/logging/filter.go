package logging

import "sync"

// Filter decides whether a message is let through.
type Filter interface {
	Validate(message, tag string) bool
}

// TemplatedFilter is implemented by filters that inspect structured
// messages directly instead of their rendered text.
type TemplatedFilter interface {
	ValidateTemplated(msg StructuredMessage, tag string) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(message, tag string) bool

func (f FilterFunc) Validate(message, tag string) bool { return f(message, tag) }

// FilterManager holds an ordered set of filters; a message passes when
// every filter accepts it.
type FilterManager struct {
	mu      sync.RWMutex
	filters []Filter
}

// NewFilterManager returns a manager holding filters.
func NewFilterManager(filters ...Filter) *FilterManager {
	return &FilterManager{filters: append([]Filter(nil), filters...)}
}

// Add appends a filter.
func (m *FilterManager) Add(f Filter) {
	if f == nil {
		return
	}
	m.mu.Lock()
	m.filters = append(m.filters, f)
	m.mu.Unlock()
}

// Clear removes every filter.
func (m *FilterManager) Clear() {
	m.mu.Lock()
	m.filters = nil
	m.mu.Unlock()
}

// Len returns the number of filters.
func (m *FilterManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.filters)
}

// Validate reports whether all filters accept the message.
func (m *FilterManager) Validate(message, tag string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.filters {
		if !f.Validate(message, tag) {
			return false
		}
	}
	return true
}

// ValidateTemplated checks a structured message. Filters that only know
// plain strings see the rendered message.
func (m *FilterManager) ValidateTemplated(msg StructuredMessage, tag string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rendered *string
	for _, f := range m.filters {
		if tf, ok := f.(TemplatedFilter); ok {
			if !tf.ValidateTemplated(msg, tag) {
				return false
			}
			continue
		}
		if rendered == nil {
			s := msg.String()
			rendered = &s
		}
		if !f.Validate(*rendered, tag) {
			return false
		}
	}
	return true
}
