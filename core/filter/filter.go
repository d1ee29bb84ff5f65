// Package filter holds the built-in message filters.
package filter

import (
	"strings"
	"sync"
	"time"

	"github.com/kilianp07/waterlog/core/instantiate"
	"github.com/kilianp07/waterlog/core/logging"
)

// Tag lets a message through when its tag is allowed and not denied. An
// empty allow list allows every tag. Tags compare case-insensitively.
type Tag struct {
	mu    sync.RWMutex
	allow []string
	deny  *instantiate.List[string]
}

// NewTag returns a Tag filter with empty lists.
func NewTag() *Tag {
	return &Tag{deny: instantiate.NewList[string]()}
}

// SetAllow replaces the allow list.
func (t *Tag) SetAllow(tags []string) {
	t.mu.Lock()
	t.allow = append([]string(nil), tags...)
	t.mu.Unlock()
}

// Deny adds tags to the deny list.
func (t *Tag) Deny(tags ...string) error {
	vals := make([]any, 0, len(tags))
	for _, tag := range tags {
		vals = append(vals, tag)
	}
	return t.deny.Append(vals...)
}

// Reset clears both lists.
func (t *Tag) Reset() {
	t.mu.Lock()
	t.allow = nil
	t.mu.Unlock()
	t.deny.Reset()
}

func (t *Tag) Validate(_, tag string) bool {
	for _, d := range t.deny.Items() {
		if strings.EqualFold(d, tag) {
			return false
		}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.allow) == 0 {
		return true
	}
	for _, a := range t.allow {
		if strings.EqualFold(a, tag) {
			return true
		}
	}
	return false
}

// Contains matches messages holding a substring.
type Contains struct {
	Text       string
	IgnoreCase bool
	// Invert rejects matching messages instead of keeping them.
	Invert bool
}

func (c *Contains) Validate(message, _ string) bool {
	var hit bool
	if c.IgnoreCase {
		hit = strings.Contains(strings.ToLower(message), strings.ToLower(c.Text))
	} else {
		hit = strings.Contains(message, c.Text)
	}
	return hit != c.Invert
}

// Window lets messages through only while the clock is inside a time
// window. MaxAge bounds how long after creation the filter stays open.
type Window struct {
	After   time.Time
	Before  time.Time
	MaxAge  time.Duration
	created time.Time
	now     func() time.Time
}

// NewWindow returns an open window. A nil clock uses time.Now.
func NewWindow(now func() time.Time) *Window {
	if now == nil {
		now = time.Now
	}
	return &Window{now: now, created: now()}
}

func (w *Window) Validate(_, _ string) bool {
	now := w.now()
	if !w.After.IsZero() && now.Before(w.After) {
		return false
	}
	if !w.Before.IsZero() && !now.Before(w.Before) {
		return false
	}
	if w.MaxAge > 0 && now.Sub(w.created) > w.MaxAge {
		return false
	}
	return true
}

var (
	_ logging.Filter = (*Tag)(nil)
	_ logging.Filter = (*Contains)(nil)
	_ logging.Filter = (*Window)(nil)
)
