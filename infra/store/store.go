// Package store persists written log lines and reads them back.
package store

import (
	"context"
	"strings"
	"time"
)

// Record is one line accepted by a listener.
type Record struct {
	Time    time.Time `json:"time"`
	Log     string    `json:"log"`
	Tag     string    `json:"tag,omitempty"`
	Message string    `json:"message"`
}

// Query selects records. Zero fields do not filter.
type Query struct {
	Start time.Time
	End   time.Time
	Tag   string
	Log   string
	// Contains matches a substring of the message.
	Contains string
	Limit    int
}

// Match reports whether r satisfies every set field of q except Limit.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Time.After(q.End) {
		return false
	}
	if q.Tag != "" && !strings.EqualFold(q.Tag, r.Tag) {
		return false
	}
	if q.Log != "" && q.Log != r.Log {
		return false
	}
	if q.Contains != "" && !strings.Contains(r.Message, q.Contains) {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
