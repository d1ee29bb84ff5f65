package logging

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// endpointSet is an insertion ordered, name-unique set guarded by its own
// mutex. The lock is held for the whole of each, so broadcasts and
// membership changes never interleave.
type endpointSet[T named] struct {
	kind  string
	mu    sync.Mutex
	items []T
}

var errNotOwnable = errors.New("cannot be bound to a log")

func (s *endpointSet[T]) indexLocked(name string) int {
	for i, it := range s.items {
		if it.Name() == name {
			return i
		}
	}
	return -1
}

// add claims item for owner before inserting it. The claim is atomic on the
// item, so two logs adding the same item cannot both succeed.
func (s *endpointSet[T]) add(owner *Log, item T) error {
	o, ok := any(item).(owned)
	if !ok {
		return fmt.Errorf("%s %q: %w", s.kind, item.Name(), errNotOwnable)
	}
	if !o.claimOwner(owner) {
		return fmt.Errorf("%s %q: %w", s.kind, item.Name(), ErrAlreadyBound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Name() == "" {
		item.SetName(uuid.NewString())
	}
	if s.indexLocked(item.Name()) >= 0 {
		o.releaseOwner(owner)
		return fmt.Errorf("%s %q: %w", s.kind, item.Name(), ErrDuplicateName)
	}
	s.items = append(s.items, item)
	return nil
}

func (s *endpointSet[T]) get(name string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(name); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *endpointSet[T]) remove(owner *Log, name string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(name)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", s.kind, name, ErrNotFound)
	}
	item := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	if o, ok := any(item).(owned); ok {
		o.releaseOwner(owner)
	}
	return item, nil
}

func (s *endpointSet[T]) rename(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(oldName)
	if i < 0 {
		return fmt.Errorf("%s %q: %w", s.kind, oldName, ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if s.indexLocked(newName) >= 0 {
		return fmt.Errorf("%s %q: %w", s.kind, newName, ErrDuplicateName)
	}
	s.items[i].SetName(newName)
	return nil
}

func (s *endpointSet[T]) list() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

func (s *endpointSet[T]) each(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		fn(it)
	}
}
