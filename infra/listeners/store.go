package listeners

import (
	"context"
	"strings"
	"time"

	"github.com/kilianp07/waterlog/core/logging"
	"github.com/kilianp07/waterlog/infra/store"
)

// Store persists every line as a store.Record.
type Store struct {
	*logging.Base
	store store.Store
	now   func() time.Time
}

// NewStore returns a listener writing into s.
func NewStore(name string, s store.Store) *Store {
	return &Store{Base: logging.NewBase(name), store: s, now: time.Now}
}

func (s *Store) Write(message, tag string) error {
	rec := store.Record{
		Time:    s.now().UTC(),
		Tag:     tag,
		Message: strings.TrimSuffix(message, "\n"),
	}
	if l := s.Owner(); l != nil {
		rec.Log = l.Name()
	}
	return s.store.Append(context.Background(), rec)
}

// Query reads back persisted records.
func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Record, error) {
	return s.store.Query(ctx, q)
}

func (s *Store) Close() error { return s.store.Close() }

// JSONL is a Store backed by a rotating JSONL file.
type JSONL struct {
	*Store
	file *store.JSONLStore
}

// NewJSONL opens a JSONL store at path.
func NewJSONL(name, path string) (*JSONL, error) {
	f, err := store.NewJSONLStore(path, store.JSONLOptions{})
	if err != nil {
		return nil, err
	}
	return &JSONL{Store: NewStore(name, f), file: f}, nil
}

func (j *JSONL) configure(fn func(o *store.JSONLOptions)) {
	o := j.file.Options()
	fn(&o)
	j.file.Configure(o)
}

// NewSQLite opens a SQLite store at path.
func NewSQLite(name, path string) (*Store, error) {
	db, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return NewStore(name, db), nil
}
