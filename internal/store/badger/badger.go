// Package badger stores records in an embedded Badger database.
//
// Keys are "<collection>/<id>", values are JSON.
package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/dgraph-io/badger/v4"
)

type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens the database directory, creating it when missing.
// An empty dir opens an in-memory database.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Name() string { return "badger" }

func key(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

func (s *Store) List(_ context.Context, collection string, opts store.ListOptions) ([]store.Record, error) {
	recs := make([]store.Record, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(collection + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				rec, err := decode(val)
				if err != nil {
					return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
				}
				recs = append(recs, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	// keys iterate in id order; creation order is the natural default
	store.SortRecords(recs, []store.Order{{Field: store.FieldCreatedAt}})
	return store.Apply(recs, opts), nil
}

func (s *Store) Create(_ context.Context, collection string, payload store.Record) (store.Record, error) {
	rec := store.Prepare(payload, s.now())

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("serialize record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(collection, rec.ID()), data)
	})
	if err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}
	return rec, nil
}

func (s *Store) Update(_ context.Context, collection, id string, patch store.Record) (store.Record, error) {
	var merged store.Record

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key(collection, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		var current store.Record
		if err := item.Value(func(val []byte) error {
			current, err = decode(val)
			return err
		}); err != nil {
			return err
		}

		merged = store.Merge(current, patch, s.now())
		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return txn.Set(key(collection, id), data)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return merged, nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		k := key(collection, id)
		if _, err := txn.Get(k); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		return txn.Delete(k)
	})
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

// Close runs one value log GC pass, then closes the database.
// ErrNoRewrite and in-memory mode are expected GC outcomes.
func (s *Store) Close() error {
	_ = s.db.RunValueLogGC(0.5)
	return s.db.Close()
}

func decode(data []byte) (store.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec store.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
