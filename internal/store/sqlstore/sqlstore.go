// Package sqlstore persists records in PostgreSQL or SQLite through GORM.
//
// Each collection is a real table with typed columns. Tags stay a JSON
// string and featured an integer, matching the wire format.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store implements store.RecordStore on a GORM connection.
type Store struct {
	db     *gorm.DB
	name   string
	tables map[string]tableOps
	now    func() time.Time
}

// OpenPostgres connects to PostgreSQL and migrates the schema.
func OpenPostgres(dsn string) (*Store, error) {
	return open("postgres", postgres.Open(dsn))
}

// OpenSQLite opens (or creates) a SQLite file and migrates the schema.
func OpenSQLite(path string) (*Store, error) {
	return open("sqlite", sqlite.Open(path))
}

func open(name string, dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db, name)
}

// New wraps an open connection. It runs AutoMigrate for every collection.
func New(db *gorm.DB, name string) (*Store, error) {
	if err := db.AutoMigrate(&resourceRow{}, &directoryRow{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Store{
		db:   db,
		name: name,
		tables: map[string]tableOps{
			store.CollectionResources:   resourcesTable,
			store.CollectionDirectories: directoriesTable,
		},
		now: time.Now,
	}, nil
}

func (s *Store) Name() string { return s.name }

func (s *Store) List(ctx context.Context, collection string, opts store.ListOptions) ([]store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	recs, err := t.list(s.db.WithContext(ctx), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return recs, nil
}

func (s *Store) Create(ctx context.Context, collection string, payload store.Record) (store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	rec, err := t.create(s.db.WithContext(ctx), store.Prepare(payload, s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s record: %w", collection, err)
	}
	return rec, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Record) (store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	var out store.Record
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := t.get(tx, id)
		if err != nil {
			return err
		}
		out, err = t.save(tx, store.Merge(current, patch, s.now()))
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s record: %w", collection, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	t, err := s.table(collection)
	if err != nil {
		return err
	}

	n, err := t.delete(s.db.WithContext(ctx), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", collection, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) table(collection string) (tableOps, error) {
	t, ok := s.tables[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, collection)
	}
	return t, nil
}
