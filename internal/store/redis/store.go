package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/redis/go-redis/v9"
)

// Store keeps records as JSON blobs with one id set per collection.
// Records never expire.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

func (s *Store) Name() string { return "redis" }

// List loads every record of a collection and filters in process
func (s *Store) List(ctx context.Context, collection string, opts store.ListOptions) ([]store.Record, error) {
	ids, err := s.client.SMembers(ctx, IndexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get record ids: %w", err)
	}
	if len(ids) == 0 {
		return []store.Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = RecordKey(collection, id)
	}

	blobs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	recs := make([]store.Record, 0, len(blobs))
	for i, blob := range blobs {
		str, ok := blob.(string)
		if !ok {
			// id left in the set after a partial delete
			continue
		}
		rec, err := decode([]byte(str))
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", ids[i], err)
		}
		recs = append(recs, rec)
	}

	// SMEMBERS has no order; sort by creation first so ties stay stable
	store.SortRecords(recs, []store.Order{{Field: store.FieldCreatedAt}, {Field: store.FieldID}})
	return store.Apply(recs, opts), nil
}

// Create stores a record and adds its id to the collection set
func (s *Store) Create(ctx context.Context, collection string, payload store.Record) (store.Record, error) {
	rec := store.Prepare(payload, s.now())
	if err := s.save(ctx, collection, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update merges patch into an existing record
func (s *Store) Update(ctx context.Context, collection, id string, patch store.Record) (store.Record, error) {
	rec, err := s.get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	merged := store.Merge(rec, patch, s.now())
	if err := s.save(ctx, collection, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes a record from Redis
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, RecordKey(collection, id))
	pipe.SRem(ctx, IndexKey(collection), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if del.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CreateMany stores several records in one pipeline
func (s *Store) CreateMany(ctx context.Context, collection string, payloads []store.Record) ([]store.Record, error) {
	now := s.now()
	pipe := s.client.Pipeline()

	out := make([]store.Record, 0, len(payloads))
	for _, p := range payloads {
		rec := store.Prepare(p, now)
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record: %w", err)
		}
		pipe.Set(ctx, RecordKey(collection, rec.ID()), data, 0)
		pipe.SAdd(ctx, IndexKey(collection), rec.ID())
		out = append(out, rec)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save records: %w", err)
	}
	return out, nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) get(ctx context.Context, collection, id string) (store.Record, error) {
	data, err := s.client.Get(ctx, RecordKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return decode(data)
}

func (s *Store) save(ctx context.Context, collection string, rec store.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, RecordKey(collection, rec.ID()), data, 0)
	pipe.SAdd(ctx, IndexKey(collection), rec.ID())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// decode keeps numbers as json.Number so integer fields survive untouched.
func decode(data []byte) (store.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec store.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
