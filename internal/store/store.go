// Package store defines the record store contract shared by every driver.
//
// Records are loosely typed maps, the way they travel on the wire. Typing
// and normalization belong to the callers (catalog, submission, directory).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// Collections used by the application.
	CollectionResources   = "resources"
	CollectionDirectories = "directories"

	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var (
	// ErrNotFound is returned by Update and Delete for an unknown id.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownCollection is returned by drivers with a fixed schema.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Record is a single stored entry keyed by field name.
type Record map[string]any

// Order is one ordering clause.
type Order struct {
	Field string
	Desc  bool
}

// ListOptions narrows a List call. The zero value lists everything in
// driver order.
type ListOptions struct {
	// Where holds equality filters, all of which must match.
	Where map[string]any

	OrderBy []Order

	// Limit caps the result size when > 0.
	Limit int
}

// RecordStore is the persistence port.
type RecordStore interface {
	// Name identifies the driver in logs and /infra.
	Name() string

	List(ctx context.Context, collection string, opts ListOptions) ([]Record, error)

	// Create stores payload and returns it with id, createdAt and updatedAt
	// filled in when the payload did not carry them.
	Create(ctx context.Context, collection string, payload Record) (Record, error)

	// Update merges patch into the record and bumps updatedAt.
	Update(ctx context.Context, collection, id string, patch Record) (Record, error)

	Delete(ctx context.Context, collection, id string) error

	Ping(ctx context.Context) error
	Close() error
}

// Prepare copies payload and stamps the store-assigned fields.
func Prepare(payload Record, now time.Time) Record {
	rec := payload.Clone()
	if s, _ := rec[FieldID].(string); s == "" {
		rec[FieldID] = uuid.NewString()
	}
	stamp := now.UTC().Format(time.RFC3339Nano)
	if _, ok := rec[FieldCreatedAt]; !ok {
		rec[FieldCreatedAt] = stamp
	}
	if _, ok := rec[FieldUpdatedAt]; !ok {
		rec[FieldUpdatedAt] = stamp
	}
	return rec
}

// Merge applies patch onto a copy of rec. The id is never overwritten and
// updatedAt is set to now.
func Merge(rec, patch Record, now time.Time) Record {
	out := rec.Clone()
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		out[k] = v
	}
	out[FieldUpdatedAt] = now.UTC().Format(time.RFC3339Nano)
	return out
}

// Clone returns a shallow copy. A nil record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r)+3)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the record id or "".
func (r Record) ID() string {
	s, _ := r[FieldID].(string)
	return s
}
