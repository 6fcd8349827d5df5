package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/MrSnakeDoc/nextdir/internal/store/memory"
)

// failingStore fails every call.
type failingStore struct {
	store.RecordStore
	err error
}

func (f failingStore) Name() string { return "failing" }

func (f failingStore) List(context.Context, string, store.ListOptions) ([]store.Record, error) {
	return nil, f.err
}

// staticStore returns fixed records regardless of options.
type staticStore struct {
	store.RecordStore
	recs []store.Record
}

func (s staticStore) Name() string { return "static" }

func (s staticStore) List(context.Context, string, store.ListOptions) ([]store.Record, error) {
	return s.recs, nil
}

func newRepo(s store.RecordStore) *Repository {
	return NewRepository(s, logger.New("error", false))
}

func TestFetchApprovedFallbackOnStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	res := newRepo(failingStore{err: cause}).FetchApproved(context.Background())

	if res.Source != SourceFallback {
		t.Errorf("Source = %q, want fallback", res.Source)
	}
	if !errors.Is(res.Err, cause) {
		t.Errorf("Err = %v, want wrapped %v", res.Err, cause)
	}
	if len(res.Resources) != 8 {
		t.Fatalf("got %d resources, want the 8 fallback entries", len(res.Resources))
	}
	if !reflect.DeepEqual(res.Resources, Fallback()) {
		t.Error("fallback result differs from Fallback()")
	}
	for _, r := range res.Resources {
		if r.Status != domain.StatusApproved {
			t.Errorf("%s status = %q", r.ID, r.Status)
		}
		if r.Tags == nil {
			t.Errorf("%s has nil tags", r.ID)
		}
	}
}

func TestFallbackIsACopy(t *testing.T) {
	a := Fallback()
	a[0].Title = "changed"
	a[0].Tags[0] = "changed"

	b := Fallback()
	if b[0].Title != "Next.js Commerce" || b[0].Tags[0] != "e-commerce" {
		t.Error("Fallback() shares state between calls")
	}
}

func TestFetchApprovedLive(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	seed := []store.Record{
		{"title": "Old", "status": "approved", "tags": `["a"]`, "featured": 1, "stars": 5, "createdAt": "2024-01-01T00:00:00Z"},
		{"title": "Pending", "status": "pending", "createdAt": "2024-01-03T00:00:00Z"},
		{"title": "New", "status": "approved", "tags": "", "featured": 0, "stars": 9, "createdAt": "2024-01-02T00:00:00Z"},
	}
	for _, r := range seed {
		if _, err := s.Create(ctx, store.CollectionResources, r); err != nil {
			t.Fatal(err)
		}
	}

	res := newRepo(s).FetchApproved(ctx)
	if res.Source != SourceLive || res.Err != nil {
		t.Fatalf("Source = %q, Err = %v", res.Source, res.Err)
	}

	var titles []string
	for _, r := range res.Resources {
		titles = append(titles, r.Title)
	}
	if want := []string{"New", "Old"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v (newest first, approved only)", titles, want)
	}
	if !res.Resources[1].Featured || res.Resources[0].Featured {
		t.Error("featured not coerced from 1/0")
	}
	if !reflect.DeepEqual(res.Resources[1].Tags, []string{"a"}) || len(res.Resources[0].Tags) != 0 {
		t.Errorf("tags = %v / %v", res.Resources[1].Tags, res.Resources[0].Tags)
	}
}

func TestFetchApprovedEmptyStoreIsLive(t *testing.T) {
	res := newRepo(memory.New()).FetchApproved(context.Background())
	if res.Source != SourceLive || len(res.Resources) != 0 {
		t.Errorf("Source = %q, len = %d", res.Source, len(res.Resources))
	}
}

func TestFetchApprovedMalformedTagsKeepsRecord(t *testing.T) {
	recs := []store.Record{
		{"id": "a", "title": "A", "status": "approved", "tags": "react,ui"},
		{"id": "b", "title": "B", "status": "approved", "tags": `["ok"]`},
	}
	res := newRepo(staticStore{recs: recs}).FetchApproved(context.Background())

	if res.Source != SourceLive {
		t.Fatalf("Source = %q, want live", res.Source)
	}
	if len(res.Resources) != 2 {
		t.Fatalf("len = %d, want 2", len(res.Resources))
	}
	if res.Resources[0].Tags == nil || len(res.Resources[0].Tags) != 0 {
		t.Errorf("malformed tags = %#v, want empty list", res.Resources[0].Tags)
	}
}

func TestFetchApprovedStructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		recs []store.Record
	}{
		{"missing id", []store.Record{{"title": "A", "status": "approved"}}},
		{"missing title", []store.Record{{"id": "a", "status": "approved"}}},
		{"duplicate id", []store.Record{
			{"id": "a", "title": "A", "status": "approved"},
			{"id": "a", "title": "B", "status": "approved"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newRepo(staticStore{recs: tt.recs}).FetchApproved(context.Background())
			if res.Source != SourceFallback || res.Err == nil {
				t.Errorf("Source = %q, Err = %v, want fallback with cause", res.Source, res.Err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	rec := store.Record{
		"id":        "x",
		"title":     "X",
		"status":    "approved",
		"tags":      []any{" react ", "", "ui"},
		"featured":  "true",
		"stars":     json.Number("-4"),
		"createdAt": "2024-01-10T00:00:00Z",
		"updatedAt": "2024-01-01T00:00:00Z",
	}

	r, tagErr, err := normalize(rec)
	if err != nil || tagErr != nil {
		t.Fatalf("normalize() err = %v, tagErr = %v", err, tagErr)
	}
	if !reflect.DeepEqual(r.Tags, []string{"react", "ui"}) {
		t.Errorf("Tags = %v", r.Tags)
	}
	if !r.Featured {
		t.Error("Featured = false, want true")
	}
	if r.Stars != 0 {
		t.Errorf("Stars = %d, want clamp to 0", r.Stars)
	}
	if !r.UpdatedAt.Equal(r.CreatedAt) {
		t.Errorf("UpdatedAt = %v, want raised to CreatedAt %v", r.UpdatedAt, r.CreatedAt)
	}
}

func TestCoerceFeatured(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{int64(2), true},
		{0.5, true},
		{-1, false},
		{json.Number("1"), true},
		{"1", true},
		{"0", false},
		{"true", true},
		{"false", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		if got := coerceFeatured(tt.in); got != tt.want {
			t.Errorf("coerceFeatured(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
