package submission

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/MrSnakeDoc/nextdir/internal/store/memory"
)

type failingStore struct {
	store.RecordStore
}

func (failingStore) Create(context.Context, string, store.Record) (store.Record, error) {
	return nil, errors.New("quota exceeded")
}

func signedIn(email string) auth.Session {
	return auth.Session{ID: "sid", State: auth.State{User: &auth.User{ID: "u1", Email: email}}}
}

func validForm() Form {
	return Form{
		Title:       " Prisma ",
		Description: "Next-generation ORM",
		URL:         "https://prisma.io",
		Category:    "Database",
		Tags:        []string{"ORM", " database ", "orm", ""},
	}
}

func TestSubmitRequiresUser(t *testing.T) {
	s := memory.New()
	svc := NewService(s, logger.New("error", false))

	_, err := svc.Submit(context.Background(), auth.Session{}, validForm())
	if !errors.Is(err, ErrAuthRequired) || !errors.Is(err, auth.ErrUnauthenticated) {
		t.Fatalf("Submit() error = %v, want ErrAuthRequired", err)
	}
	if s.Count(store.CollectionResources) != 0 {
		t.Error("anonymous submission must not write")
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
	}{
		{"missing title", func(f *Form) { f.Title = "  " }, "title"},
		{"missing description", func(f *Form) { f.Description = "" }, "description"},
		{"missing url", func(f *Form) { f.URL = "" }, "url"},
		{"relative url", func(f *Form) { f.URL = "/docs" }, "url"},
		{"sentinel category", func(f *Form) { f.Category = "All" }, "category"},
		{"sentinel category any case", func(f *Form) { f.Category = " all " }, "category"},
		{"ftp url", func(f *Form) { f.URL = "ftp://example.com" }, "url"},
		{"missing category", func(f *Form) { f.Category = "" }, "category"},
		{"bad github url", func(f *Form) { f.GitHubURL = "github.com/x" }, "githubUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.New()
			svc := NewService(s, logger.New("error", false))

			f := validForm()
			tt.mutate(&f)
			_, err := svc.Submit(context.Background(), signedIn("a@b.c"), f)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Submit() error = %v, want *ValidationError", err)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want %s", ve.Fields, tt.field)
			}
			if !IsValidation(err) {
				t.Error("IsValidation() = false")
			}
			if s.Count(store.CollectionResources) != 0 {
				t.Error("invalid submission must not write")
			}
		})
	}
}

func TestSubmitStoresPendingRecord(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	svc := NewService(s, logger.New("error", false))

	receipt, err := svc.Submit(ctx, signedIn("ada@example.com"), validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if receipt.Outcome != OutcomeAccepted || !receipt.Stored || receipt.ID == "" {
		t.Errorf("receipt = %+v", receipt)
	}

	recs, _ := s.List(ctx, store.CollectionResources, store.ListOptions{})
	if len(recs) != 1 {
		t.Fatalf("stored %d records, want 1", len(recs))
	}
	rec := recs[0]

	checks := map[string]any{
		"title":    "Prisma",
		"status":   "pending",
		"stars":    0,
		"featured": false,
		"userId":   "u1",
		"author":   "ada@example.com",
	}
	for k, want := range checks {
		if rec[k] != want {
			t.Errorf("%s = %#v, want %#v", k, rec[k], want)
		}
	}

	tags, err := domain.DecodeTags(rec["tags"].(string))
	if err != nil || !reflect.DeepEqual(tags, []string{"orm", "database"}) {
		t.Errorf("tags = %v, %v", tags, err)
	}
	if rec.ID() == "" || rec[store.FieldCreatedAt] == nil {
		t.Error("store should assign id and timestamps")
	}

	// pending records never reach the browse catalog
	approved, _ := s.List(ctx, store.CollectionResources, store.ListOptions{Where: map[string]any{"status": "approved"}})
	if len(approved) != 0 {
		t.Error("submission must not be approved")
	}
}

func TestSubmitAuthorDefaults(t *testing.T) {
	tests := []struct {
		name  string
		form  string
		email string
		want  string
	}{
		{"form wins", "Prisma Team", "ada@example.com", "Prisma Team"},
		{"email fallback", "", "ada@example.com", "ada@example.com"},
		{"anonymous", "", "", "Anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.Author = tt.form
			payload := buildPayload(f, &auth.User{ID: "u1", Email: tt.email})
			if payload["author"] != tt.want {
				t.Errorf("author = %v, want %s", payload["author"], tt.want)
			}
		})
	}
}

func TestSubmitSoftFailIsObservable(t *testing.T) {
	svc := NewService(failingStore{}, logger.New("error", false))

	receipt, err := svc.Submit(context.Background(), signedIn("ada@example.com"), validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v, want soft success", err)
	}
	if receipt.Outcome != OutcomeDeferred {
		t.Errorf("Outcome = %q, want deferred", receipt.Outcome)
	}
	if receipt.Stored || receipt.ID != "" {
		t.Errorf("deferred receipt must report Stored=false: %+v", receipt)
	}
	if receipt.Message == "" {
		t.Error("deferred receipt should carry the user message")
	}
}

func TestFormTagHelpers(t *testing.T) {
	var f Form
	f.AddTag("react")
	f.AddTag("react")
	f.AddTag("")
	f.AddCustomTag("  TypeScript ")
	f.AddCustomTag("   ")

	if want := []string{"react", "typescript"}; !reflect.DeepEqual(f.Tags, want) {
		t.Errorf("Tags = %v, want %v", f.Tags, want)
	}

	f.Tags = append(f.Tags, " React", "GO ", "go")
	if want := []string{"react", "typescript", "go"}; !reflect.DeepEqual(f.normalizedTags(), want) {
		t.Errorf("normalizedTags() = %v, want %v", f.normalizedTags(), want)
	}
}
