// Package submission turns user proposals into pending catalog records.
package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/store"
)

// ErrAuthRequired blocks anonymous submissions. Nothing is written.
var ErrAuthRequired = fmt.Errorf("please sign in to submit a resource: %w", auth.ErrUnauthenticated)

// Outcome is how a submission ended from the user's point of view.
type Outcome string

const (
	// OutcomeAccepted means the record was stored and awaits review.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeDeferred means the write failed but the user is told the
	// submission was received.
	OutcomeDeferred Outcome = "deferred"
)

const (
	acceptedMessage = "Your resource has been submitted for review. We'll notify you once it's approved."
	deferredMessage = "Your resource submission has been captured. Due to high volume, it may take longer to process."
)

// Receipt is returned for every submission that passed validation.
type Receipt struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`

	// Stored is false when the write failed. Callers and tests can tell a
	// deferred receipt from a real one.
	Stored bool   `json:"stored"`
	ID     string `json:"id,omitempty"`
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"title", "description", "url", "category", "authorUrl", "githubUrl", "documentation"} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "invalid submission: " + strings.Join(parts, ", ")
}

type Service struct {
	store  store.RecordStore
	logger logger.Logger
}

func NewService(s store.RecordStore, log logger.Logger) *Service {
	return &Service{
		store:  s,
		logger: log.Named("submission"),
	}
}

// Submit validates the form and writes a pending resource on behalf of the
// session's user.
//
// A failed write is not returned as an error. The receipt says "deferred",
// Stored is false and the failure is logged.
func (s *Service) Submit(ctx context.Context, sess auth.Session, f Form) (Receipt, error) {
	user := sess.User()
	if user == nil {
		return Receipt{}, ErrAuthRequired
	}

	if err := validate(f); err != nil {
		return Receipt{}, err
	}

	payload := buildPayload(f, user)

	rec, err := s.store.Create(ctx, store.CollectionResources, payload)
	if err != nil {
		s.logger.Warn("resource submission not stored, reporting deferred",
			logger.String("user", user.ID),
			logger.String("url", f.URL),
			logger.Error(err))
		return Receipt{Outcome: OutcomeDeferred, Message: deferredMessage}, nil
	}

	s.logger.Info("resource submitted",
		logger.String("id", rec.ID()),
		logger.String("user", user.ID),
		logger.String("category", f.Category))
	return Receipt{Outcome: OutcomeAccepted, Message: acceptedMessage, Stored: true, ID: rec.ID()}, nil
}

func buildPayload(f Form, user *auth.User) store.Record {
	author := strings.TrimSpace(f.Author)
	if author == "" {
		author = user.Email
	}
	if author == "" {
		author = "Anonymous"
	}

	return store.Record{
		"title":         strings.TrimSpace(f.Title),
		"description":   strings.TrimSpace(f.Description),
		"url":           strings.TrimSpace(f.URL),
		"category":      strings.TrimSpace(f.Category),
		"tags":          domain.EncodeTags(f.normalizedTags()),
		"author":        author,
		"authorUrl":     strings.TrimSpace(f.AuthorURL),
		"githubUrl":     strings.TrimSpace(f.GitHubURL),
		"documentation": strings.TrimSpace(f.Documentation),
		"license":       strings.TrimSpace(f.License),
		"featured":      false,
		"userId":        user.ID,
		"status":        string(domain.StatusPending),
		"stars":         0,
	}
}

func validate(f Form) error {
	fields := make(map[string]string)

	if strings.TrimSpace(f.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(f.Description) == "" {
		fields["description"] = "required"
	}
	if strings.TrimSpace(f.URL) == "" {
		fields["url"] = "required"
	} else if !isHTTPURL(f.URL) {
		fields["url"] = "must be an absolute http(s) URL"
	}
	switch c := strings.TrimSpace(f.Category); {
	case c == "":
		fields["category"] = "required"
	case strings.EqualFold(c, domain.CategoryAll):
		fields["category"] = "\"" + domain.CategoryAll + "\" is reserved"
	}

	optional := map[string]string{
		"authorUrl":     f.AuthorURL,
		"githubUrl":     f.GitHubURL,
		"documentation": f.Documentation,
	}
	for name, v := range optional {
		if strings.TrimSpace(v) != "" && !isHTTPURL(v) {
			fields[name] = "must be an absolute http(s) URL"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
