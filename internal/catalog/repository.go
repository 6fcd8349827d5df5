// Package catalog reads the approved catalog and owns per-visit page state.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/store"
)

// Source tells live data apart from the built-in fallback.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Result is what FetchApproved returns. It always carries a usable list.
type Result struct {
	Resources []domain.Resource
	Source    Source

	// Err is the cause of a fallback, nil for live data.
	Err error
}

// Fetcher is the read side used by Page and the directory service.
type Fetcher interface {
	FetchApproved(ctx context.Context) Result
}

// Repository reads approved resources from a record store.
type Repository struct {
	store  store.RecordStore
	logger logger.Logger
}

func NewRepository(s store.RecordStore, log logger.Logger) *Repository {
	return &Repository{
		store:  s,
		logger: log.Named("catalog"),
	}
}

// approvedQuery lists approved resources, newest first.
var approvedQuery = store.ListOptions{
	Where:   map[string]any{"status": string(domain.StatusApproved)},
	OrderBy: []store.Order{{Field: store.FieldCreatedAt, Desc: true}},
}

// FetchApproved makes a single attempt to read the approved catalog.
//
// Store errors and structurally broken records switch the whole result to
// the fallback set. A malformed tag encoding only empties that record's tags.
// Store order is preserved.
func (r *Repository) FetchApproved(ctx context.Context) Result {
	recs, err := r.store.List(ctx, store.CollectionResources, approvedQuery)
	if err != nil {
		return r.fallback(fmt.Errorf("list resources: %w", err))
	}

	out := make([]domain.Resource, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		res, tagErr, err := normalize(rec)
		if err != nil {
			if errors.Is(err, errNotApproved) {
				r.logger.Warn("skipping non-approved record", logger.Error(err))
				continue
			}
			return r.fallback(fmt.Errorf("normalize resource: %w", err))
		}
		if _, dup := seen[res.ID]; dup {
			return r.fallback(fmt.Errorf("normalize resource: duplicate id %s", res.ID))
		}
		seen[res.ID] = struct{}{}

		if tagErr != nil {
			r.logger.Warn("resource has malformed tags, using empty list",
				logger.String("id", res.ID),
				logger.Error(tagErr))
		}
		out = append(out, res)
	}

	r.logger.Debug("catalog loaded", logger.Int("resources", len(out)))
	return Result{Resources: out, Source: SourceLive}
}

func (r *Repository) fallback(cause error) Result {
	r.logger.Error("catalog unavailable, serving fallback data",
		logger.String("driver", r.store.Name()),
		logger.Error(cause))
	return Result{
		Resources: Fallback(),
		Source:    SourceFallback,
		Err:       cause,
	}
}
