package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the moderation state of a Resource.
type Status string

const (
	StatusPending  Status = "pending"  // awaiting review, hidden from browse
	StatusApproved Status = "approved" // publicly visible
	StatusRejected Status = "rejected" // hidden, terminal
)

// ParseStatus accepts the three moderation states, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown moderation status %q", s)
	}
}

// Resource is a single catalog entry: a tool, library or template.
//
// Transitions pending -> approved and pending -> rejected are owned by an
// external moderation process. This service only ever reads approved
// resources and only ever writes pending ones.
type Resource struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the record store and is unique across the collection.
	ID string `json:"id"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Title       string `json:"title"`
	Description string `json:"description"`

	// URL is the canonical link to the resource.
	URL string `json:"url"`

	// Category is a single label. The set is open-ended, see BrowseCategories
	// for the suggested values.
	Category string `json:"category"`

	Author        string `json:"author"`
	AuthorURL     string `json:"authorUrl,omitempty"`
	GitHubURL     string `json:"githubUrl,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	License       string `json:"license,omitempty"`

	// Tags is always a clean ordered list once a record has been normalized.
	// The store keeps it as a serialized string, see DecodeTags.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Ranking & moderation
	// ─────────────────────────────

	// Stars is the popularity score, never negative.
	Stars int `json:"stars"`

	// Featured highlights a resource. It does not gate visibility.
	Featured bool `json:"featured"`

	Status Status `json:"status"`

	// UserID is the opaque id of the submitting user.
	UserID string `json:"userId"`

	// ─────────────────────────────
	// Audit
	// ─────────────────────────────

	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is never before CreatedAt.
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasTag reports whether the resource carries tag (case-insensitive).
func (r *Resource) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
