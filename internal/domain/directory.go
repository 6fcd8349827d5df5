package domain

import "time"

// Directory is a named category grouping used for browsing and counts.
type Directory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"` // #rrggbb

	// ResourceCount is derived from the approved catalog, never stored.
	ResourceCount int `json:"resourceCount"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	IsPublic  bool      `json:"isPublic"`
}
