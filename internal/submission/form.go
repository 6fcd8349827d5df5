package submission

import (
	"slices"
	"strings"
)

// Form is what a user fills in to propose a resource.
// Featured is deliberately absent: only moderation sets it.
type Form struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	URL           string   `json:"url"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Author        string   `json:"author"`
	AuthorURL     string   `json:"authorUrl"`
	GitHubURL     string   `json:"githubUrl"`
	Documentation string   `json:"documentation"`
	License       string   `json:"license"`
}

// AddTag appends tag unless it is empty or already present.
func (f *Form) AddTag(tag string) {
	if tag == "" || slices.Contains(f.Tags, tag) {
		return
	}
	f.Tags = append(f.Tags, tag)
}

// AddCustomTag trims and lowercases free-text input before adding it.
func (f *Form) AddCustomTag(raw string) {
	f.AddTag(strings.ToLower(strings.TrimSpace(raw)))
}

// normalizedTags replays Tags through AddCustomTag, so the stored list is
// trimmed, lowercased and free of duplicates in first occurrence order.
func (f Form) normalizedTags() []string {
	clean := Form{Tags: make([]string, 0, len(f.Tags))}
	for _, t := range f.Tags {
		clean.AddCustomTag(t)
	}
	return clean.Tags
}
