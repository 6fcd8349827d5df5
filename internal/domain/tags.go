package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeTags turns the store's serialized tag list into a clean slice.
//
// An empty input yields an empty slice and no error. Anything that is not a
// JSON array of strings yields an empty slice and an error, so the caller can
// log it and keep the record.
func DecodeTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []string{}, nil
	}

	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return []string{}, fmt.Errorf("malformed tags encoding: %w", err)
	}

	return CleanTags(decoded), nil
}

// EncodeTags serializes tags for the store. Nil encodes as "[]".
func EncodeTags(tags []string) string {
	if tags == nil {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(data)
}

// CleanTags trims every tag and drops empty ones, keeping order.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
