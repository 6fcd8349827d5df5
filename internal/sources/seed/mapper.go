package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/store"
)

// SeedUserID owns every imported record.
const SeedUserID = "seed"

// Map converts seed entries into approved wire records. Entries without a
// title or with an invalid URL are reported in skipped and left out. The
// same URL always maps to the same id.
func Map(f File, now time.Time) (recs []store.Record, skipped []string) {
	seen := make(map[string]bool, len(f.Resources))

	for i, e := range f.Resources {
		title := strings.TrimSpace(e.Title)
		link := strings.TrimSpace(e.URL)

		if title == "" {
			skipped = append(skipped, fmt.Sprintf("entry %d: missing title", i))
			continue
		}
		if u, err := url.Parse(link); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			skipped = append(skipped, fmt.Sprintf("entry %d (%s): invalid url %q", i, title, link))
			continue
		}
		if seen[link] {
			skipped = append(skipped, fmt.Sprintf("entry %d (%s): duplicate url", i, title))
			continue
		}
		seen[link] = true

		created := now
		if e.Added != "" {
			t, err := time.Parse(time.DateOnly, e.Added)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("entry %d (%s): invalid added date %q", i, title, e.Added))
				continue
			}
			created = t
		}
		stamp := created.UTC().Format(time.RFC3339Nano)

		featured := 0
		if e.Featured {
			featured = 1
		}
		stars := e.Stars
		if stars < 0 {
			stars = 0
		}

		recs = append(recs, store.Record{
			"id":            RecordID(link),
			"title":         title,
			"description":   strings.TrimSpace(e.Description),
			"url":           link,
			"category":      strings.TrimSpace(e.Category),
			"tags":          domain.EncodeTags(domain.CleanTags(e.Tags)),
			"author":        strings.TrimSpace(e.Author),
			"authorUrl":     e.AuthorURL,
			"githubUrl":     e.GitHubURL,
			"documentation": e.Documentation,
			"license":       e.License,
			"stars":         stars,
			"featured":      featured,
			"status":        string(domain.StatusApproved),
			"userId":        SeedUserID,
			"createdAt":     stamp,
			"updatedAt":     stamp,
		})
	}

	return recs, skipped
}

// RecordID derives a stable id from a URL.
func RecordID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return "seed-" + hex.EncodeToString(hash[:])[:16]
}
