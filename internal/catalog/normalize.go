package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/store"
)

var (
	errMissingField = errors.New("missing required field")
	errNotApproved  = errors.New("record is not approved")
)

// normalize turns a wire record into a Resource.
//
// A malformed tags value is not fatal: the resource gets an empty tag list
// and tagErr reports the problem. err is set only for records that cannot
// be represented at all.
func normalize(rec store.Record) (r domain.Resource, tagErr error, err error) {
	r.ID = str(rec["id"])
	if r.ID == "" {
		return r, nil, fmt.Errorf("%w: id", errMissingField)
	}
	r.Title = str(rec["title"])
	if r.Title == "" {
		return r, nil, fmt.Errorf("%w: title (id %s)", errMissingField, r.ID)
	}

	if raw, ok := rec["status"]; ok {
		st, perr := domain.ParseStatus(str(raw))
		if perr != nil || st != domain.StatusApproved {
			return r, nil, fmt.Errorf("%w: %s has status %q", errNotApproved, r.ID, str(raw))
		}
	}
	r.Status = domain.StatusApproved

	r.Description = str(rec["description"])
	r.URL = str(rec["url"])
	r.Category = str(rec["category"])
	r.Author = str(rec["author"])
	r.AuthorURL = str(rec["authorUrl"])
	r.GitHubURL = str(rec["githubUrl"])
	r.Documentation = str(rec["documentation"])
	r.License = str(rec["license"])
	r.UserID = str(rec["userId"])

	r.Tags, tagErr = decodeTags(rec["tags"])
	r.Featured = coerceFeatured(rec["featured"])

	if stars, ok := number(rec["stars"]); ok && stars > 0 {
		r.Stars = int(stars)
	}

	if t, ok := store.ToTime(rec["createdAt"]); ok {
		r.CreatedAt = t
	}
	if t, ok := store.ToTime(rec["updatedAt"]); ok {
		r.UpdatedAt = t
	}
	if r.UpdatedAt.Before(r.CreatedAt) {
		r.UpdatedAt = r.CreatedAt
	}

	return r, tagErr, nil
}

// decodeTags accepts the serialized string form and, from schemaless
// drivers, an already decoded list.
func decodeTags(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return domain.DecodeTags(t)
	case []string:
		return domain.CleanTags(t), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return []string{}, fmt.Errorf("malformed tags encoding: element %v is not a string", item)
			}
			out = append(out, s)
		}
		return domain.CleanTags(out), nil
	default:
		return []string{}, fmt.Errorf("malformed tags encoding: unexpected %T", v)
	}
}

// coerceFeatured follows "number greater than zero" semantics: true, 1,
// "1" and "true" are featured, everything else is not.
func coerceFeatured(v any) bool {
	switch f := v.(type) {
	case bool:
		return f
	case string:
		s := strings.TrimSpace(f)
		if strings.EqualFold(s, "true") {
			return true
		}
		n, err := strconv.ParseFloat(s, 64)
		return err == nil && n > 0
	default:
		n, ok := number(v)
		return ok && n > 0
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case interface{ Float64() (float64, error) }: // json.Number
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
