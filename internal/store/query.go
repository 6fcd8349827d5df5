package store

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Apply filters, orders and limits recs the way every map-backed driver
// does it. recs is not modified.
func Apply(recs []Record, opts ListOptions) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if Matches(r, opts.Where) {
			out = append(out, r)
		}
	}

	SortRecords(out, opts.OrderBy)

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// Matches reports whether every where clause equals the record's field.
// Numbers compare by value regardless of their Go type.
func Matches(r Record, where map[string]any) bool {
	for field, want := range where {
		got, ok := r[field]
		if !ok || !equal(got, want) {
			return false
		}
	}
	return true
}

// SortRecords sorts recs in place by the clauses in order. Ties keep
// input order. Missing fields sort first ascending.
func SortRecords(recs []Record, orderBy []Order) {
	if len(orderBy) == 0 {
		return
	}
	slices.SortStableFunc(recs, func(a, b Record) int {
		for _, o := range orderBy {
			c := compareValues(a[o.Field], b[o.Field])
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := ToTime(a); ok {
		if tb, ok := ToTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// ToTime reads a time.Time or an RFC 3339 string.
func ToTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z07:00", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	return 0, false
}
