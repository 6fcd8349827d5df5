package sqlstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
	kindTime
)

type column struct {
	name string
	kind kind
}

// tableOps is the untyped view the Store works with.
type tableOps interface {
	list(tx *gorm.DB, opts store.ListOptions) ([]store.Record, error)
	get(tx *gorm.DB, id string) (store.Record, error)
	create(tx *gorm.DB, rec store.Record) (store.Record, error)
	save(tx *gorm.DB, rec store.Record) (store.Record, error)
	delete(tx *gorm.DB, id string) (int64, error)
}

// table maps wire records to a GORM model with real columns.
type table[T any] struct {
	fields map[string]column
	encode func(store.Record) *T
	decode func(*T) store.Record
}

func (t table[T]) list(tx *gorm.DB, opts store.ListOptions) ([]store.Record, error) {
	q := tx.Model(new(T))

	for field, v := range opts.Where {
		col, ok := t.fields[field]
		if !ok {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		q = q.Where(clause.Eq{Column: clause.Column{Name: col.name}, Value: convert(v, col.kind)})
	}
	for _, o := range opts.OrderBy {
		col, ok := t.fields[o.Field]
		if !ok {
			return nil, fmt.Errorf("unknown order field %q", o.Field)
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col.name}, Desc: o.Desc})
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]store.Record, 0, len(rows))
	for i := range rows {
		out = append(out, t.decode(&rows[i]))
	}
	return out, nil
}

func (t table[T]) get(tx *gorm.DB, id string) (store.Record, error) {
	var row T
	err := tx.Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t.decode(&row), nil
}

func (t table[T]) create(tx *gorm.DB, rec store.Record) (store.Record, error) {
	row := t.encode(rec)
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return t.decode(row), nil
}

func (t table[T]) save(tx *gorm.DB, rec store.Record) (store.Record, error) {
	row := t.encode(rec)
	if err := tx.Save(row).Error; err != nil {
		return nil, err
	}
	return t.decode(row), nil
}

func (t table[T]) delete(tx *gorm.DB, id string) (int64, error) {
	res := tx.Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).Delete(new(T))
	return res.RowsAffected, res.Error
}

func convert(v any, k kind) any {
	switch k {
	case kindInt:
		return asInt(v)
	case kindBool:
		return asBool(v)
	case kindTime:
		return asTime(v)
	default:
		return asString(v)
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// asInt accepts numbers, numeric strings and bools (true is 1).
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		f, _ := n.Float64()
		return int(f)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "true" {
			return 1
		}
		f, _ := strconv.ParseFloat(s, 64)
		return int(f)
	}
	return 0
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		return asInt(v) > 0
	}
}

func asTime(v any) time.Time {
	t, _ := store.ToTime(v)
	return t.UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
