// Package directory manages the named category groupings shown on the
// directories page.
package directory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/teris-io/shortid"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/catalog"
	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/store"
)

const (
	DefaultIcon  = "📁"
	DefaultColor = "#3b82f6"
)

var (
	ErrNameRequired = errors.New("directory name is required")
	ErrNameTaken    = errors.New("a directory with this name already exists")
	ErrInvalidColor = errors.New("color must be #rrggbb")
	ErrNotFound     = errors.New("directory not found")
	ErrForbidden    = errors.New("only the creator can change this directory")
	ErrAuthRequired = fmt.Errorf("please sign in to manage directories: %w", auth.ErrUnauthenticated)
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var defaultDirectories = []Input{
	{Name: "UI Components", Description: "Reusable UI components and component libraries", Icon: "🎨", Color: "#3b82f6"},
	{Name: "Authentication", Description: "Authentication libraries and solutions", Icon: "🔐", Color: "#10b981"},
	{Name: "Database", Description: "Database tools, ORMs, and data management", Icon: "🗄️", Color: "#f59e0b"},
	{Name: "E-commerce", Description: "E-commerce platforms and shopping solutions", Icon: "🛒", Color: "#ef4444"},
}

// Input is the editable part of a directory.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

// Stats is the summary strip of the directories page.
type Stats struct {
	Directories int `json:"directories"`
	Resources   int `json:"resources"`
	Public      int `json:"public"`
	Mine        int `json:"mine"`
}

type Service struct {
	store   store.RecordStore
	catalog catalog.Fetcher
	logger  logger.Logger
}

func NewService(s store.RecordStore, c catalog.Fetcher, log logger.Logger) *Service {
	return &Service{
		store:   s,
		catalog: c,
		logger:  log.Named("directory"),
	}
}

// List returns directories matching query (name or description,
// case-insensitive) with resource counts taken from the approved catalog.
// The catalog and the directory collection are loaded concurrently.
func (s *Service) List(ctx context.Context, query string) ([]domain.Directory, error) {
	var (
		recs   []store.Record
		counts map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = s.store.List(gctx, store.CollectionDirectories, store.ListOptions{
			OrderBy: []store.Order{{Field: store.FieldCreatedAt}},
		})
		return err
	})
	g.Go(func() error {
		res := s.catalog.FetchApproved(gctx)
		counts = domain.CountByCategory(res.Resources)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Directory, 0, len(recs))
	for _, rec := range recs {
		d := fromRecord(rec)
		if q != "" &&
			!strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.Description), q) {
			continue
		}
		d.ResourceCount = counts[d.Name]
		out = append(out, d)
	}
	return out, nil
}

// Stats lists every directory and summarizes it for sess.
func (s *Service) Stats(ctx context.Context, sess auth.Session) (Stats, error) {
	dirs, err := s.List(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	return Summarize(dirs, sess), nil
}

// Summarize computes the page totals. Mine counts directories created by
// the session's user.
func Summarize(dirs []domain.Directory, sess auth.Session) Stats {
	st := Stats{Directories: len(dirs)}
	owner := ownerOf(sess)
	for _, d := range dirs {
		st.Resources += d.ResourceCount
		if d.IsPublic {
			st.Public++
		}
		if owner != "" && d.CreatedBy == owner {
			st.Mine++
		}
	}
	return st
}

// Create stores a new directory owned by the session's user.
func (s *Service) Create(ctx context.Context, sess auth.Session, in Input) (domain.Directory, error) {
	owner := ownerOf(sess)
	if owner == "" {
		return domain.Directory{}, ErrAuthRequired
	}

	in, err := s.check(ctx, in, "")
	if err != nil {
		return domain.Directory{}, err
	}

	id, err := shortid.Generate()
	if err != nil {
		return domain.Directory{}, fmt.Errorf("generate directory id: %w", err)
	}

	rec, err := s.store.Create(ctx, store.CollectionDirectories, store.Record{
		"id":          id,
		"name":        in.Name,
		"description": in.Description,
		"icon":        in.Icon,
		"color":       in.Color,
		"isPublic":    *in.IsPublic,
		"createdBy":   owner,
	})
	if err != nil {
		return domain.Directory{}, fmt.Errorf("create directory: %w", err)
	}

	s.logger.Info("directory created", logger.String("id", id), logger.String("name", in.Name))
	return fromRecord(rec), nil
}

// Update replaces the editable fields of a directory. Only its creator may
// edit it.
func (s *Service) Update(ctx context.Context, sess auth.Session, id string, in Input) (domain.Directory, error) {
	if err := s.authorize(ctx, sess, id); err != nil {
		return domain.Directory{}, err
	}

	in, err := s.check(ctx, in, id)
	if err != nil {
		return domain.Directory{}, err
	}

	rec, err := s.store.Update(ctx, store.CollectionDirectories, id, store.Record{
		"name":        in.Name,
		"description": in.Description,
		"icon":        in.Icon,
		"color":       in.Color,
		"isPublic":    *in.IsPublic,
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Directory{}, ErrNotFound
	}
	if err != nil {
		return domain.Directory{}, fmt.Errorf("update directory: %w", err)
	}
	return fromRecord(rec), nil
}

// Delete removes a directory owned by the session's user. Resources in its
// category are untouched.
func (s *Service) Delete(ctx context.Context, sess auth.Session, id string) error {
	if err := s.authorize(ctx, sess, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, store.CollectionDirectories, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete directory: %w", err)
	}
	s.logger.Info("directory deleted", logger.String("id", id))
	return nil
}

// EnsureDefaults seeds the default directories into an empty collection.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	existing, err := s.store.List(ctx, store.CollectionDirectories, store.ListOptions{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("check directories: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, in := range defaultDirectories {
		id, err := shortid.Generate()
		if err != nil {
			return 0, fmt.Errorf("generate directory id: %w", err)
		}
		if _, err := s.store.Create(ctx, store.CollectionDirectories, store.Record{
			"id":          id,
			"name":        in.Name,
			"description": in.Description,
			"icon":        in.Icon,
			"color":       in.Color,
			"isPublic":    true,
			"createdBy":   "Admin",
		}); err != nil {
			return 0, fmt.Errorf("seed directory %s: %w", in.Name, err)
		}
	}

	s.logger.Info("default directories created", logger.Int("count", len(defaultDirectories)))
	return len(defaultDirectories), nil
}

// check validates in, fills defaults and enforces unique names. selfID is
// the directory being edited, "" on create.
func (s *Service) check(ctx context.Context, in Input, selfID string) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.Icon == "" {
		in.Icon = DefaultIcon
	}
	if in.Color == "" {
		in.Color = DefaultColor
	}
	if !colorPattern.MatchString(in.Color) {
		return in, ErrInvalidColor
	}
	if in.IsPublic == nil {
		public := true
		in.IsPublic = &public
	}

	recs, err := s.store.List(ctx, store.CollectionDirectories, store.ListOptions{})
	if err != nil {
		return in, fmt.Errorf("check directory name: %w", err)
	}
	taken := slices.ContainsFunc(recs, func(r store.Record) bool {
		name, _ := r["name"].(string)
		return r.ID() != selfID && strings.EqualFold(name, in.Name)
	})
	if taken {
		return in, ErrNameTaken
	}
	return in, nil
}

// authorize loads directory id and checks that sess created it.
func (s *Service) authorize(ctx context.Context, sess auth.Session, id string) error {
	owner := ownerOf(sess)
	if owner == "" {
		return ErrAuthRequired
	}
	recs, err := s.store.List(ctx, store.CollectionDirectories, store.ListOptions{
		Where: map[string]any{"id": id},
		Limit: 1,
	})
	if err != nil {
		return fmt.Errorf("load directory: %w", err)
	}
	if len(recs) == 0 {
		return ErrNotFound
	}
	if asString(recs[0]["createdBy"]) != owner {
		return ErrForbidden
	}
	return nil
}

func ownerOf(sess auth.Session) string {
	u := sess.User()
	if u == nil {
		return ""
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

func fromRecord(rec store.Record) domain.Directory {
	d := domain.Directory{
		ID:          rec.ID(),
		Name:        asString(rec["name"]),
		Description: asString(rec["description"]),
		Icon:        asString(rec["icon"]),
		Color:       asString(rec["color"]),
		CreatedBy:   asString(rec["createdBy"]),
		IsPublic:    true,
	}
	if b, ok := rec["isPublic"].(bool); ok {
		d.IsPublic = b
	}
	if t, ok := store.ToTime(rec[store.FieldCreatedAt]); ok {
		d.CreatedAt = t
	}
	return d
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
