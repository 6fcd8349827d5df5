package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/catalog"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/store/memory"
)

// fallbackCatalog always serves the built-in catalog.
type fallbackCatalog struct{}

func (fallbackCatalog) FetchApproved(context.Context) catalog.Result {
	return catalog.Result{Resources: catalog.Fallback(), Source: catalog.SourceFallback}
}

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.New(), fallbackCatalog{}, logger.New("error", false))
}

func member() auth.Session {
	return auth.Session{ID: "sid", State: auth.State{User: &auth.User{ID: "u1", Email: "ada@example.com"}}}
}

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	n, err := svc.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = svc.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second call must not duplicate defaults")

	dirs, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, dirs, 4)

	counts := map[string]int{}
	for _, d := range dirs {
		counts[d.Name] = d.ResourceCount
		assert.NotEmpty(t, d.ID)
		assert.True(t, d.IsPublic)
	}
	assert.Equal(t, 2, counts["UI Components"])
	assert.Equal(t, 1, counts["Authentication"])
	assert.Equal(t, 1, counts["Database"])
	assert.Equal(t, 1, counts["E-commerce"])
}

func TestListQuery(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.EnsureDefaults(ctx)
	require.NoError(t, err)

	dirs, err := svc.List(ctx, "Data Management")
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, "Database", dirs[0].Name)

	dirs, err = svc.List(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	d, err := svc.Create(ctx, member(), Input{Name: "  Styling ", Description: "CSS tooling"})
	require.NoError(t, err)
	assert.Equal(t, "Styling", d.Name)
	assert.Equal(t, DefaultIcon, d.Icon)
	assert.Equal(t, DefaultColor, d.Color)
	assert.True(t, d.IsPublic)
	assert.Equal(t, "ada@example.com", d.CreatedBy)

	private := false
	d, err = svc.Create(ctx, member(), Input{Name: "Secret", Color: "#ABCDEF", IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, d.IsPublic)
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.Create(ctx, member(), Input{Name: "Styling"})
	require.NoError(t, err)

	tests := []struct {
		name string
		sess auth.Session
		in   Input
		want error
	}{
		{"anonymous", auth.Session{}, Input{Name: "X"}, ErrAuthRequired},
		{"blank name", member(), Input{Name: "   "}, ErrNameRequired},
		{"bad color", member(), Input{Name: "X", Color: "blue"}, ErrInvalidColor},
		{"short color", member(), Input{Name: "X", Color: "#fff"}, ErrInvalidColor},
		{"duplicate name", member(), Input{Name: "styling"}, ErrNameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.sess, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.ErrorIs(t, ErrAuthRequired, auth.ErrUnauthenticated)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	d, err := svc.Create(ctx, member(), Input{Name: "Styling"})
	require.NoError(t, err)

	// renaming to its own name is not a conflict
	updated, err := svc.Update(ctx, member(), d.ID, Input{Name: "STYLING", Color: "#10b981"})
	require.NoError(t, err)
	assert.Equal(t, "STYLING", updated.Name)
	assert.Equal(t, "#10b981", updated.Color)

	_, err = svc.Update(ctx, member(), "missing", Input{Name: "Other"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, auth.Session{}, d.ID, Input{Name: "X"})
	assert.ErrorIs(t, err, ErrAuthRequired)

	assert.ErrorIs(t, svc.Delete(ctx, auth.Session{}, d.ID), ErrAuthRequired)
	require.NoError(t, svc.Delete(ctx, member(), d.ID))
	assert.ErrorIs(t, svc.Delete(ctx, member(), d.ID), ErrNotFound)
}

func TestOnlyCreatorMayChange(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.EnsureDefaults(ctx)
	require.NoError(t, err)

	d, err := svc.Create(ctx, member(), Input{Name: "Styling"})
	require.NoError(t, err)

	other := auth.Session{ID: "sid2", State: auth.State{User: &auth.User{ID: "u2", Email: "bob@example.com"}}}

	_, err = svc.Update(ctx, other, d.ID, Input{Name: "Hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, other, d.ID), ErrForbidden)

	dirs, err := svc.List(ctx, "")
	require.NoError(t, err)
	var names []string
	for _, dir := range dirs {
		names = append(names, dir.Name)
	}
	assert.Contains(t, names, "Styling")
	assert.NotContains(t, names, "Hijacked")

	// seeded directories belong to Admin
	var seeded string
	for _, dir := range dirs {
		if dir.Name == "Database" {
			seeded = dir.ID
		}
	}
	require.NotEmpty(t, seeded)
	assert.ErrorIs(t, svc.Delete(ctx, member(), seeded), ErrForbidden)

	_, err = svc.Update(ctx, member(), d.ID, Input{Name: "Styles"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, member(), d.ID))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.EnsureDefaults(ctx)
	require.NoError(t, err)

	private := false
	_, err = svc.Create(ctx, member(), Input{Name: "Styling", IsPublic: &private})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, member())
	require.NoError(t, err)
	assert.Equal(t, 5, st.Directories)
	assert.Equal(t, 4, st.Public)
	assert.Equal(t, 1, st.Mine)
	// UI Components 2 + Authentication 1 + Database 1 + E-commerce 1 + Styling 1
	assert.Equal(t, 6, st.Resources)

	anon, err := svc.Stats(ctx, auth.Session{})
	require.NoError(t, err)
	assert.Zero(t, anon.Mine)
}
