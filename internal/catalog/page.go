package catalog

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
)

// Page holds the state of one browse visit: the loaded catalog and whether
// a load is in flight. View always works on the most recent data and on an
// empty set before the first load completes.
type Page struct {
	fetcher Fetcher

	mu      sync.Mutex
	all     []domain.Resource
	source  Source
	loading bool
	loaded  bool
	err     error
}

func NewPage(f Fetcher) *Page {
	return &Page{fetcher: f}
}

// Load runs one fetch. It is safe to call from its own goroutine while
// View is being called.
func (p *Page) Load(ctx context.Context) Result {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	res := p.fetcher.FetchApproved(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.all = res.Resources
	p.source = res.Source
	p.err = res.Err
	p.loading = false
	p.loaded = true

	return res
}

// Loading reports whether a Load is in flight.
func (p *Page) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Loaded reports whether at least one Load has completed.
func (p *Page) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Source returns the tag of the last load, "" before the first.
func (p *Page) Source() Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Err returns the fallback cause of the last load.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// View derives the render-ready view from the current data.
func (p *Page) View(opts domain.ViewOptions) domain.CatalogView {
	p.mu.Lock()
	all := p.all
	p.mu.Unlock()

	// all is replaced wholesale on Load and never mutated, so it can be read
	// outside the lock
	return domain.BuildCatalogView(all, opts)
}
