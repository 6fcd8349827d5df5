package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
)

// gatedFetcher blocks until release is closed.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
	result  Result
}

func (g *gatedFetcher) FetchApproved(context.Context) Result {
	close(g.started)
	<-g.release
	return g.result
}

func TestPageViewBeforeLoadIsEmpty(t *testing.T) {
	p := NewPage(&gatedFetcher{})
	v := p.View(domain.ViewOptions{})
	if v.Total != 0 || v.AllCount != 0 || p.Loaded() {
		t.Errorf("unexpected view before load: %+v", v)
	}
}

func TestPageLoadingState(t *testing.T) {
	f := &gatedFetcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  Result{Resources: Fallback(), Source: SourceFallback},
	}
	p := NewPage(f)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Load(context.Background())
	}()

	<-f.started
	if !p.Loading() {
		t.Error("Loading() = false during fetch")
	}
	// the page stays usable while loading
	if v := p.View(domain.ViewOptions{}); v.Total != 0 {
		t.Errorf("View during first load = %d resources, want 0", v.Total)
	}

	close(f.release)
	wg.Wait()

	if p.Loading() || !p.Loaded() {
		t.Error("page should be loaded and idle")
	}
	if p.Source() != SourceFallback {
		t.Errorf("Source() = %q", p.Source())
	}

	v := p.View(domain.ViewOptions{Category: "Database", FeaturedOnly: true})
	if v.Total != 1 || v.Resources[0].Title != "Prisma" {
		t.Errorf("View() = %+v, want only Prisma", v.Resources)
	}
	v = p.View(domain.ViewOptions{Query: "auth"})
	if v.Total != 1 || v.Resources[0].Title != "NextAuth.js" {
		t.Errorf("View(auth) = %+v, want only NextAuth.js", v.Resources)
	}
}
