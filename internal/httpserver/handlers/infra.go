package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/catalog"
	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Driver     string `json:"driver,omitempty"`
	Source     string `json:"source,omitempty"`
	Resources  *int   `json:"resources,omitempty"`
	Active     *int   `json:"active,omitempty"`
	LastImport string `json:"last_import,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each backing component and an overall mode:
// "operational", "degraded" (catalog served from fallback) or "critical"
// (store unreachable).
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":    checkStore(r.Context(), d),
			"catalog":  checkCatalog(r.Context(), d),
			"sessions": sessionStatus(d),
		}
		if d.Seed != nil {
			components["seed"] = seedStatus(d)
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if !components["store"].OK {
		return "critical"
	}
	if !components["catalog"].OK {
		return "degraded"
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Driver: d.Store.Name(),
			Impact: "catalog-fallback, submissions-deferred",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Driver: d.Store.Name()}
}

func checkCatalog(ctx context.Context, d deps.Deps) componentStatus {
	wait := d.CatalogWait
	if wait <= 0 {
		wait = pingTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	page := catalog.NewPage(d.Catalog)
	done := make(chan struct{})
	go func() {
		defer close(done)
		page.Load(ctx)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}

	if page.Loading() || !page.Loaded() {
		return componentStatus{
			OK:     false,
			Impact: "catalog-slow",
			Error:  "catalog load still in flight after " + wait.String(),
		}
	}

	n := len(page.View(domain.ViewOptions{}).Resources)
	st := componentStatus{
		OK:        page.Source() == catalog.SourceLive,
		Source:    string(page.Source()),
		Resources: &n,
	}
	if err := page.Err(); err != nil {
		st.Impact = "sample-data-shown"
		st.Error = err.Error()
	}
	return st
}

func sessionStatus(d deps.Deps) componentStatus {
	n := d.Sessions.Len()
	return componentStatus{OK: true, Active: &n}
}

func seedStatus(d deps.Deps) componentStatus {
	last := d.Seed.Last()
	st := componentStatus{OK: !last.At.IsZero(), LastImport: "never"}
	if !last.At.IsZero() {
		n := last.Imported
		st.LastImport = last.At.Format(time.DateTime)
		st.Resources = &n
	}
	return st
}
