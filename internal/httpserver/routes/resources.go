package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/mw"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	r.Get("/api/resources", handlers.ListResources(d))
	r.Get("/api/catalog/meta", handlers.CatalogMeta(d))
	r.With(mw.RateLimit(submitLimit(d))).Post("/api/resources", handlers.SubmitResource(d))
}

func submitLimit(d deps.Deps) mw.RateLimitConfig {
	return mw.RateLimitConfig{
		Burst:        d.SubmitBurst,
		RefillPerMin: d.SubmitRefillPerMin,
		MaxEntries:   10_000,
		TrustProxy:   d.TrustProxy,
	}
}
