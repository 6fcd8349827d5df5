package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/mw"
)

func init() { Register(registerPreview) }

func registerPreview(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(submitLimit(d))).Get("/api/preview", handlers.Preview(d))
}
