package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/handlers"
)

func init() { Register(registerDirectories) }

func registerDirectories(r chi.Router, d deps.Deps) {
	r.Route("/api/directories", func(r chi.Router) {
		r.Get("/", handlers.ListDirectories(d))
		r.Post("/", handlers.CreateDirectory(d))
		r.Put("/{id}", handlers.UpdateDirectory(d))
		r.Delete("/{id}", handlers.DeleteDirectory(d))
	})
}
