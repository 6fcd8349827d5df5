package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/handlers"
)

func init() {
	Register(registerAuth)
	RegisterStream(registerAuthEvents)
}

func registerAuth(r chi.Router, d deps.Deps) {
	r.Get("/api/auth/login", handlers.BeginLogin(d))
	r.Get("/api/auth/me", handlers.Me(d))
	r.Post("/api/auth/session", handlers.SignIn(d))
	r.Delete("/api/auth/session", handlers.SignOut(d))
}

func registerAuthEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/auth/events", handlers.AuthEvents(d))
}
