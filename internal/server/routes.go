// Package server wires HTTP handlers into a chi router for the chat relay.
package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter configures and returns the application router: health check,
// WebSocket endpoint, and the built-in test page, with request logging and
// panic recovery applied to all of them.
func NewRouter(hub *Hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", HealthHandler)
	r.Get("/ws", NewWebSocketHandler(hub))
	r.Get("/test", TestPageHandler)

	return r
}
