// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-cart/cliparse"
	"github.com/danielhkuo/quickly-cart/handlers"
	"github.com/danielhkuo/quickly-cart/middleware"
	"github.com/danielhkuo/quickly-cart/session"
)

func NewRouter(sessions *session.Manager, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessions, cfg)
	intentHandler := handlers.NewIntentHandler(sessions, cfg)
	authHandler := handlers.NewAuthHandler(sessions, cfg)
	cartHandler := handlers.NewCartHandler(sessions)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /events", middleware.WithLogging(sessionHandler.GetEvents))

	// Pending intents (written before sign-in)
	mux.HandleFunc("POST /intents", middleware.WithLogging(intentHandler.CreateIntent))
	mux.HandleFunc("GET /intents", middleware.WithLogging(intentHandler.GetIntent))

	// Authentication transitions
	mux.HandleFunc("POST /auth/callback", middleware.WithLogging(authHandler.Callback))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(authHandler.Logout))

	// Cart view
	mux.HandleFunc("GET /cart", middleware.WithLogging(cartHandler.GetCart))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("quickly-cart API v1"))
	})

	return mux
}
