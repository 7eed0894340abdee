// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-cart/executor"
	"github.com/danielhkuo/quickly-cart/middleware"
	"github.com/danielhkuo/quickly-cart/session"
)

type CartHandler struct {
	sessions *session.Manager
}

func NewCartHandler(sessions *session.Manager) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// GetCart handles GET /cart
// Served from the session's view cache; a replayed add-to-cart drops it
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r, h.sessions)
	if !ok {
		return
	}

	data, cached, err := s.Cart(r.Context())
	if err != nil {
		var statusErr *executor.StatusError
		switch {
		case errors.Is(err, session.ErrNotAuthenticated):
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in to view your cart")
		case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized:
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Cart service rejected the session token")
		default:
			slog.Error("failed to load cart", "session_id", s.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to load cart")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus(cached))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func cacheStatus(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}
