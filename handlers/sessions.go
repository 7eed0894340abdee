// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-cart/auth"
	"github.com/danielhkuo/quickly-cart/cliparse"
	"github.com/danielhkuo/quickly-cart/middleware"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/session"
)

type SessionHandler struct {
	sessions *session.Manager
	cfg      cliparse.Config
}

func NewSessionHandler(sessions *session.Manager, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{sessions: sessions, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(auth.NewSessionID())
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	middleware.SetSessionCookie(w, r, s.ID, h.cfg.SessionTTL)
	slog.Info("session created", "session_id", s.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: s.ID,
	})
}

// GetEvents handles GET /events
// Toasts and events are returned once and then forgotten
func (h *SessionHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r, h.sessions)
	if !ok {
		return
	}

	toasts, events := s.Inbox.Drain()
	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{
		Toasts: toasts,
		Events: events,
	})
}

// requireSession resolves the caller's session or writes the error response
func requireSession(w http.ResponseWriter, r *http.Request, sessions *session.Manager) (*session.Session, bool) {
	id, err := middleware.SessionID(r)
	if err != nil {
		if errors.Is(err, middleware.ErrNoSession) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-ID header or session cookie required")
		} else {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid session id")
		}
		return nil, false
	}

	s, err := sessions.Get(id)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid session id")
		return nil, false
	}
	return s, true
}
