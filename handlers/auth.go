// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-cart/auth"
	"github.com/danielhkuo/quickly-cart/cliparse"
	"github.com/danielhkuo/quickly-cart/middleware"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/session"
)

type AuthHandler struct {
	sessions *session.Manager
	cfg      cliparse.Config
}

func NewAuthHandler(sessions *session.Manager, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{sessions: sessions, cfg: cfg}
}

// Callback handles POST /auth/callback
// The provider hands back a bearer token; becoming authenticated resumes
// any pending add-to-cart before the response is written
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r, h.sessions)
	if !ok {
		return
	}

	token, err := callbackToken(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	resolution := s.Authenticate(r.Context(), token)
	slog.Info("session authenticated",
		"session_id", s.ID,
		"token_fp", s.Fingerprint(),
		"resolution", resolution,
	)

	toasts, events := s.Inbox.Drain()
	middleware.JSONResponse(w, http.StatusOK, models.AuthCallbackResponse{
		Authenticated: true,
		Resolution:    resolution,
		Toasts:        toasts,
		Events:        events,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r, h.sessions)
	if !ok {
		return
	}

	s.SignOut(r.Context())
	slog.Info("session signed out", "session_id", s.ID)

	w.WriteHeader(http.StatusNoContent)
}

// callbackToken prefers the Authorization header and falls back to the
// JSON body
func callbackToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return auth.BearerToken(header)
	}

	var req models.AuthCallbackRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", auth.ErrMissingToken
		}
		return "", auth.ErrInvalidToken
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}
