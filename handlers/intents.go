// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/danielhkuo/quickly-cart/cliparse"
	"github.com/danielhkuo/quickly-cart/intent"
	"github.com/danielhkuo/quickly-cart/middleware"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/session"
)

type IntentHandler struct {
	sessions *session.Manager
	cfg      cliparse.Config
}

func NewIntentHandler(sessions *session.Manager, cfg cliparse.Config) *IntentHandler {
	return &IntentHandler{sessions: sessions, cfg: cfg}
}

// CreateIntent handles POST /intents
// Records what the visitor was doing and sends them to sign in
func (h *IntentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req models.CreateIntentRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if s.Signal.Current().Authenticated {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is already signed in")
		return
	}

	loginURL, err := buildLoginURL(h.cfg.LoginURL, req.ReturnTo)
	if err != nil {
		slog.Error("invalid login URL", "login_url", h.cfg.LoginURL, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build login URL")
		return
	}

	rec := intent.Record{
		Action:    intent.Action(req.Action),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := intent.Save(r.Context(), s.Store, rec); err != nil {
		switch {
		case errors.Is(err, intent.ErrUnknownAction),
			errors.Is(err, intent.ErrMissingProductID),
			errors.Is(err, intent.ErrInvalidQuantity):
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to save intent", "session_id", s.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save intent")
		}
		return
	}

	slog.Info("intent recorded",
		"session_id", s.ID,
		"action", rec.Action,
		"product_id", rec.ProductID,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateIntentResponse{
		LoginURL: loginURL,
	})
}

// GetIntent handles GET /intents
// Read-only, so a buy-now checkout can pick up its own intent
func (h *IntentHandler) GetIntent(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r, h.sessions)
	if !ok {
		return
	}

	p, err := intent.Peek(r.Context(), s.Store)
	if err != nil {
		slog.Error("failed to read intent", "session_id", s.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read intent")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PendingIntentResponse{
		Pending:   !p.Empty(),
		Action:    string(p.Action),
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
	})
}

func buildLoginURL(base, returnTo string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if returnTo != "" {
		q := u.Query()
		q.Set("return_to", returnTo)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
