// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/testutil"
)

func (e *testEnv) getCart(t *testing.T, id string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.cartHandler.GetCart(w, testutil.MakeRequest("GET", "/cart", nil, sessionHeaders(id)))
	return w
}

func TestGetCart_RequiresSignIn(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)

	w := env.getCart(t, id)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	if len(env.api.Calls()) != 0 {
		t.Error("Cart service should not be called for anonymous sessions")
	}
}

func TestGetCart_Cached(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	env.callback(t, id, models.AuthCallbackRequest{Token: "tok"}, nil)

	w := env.getCart(t, id)
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("Expected X-Cache MISS, got %q", got)
	}

	w = env.getCart(t, id)
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("Expected X-Cache HIT, got %q", got)
	}

	if len(env.api.Calls()) != 1 {
		t.Errorf("Expected 1 upstream read, got %d", len(env.api.Calls()))
	}
}

func TestGetCart_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	env.callback(t, id, models.AuthCallbackRequest{Token: "tok"}, nil)

	env.api.Close()

	w := env.getCart(t, id)
	testutil.AssertStatus(t, w, http.StatusBadGateway)
}
