// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/testutil"
)

// TestConcurrentCallbacksReplayOnce verifies that simultaneous callbacks
// for one session add the item exactly once
func TestConcurrentCallbacksReplayOnce(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)

	w := httptest.NewRecorder()
	env.intentHandler.CreateIntent(w, testutil.MakeRequest("POST", "/intents",
		models.CreateIntentRequest{Action: "add-to-cart", ProductID: "P1", Quantity: 2}, sessionHeaders(id)))
	testutil.AssertStatus(t, w, http.StatusCreated)

	const numCallbacks = 10
	var replayed, unchanged atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numCallbacks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			env.authHandler.Callback(w, testutil.MakeRequest("POST", "/auth/callback",
				models.AuthCallbackRequest{Token: "tok"}, sessionHeaders(id)))
			if w.Code != http.StatusOK {
				t.Errorf("Callback failed: %d - %s", w.Code, w.Body.String())
				return
			}

			var resp models.AuthCallbackResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Errorf("Failed to decode response: %v", err)
				return
			}
			switch resp.Resolution {
			case "replayed":
				replayed.Add(1)
			case "unchanged":
				unchanged.Add(1)
			}
		}()
	}

	wg.Wait()

	if replayed.Load() != 1 {
		t.Errorf("Expected exactly 1 replay, got %d", replayed.Load())
	}
	if unchanged.Load() != numCallbacks-1 {
		t.Errorf("Expected %d unchanged callbacks, got %d", numCallbacks-1, unchanged.Load())
	}
	if got := len(env.api.Calls()); got != 1 {
		t.Errorf("Expected 1 cart call, got %d", got)
	}
}

// TestConcurrentSessions verifies independent sessions resolve in parallel
// without losing or duplicating adds
func TestConcurrentSessions(t *testing.T) {
	env := newTestEnv(t)

	const numSessions = 10
	ids := make([]string, numSessions)
	for i := range ids {
		ids[i] = env.newSession(t)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()

			w := httptest.NewRecorder()
			env.intentHandler.CreateIntent(w, testutil.MakeRequest("POST", "/intents",
				models.CreateIntentRequest{Action: "add-to-cart", ProductID: "P1", Quantity: idx + 1}, sessionHeaders(id)))
			if w.Code != http.StatusCreated {
				t.Errorf("Intent %d failed: %d", idx, w.Code)
				return
			}

			w = httptest.NewRecorder()
			env.authHandler.Callback(w, testutil.MakeRequest("POST", "/auth/callback",
				models.AuthCallbackRequest{Token: "tok"}, sessionHeaders(id)))
			if w.Code != http.StatusOK {
				t.Errorf("Callback %d failed: %d", idx, w.Code)
			}
		}(i, id)
	}

	wg.Wait()

	calls := env.api.Calls()
	if len(calls) != numSessions {
		t.Fatalf("Expected %d cart calls, got %d", numSessions, len(calls))
	}

	total := 0
	for _, c := range calls {
		total += c.Item.Quantity
	}
	if want := numSessions * (numSessions + 1) / 2; total != want {
		t.Errorf("Expected total quantity %d, got %d", want, total)
	}
}
