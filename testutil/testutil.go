// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-cart/cliparse"
	"github.com/danielhkuo/quickly-cart/db"
	"github.com/danielhkuo/quickly-cart/executor"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/session"
)

// TestTokenSalt is the fingerprint salt used by GetTestConfig
const TestTokenSalt = "test-token-salt"

// SetupTestDB opens a private in-memory SQLite database with the schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(cartAPIURL string) cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file::memory:",
		DatabaseType:   db.TypeSQLite,
		CartAPIURL:     cartAPIURL,
		LoginURL:       "https://login.example.com/signin",
		TokenSalt:      TestTokenSalt,
		SessionTTL:     time.Hour,
		RequestTimeout: 2 * time.Second,
		AllowedOrigins: []string{"https://shop.example.com"},
	}
}

// CartCall is one request seen by FakeCartAPI
type CartCall struct {
	Method        string
	Authorization string
	Item          models.AddToCartRequest
}

// FakeCartAPI stands in for the cart service
type FakeCartAPI struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []CartCall
	status int
	items  []models.AddToCartRequest
}

// NewFakeCartAPI starts a cart service that accepts every add and lists
// the items it has accepted. It is closed when the test ends.
func NewFakeCartAPI(t *testing.T) *FakeCartAPI {
	t.Helper()

	api := &FakeCartAPI{status: http.StatusCreated}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)
	return api
}

// FailWith makes subsequent adds answer with status
func (a *FakeCartAPI) FailWith(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

// Calls returns a copy of the requests seen so far
func (a *FakeCartAPI) Calls() []CartCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]CartCall(nil), a.calls...)
}

// Client returns a cart client for the fake with keep-alives off so no
// idle connections outlive the test
func (a *FakeCartAPI) Client() *executor.CartClient {
	return executor.NewCartClient(a.URL, &http.Client{
		Transport: &http.Transport{DisableKeepAlives: true},
		Timeout:   2 * time.Second,
	})
}

func (a *FakeCartAPI) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != executor.CartPath {
		http.NotFound(w, r)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	call := CartCall{Method: r.Method, Authorization: r.Header.Get("Authorization")}

	switch r.Method {
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &call.Item)
		a.calls = append(a.calls, call)
		if a.status < 200 || a.status > 299 {
			w.WriteHeader(a.status)
			return
		}
		a.items = append(a.items, call.Item)
		w.WriteHeader(a.status)
	case http.MethodGet:
		a.calls = append(a.calls, call)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"items": a.items})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// NewTestManager wires a session manager to db and the fake cart
func NewTestManager(t *testing.T, conn *sql.DB, api *FakeCartAPI) *session.Manager {
	t.Helper()
	cfg := GetTestConfig(api.URL)
	return session.NewManager(conn, api.Client(), session.Options{
		TTL:            cfg.SessionTTL,
		RequestTimeout: cfg.RequestTimeout,
		TokenSalt:      cfg.TokenSalt,
	})
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
