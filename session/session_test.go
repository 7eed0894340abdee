// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielhkuo/quickly-cart/auth"
	"github.com/danielhkuo/quickly-cart/db"
	"github.com/danielhkuo/quickly-cart/executor"
	"github.com/danielhkuo/quickly-cart/intent"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/resolver"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("database/sql.(*DB).connectionOpener"))
}

type fakeCart struct {
	mu      sync.Mutex
	added   []models.AddToCartRequest
	reads   int
	addErr  error
	payload []byte
}

func (f *fakeCart) AddItem(_ context.Context, _ string, item models.AddToCartRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, item)
	return nil
}

func (f *fakeCart) GetCart(_ context.Context, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.payload, nil
}

func (f *fakeCart) Added() []models.AddToCartRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AddToCartRequest(nil), f.added...)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	url := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := db.Open(db.TypeSQLite, url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(conn))
	return conn
}

func TestGetCreatesOnce(t *testing.T) {
	m := NewManager(nil, &fakeCart{}, Options{})
	id := auth.NewSessionID()

	a, err := m.Get(id)
	require.NoError(t, err)
	b, err := m.Get(id)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())

	_, ok := m.Lookup(auth.NewSessionID())
	assert.False(t, ok)
}

func TestGetRejectsBadID(t *testing.T) {
	m := NewManager(nil, &fakeCart{}, Options{})
	_, err := m.Get("not-a-uuid")
	assert.ErrorIs(t, err, auth.ErrInvalidSessionID)
	assert.Zero(t, m.Len())
}

func TestAuthenticateReplaysPendingAddToCart(t *testing.T) {
	ctx := context.Background()
	cart := &fakeCart{}
	m := NewManager(openDB(t), cart, Options{})

	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)
	require.NoError(t, intent.Save(ctx, s.Store, intent.Record{
		Action: intent.ActionAddToCart, ProductID: "P1", Quantity: 2,
	}))

	assert.Equal(t, resolver.DecisionReplayed.String(), s.Authenticate(ctx, "T"))
	assert.Equal(t, []models.AddToCartRequest{{ProductID: "P1", Quantity: 2}}, cart.Added())

	toasts, events := s.Inbox.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, executor.SuccessTitle, toasts[0].Title)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCartUpdated, events[0].Name)
	assert.Equal(t, s.ID, events[0].SessionID)

	p, err := intent.Peek(ctx, s.Store)
	require.NoError(t, err)
	assert.True(t, p.Empty())

	// Already signed in: no second resolution
	assert.Equal(t, ResolutionUnchanged, s.Authenticate(ctx, "T"))
	assert.Len(t, cart.Added(), 1)
}

func TestAuthenticateDefersBuyNow(t *testing.T) {
	ctx := context.Background()
	cart := &fakeCart{}
	m := NewManager(nil, cart, Options{})

	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)
	require.NoError(t, intent.Save(ctx, s.Store, intent.Record{
		Action: intent.ActionBuyNow, ProductID: "P9",
	}))

	assert.Equal(t, "deferred", s.Authenticate(ctx, "T"))
	assert.Empty(t, cart.Added())

	p, err := intent.Peek(ctx, s.Store)
	require.NoError(t, err)
	assert.Equal(t, intent.ActionBuyNow, p.Action)
}

func TestAuthenticateFailureShowsDestructiveToast(t *testing.T) {
	ctx := context.Background()
	cart := &fakeCart{addErr: errors.New("500")}
	m := NewManager(nil, cart, Options{})

	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)
	require.NoError(t, intent.Save(ctx, s.Store, intent.Record{
		Action: intent.ActionAddToCart, ProductID: "P1",
	}))

	assert.Equal(t, "replayed", s.Authenticate(ctx, "T"))

	toasts, events := s.Inbox.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, models.VariantDestructive, toasts[0].Variant)
	assert.Empty(t, events)

	p, err := intent.Peek(ctx, s.Store)
	require.NoError(t, err)
	assert.True(t, p.Empty(), "failed intent must not linger")
}

func TestSignOutThenBackIn(t *testing.T) {
	ctx := context.Background()
	cart := &fakeCart{}
	m := NewManager(nil, cart, Options{})
	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)

	assert.Equal(t, "none", s.Authenticate(ctx, "T1"))
	s.SignOut(ctx)
	assert.False(t, s.Signal.Current().Authenticated)

	require.NoError(t, intent.Save(ctx, s.Store, intent.Record{
		Action: intent.ActionAddToCart, ProductID: "P2", Quantity: 5,
	}))
	assert.Equal(t, "replayed", s.Authenticate(ctx, "T2"))
	assert.Equal(t, []models.AddToCartRequest{{ProductID: "P2", Quantity: 5}}, cart.Added())
}

func TestCartUsesViewCache(t *testing.T) {
	ctx := context.Background()
	cart := &fakeCart{payload: []byte(`{"items":[]}`)}
	m := NewManager(nil, cart, Options{})
	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)

	_, _, err = s.Cart(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	s.Authenticate(ctx, "T")

	data, cached, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.JSONEq(t, `{"items":[]}`, string(data))

	_, cached, err = s.Cart(ctx)
	require.NoError(t, err)
	assert.True(t, cached)

	// Signing out and a successful replay both drop the cached cart
	require.NoError(t, intent.Save(ctx, s.Store, intent.Record{
		Action: intent.ActionAddToCart, ProductID: "P1",
	}))
	s.SignOut(ctx)
	s.Authenticate(ctx, "T")

	_, cached, err = s.Cart(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, cart.reads)
}

// ownerCart answers every read with the token it was called with.
type ownerCart struct{ fakeCart }

func (o *ownerCart) GetCart(_ context.Context, token string) ([]byte, error) {
	return []byte(`{"owner":"` + token + `"}`), nil
}

func TestNewTokenDropsCachedCart(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil, &ownerCart{}, Options{})
	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)

	s.Authenticate(ctx, "alice")
	data, _, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"alice"}`, string(data))

	assert.Equal(t, ResolutionUnchanged, s.Authenticate(ctx, "bob"))

	data, cached, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.False(t, cached, "a cart cached for the previous token must not be served")
	assert.JSONEq(t, `{"owner":"bob"}`, string(data))

	// Same token again keeps the cache warm
	s.Authenticate(ctx, "bob")
	_, cached, err = s.Cart(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestFingerprint(t *testing.T) {
	m := NewManager(nil, &fakeCart{}, Options{TokenSalt: "salt"})
	s, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)

	assert.Empty(t, s.Fingerprint())
	s.Authenticate(context.Background(), "secret")
	assert.Equal(t, auth.FingerprintToken("secret", "salt"), s.Fingerprint())
	assert.NotContains(t, s.Fingerprint(), "secret")
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	conn := openDB(t)
	m := NewManager(conn, &fakeCart{}, Options{TTL: time.Hour})

	base := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return base }

	old, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(50 * time.Minute) }
	fresh, err := m.Get(auth.NewSessionID())
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(90 * time.Minute) }
	require.NoError(t, m.Sweep(ctx))

	_, ok := m.Lookup(old.ID)
	assert.False(t, ok, "idle session should be evicted")
	_, ok = m.Lookup(fresh.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewManager(nil, &fakeCart{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
