// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-cart/auth"
	"github.com/danielhkuo/quickly-cart/cache"
	"github.com/danielhkuo/quickly-cart/intent"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/notify"
	"github.com/danielhkuo/quickly-cart/resolver"
)

var ErrNotAuthenticated = errors.New("session is not authenticated")

// ResolutionUnchanged is reported when authentication did not change
// and the resolver therefore did not run.
const ResolutionUnchanged = "unchanged"

// CartReader loads the signed-in user's cart document.
type CartReader interface {
	GetCart(ctx context.Context, token string) ([]byte, error)
}

// Session is everything one browser tab needs to resume an intent.
type Session struct {
	ID     string
	Store  intent.Store
	Signal *auth.Signal
	Bus    *notify.Bus
	Inbox  *notify.Inbox
	Views  *cache.Views

	cart        CartReader
	tokenSalt   string
	unsubscribe []func()

	mu           sync.Mutex
	lastSeen     time.Time
	lastDecision resolver.Decision
}

// Authenticate marks the session signed in with token and returns what
// the resolver did about any pending intent.
// A new token on an already signed-in session drops cached views, which
// belong to whoever the previous token identified.
func (s *Session) Authenticate(ctx context.Context, token string) string {
	prev := s.Signal.Current()
	if !s.Signal.Set(ctx, true, token) {
		if prev.Token != token {
			s.Views.Invalidate(models.ResourceCart)
		}
		return ResolutionUnchanged
	}
	return s.LastDecision().String()
}

// SignOut marks the session signed out.
func (s *Session) SignOut(ctx context.Context) {
	s.Signal.Set(ctx, false, "")
	s.Views.Invalidate(models.ResourceCart)
}

// LastDecision is the outcome of the most recent resolution.
func (s *Session) LastDecision() resolver.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDecision
}

// Cart returns the signed-in user's cart, served from the view cache
// when fresh.
func (s *Session) Cart(ctx context.Context) (data []byte, cached bool, err error) {
	st := s.Signal.Current()
	if !st.Authenticated {
		return nil, false, ErrNotAuthenticated
	}
	return s.Views.Fetch(ctx, models.ResourceCart, func(ctx context.Context) ([]byte, error) {
		return s.cart.GetCart(ctx, st.Token)
	})
}

// Fingerprint identifies the current token in logs.
func (s *Session) Fingerprint() string {
	st := s.Signal.Current()
	if st.Token == "" {
		return ""
	}
	return auth.FingerprintToken(st.Token, s.tokenSalt)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) recordDecision(_ auth.State, d resolver.Decision, _ error) {
	s.mu.Lock()
	s.lastDecision = d
	s.mu.Unlock()
}

func (s *Session) close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
}
