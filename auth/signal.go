// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"sync"
)

// State is the authentication signal observed by the session.
type State struct {
	Authenticated bool
	Token         string
	// Generation counts transitions of Authenticated; it starts at 0.
	Generation uint64
}

// Listener is invoked once per transition of the authenticated flag.
type Listener func(ctx context.Context, st State)

// Signal holds the current authentication state and notifies listeners
// when the authenticated flag flips. Setting the same flag again only
// updates the token.
type Signal struct {
	mu        sync.Mutex
	state     State
	nextID    int
	listeners map[int]Listener

	// deliver serialises Set so each transition reaches listeners
	// exactly once and in order.
	deliver sync.Mutex
}

func NewSignal() *Signal {
	return &Signal{listeners: make(map[int]Listener)}
}

// Current returns the latest state.
func (s *Signal) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it.
func (s *Signal) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Set records a new state. It returns true when the authenticated flag
// changed and listeners were notified.
func (s *Signal) Set(ctx context.Context, authenticated bool, token string) bool {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	if !authenticated {
		token = ""
	}
	changed := s.state.Authenticated != authenticated
	s.state.Token = token
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.state.Authenticated = authenticated
	s.state.Generation++
	st := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, st)
	}
	return true
}
