// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session ties the per-visitor pieces together.

A Session bundles the intent store, the authentication signal, the
notification bus and inbox, and the view cache for one visitor. The
Manager creates sessions on demand, wires a resolver to each session's
signal, and sweeps idle sessions and expired storage:

	m := session.NewManager(conn, cart, session.Options{TTL: 24 * time.Hour})
	go m.Run(ctx, session.DefaultSweepInterval)

	s, err := m.Get(id)
	resolution := s.Authenticate(ctx, token) // "replayed", "deferred", "none" or "unchanged"
*/
package session
