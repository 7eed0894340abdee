// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Cart API server.

Quickly Cart resumes what a shopper was doing when a sign-in interrupted
them. A signed-out click on add-to-cart or buy-now is recorded as a pending
intent in the visitor's session; when the session becomes authenticated the
add-to-cart is replayed against the cart service exactly once and the
result is reported as a toast. buy-now is left for the checkout flow.

# Starting the Server

	DATABASE_URL=file:quickly-cart.db CART_API_URL=https://shop.example.com \
	LOGIN_URL=https://login.example.com/signin TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -cart-api https://shop.example.com

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - CART_API_URL (--cart-api): Cart service base URL
  - LOGIN_URL (--login-url): Sign-in page users are sent to
  - TOKEN_SALT (--token-salt): Secret for token fingerprints in logs

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (--session-ttl): Session storage lifetime (default: 24h)
  - REQUEST_TIMEOUT (--request-timeout): Cart call timeout (default: 10s)
  - ALLOWED_ORIGINS (--allowed-origins): Storefront origins allowed to call cross-origin

# Architecture

  - handlers: HTTP request handlers (sessions, intents, auth, cart)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, session identification
  - session: Per-visitor wiring and idle eviction
  - intent: Pending intent record and storage contract
  - resolver: Replays a pending intent on sign-in
  - executor: Cart service client and the add-to-cart side effect
  - auth: Session ids, bearer tokens and the authentication signal
  - notify: Event bus and toast inbox
  - cache: Per-session view cache
  - db: Schema and SQL-backed session storage
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
