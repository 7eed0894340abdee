// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Cart API.

# Handler Types

Each handler is a struct holding the session manager and config:

  - SessionHandler: Session creation and event draining
  - IntentHandler: Recording and inspecting pending intents
  - AuthHandler: Provider callback and sign-out
  - CartHandler: Cached cart view

	intentHandler := handlers.NewIntentHandler(sessions, cfg)

# Resume Flow

	POST /sessions       → CreateSession (returns session_id, sets cookie)
	POST /intents        → CreateIntent (returns login_url)
	POST /auth/callback  → Callback (replays add-to-cart, returns toasts)
	GET  /events         → GetEvents (anything queued since)

Session-scoped requests carry the X-Session-ID header or the qc_session
cookie.

# Buy Now

buy-now intents survive sign-in untouched. The checkout flow reads them
with GET /intents and owns clearing them.
*/
package handlers
