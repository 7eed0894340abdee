// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router configures HTTP routes for the Quickly Cart API.

Routes use Go 1.22+ method patterns:

	GET  /health         liveness
	POST /sessions       create a session (sets the qc_session cookie)
	GET  /events         drain toasts and events
	POST /intents        record a pending intent, returns the login URL
	GET  /intents        inspect the pending intent
	POST /auth/callback  sign in with a bearer token and resume the intent
	POST /auth/logout    sign out
	GET  /cart           cached cart view

Every route except /health, / and POST /sessions needs a session id in the
X-Session-ID header or the qc_session cookie.

	mux := router.NewRouter(sessions, cfg)
	server := http.Server{Handler: middleware.CORS(cfg.AllowedOrigins)(mux)}
*/
package router
