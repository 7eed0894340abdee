// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request completion with status and duration_ms.

# CORS Middleware

Enable cross-origin requests from the configured storefront origins:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
	}

Listed origins may send credentials (the session cookie). "*" admits any
other origin without credentials. Allows methods GET, POST, OPTIONS with
headers Content-Type, Authorization, X-Session-ID, X-Request-ID.

# Sessions

Every session-scoped route identifies the visitor by the X-Session-ID
header or the qc_session cookie:

	id, err := middleware.SessionID(r)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreateIntentRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
