// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateIntentRequest: action, product_id, quantity, return_to
  - AuthCallbackRequest: token
  - AddToCartRequest: productId, quantity (outbound, cart service)

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id
  - CreateIntentResponse: login_url
  - PendingIntentResponse: pending, action, product_id, quantity
  - AuthCallbackResponse: authenticated, resolution, toasts, events
  - EventsResponse: toasts, events
  - ErrorResponse: error, message

# Domain Types

  - Toast: title, description, optional variant
  - Event: name, session_id, at

# Constants

Toast variants:

	VariantDefault     = ""
	VariantDestructive = "destructive"

Events and cache keys:

	EventCartUpdated = "cartUpdated"
	ResourceCart     = "cart"
*/
package models
