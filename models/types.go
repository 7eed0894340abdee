package models

import "time"

// Toast variants
const (
	VariantDefault     = ""
	VariantDestructive = "destructive"
)

// Event names broadcast on the session bus
const (
	EventCartUpdated = "cartUpdated"
)

// Cache keys for logical resources
const (
	ResourceCart = "cart"
)

// Request types

type CreateIntentRequest struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
	ReturnTo  string `json:"return_to,omitempty"`
}

// Token may also be supplied as an Authorization: Bearer header
type AuthCallbackRequest struct {
	Token string `json:"token"`
}

// Body of POST /api/cart on the cart service
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type CreateIntentResponse struct {
	LoginURL string `json:"login_url"`
}

type PendingIntentResponse struct {
	Pending   bool   `json:"pending"`
	Action    string `json:"action,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  string `json:"quantity,omitempty"`
}

type AuthCallbackResponse struct {
	Authenticated bool    `json:"authenticated"`
	Resolution    string  `json:"resolution"`
	Toasts        []Toast `json:"toasts"`
	Events        []Event `json:"events"`
}

type EventsResponse struct {
	Toasts []Toast `json:"toasts"`
	Events []Event `json:"events"`
}

// Domain types

// Toast is transient user feedback
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// Event is a fire-and-forget broadcast within a session
type Event struct {
	Name      string    `json:"name"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
