// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package intent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action is the kind of work the user started before signing in.
type Action string

const (
	ActionAddToCart Action = "add-to-cart"
	ActionBuyNow    Action = "buy-now"
)

// Storage keys. The record is kept as three independent entries,
// never as a single serialized value.
const (
	KeyAction    = "pendingAction"
	KeyProductID = "pendingProductId"
	KeyQuantity  = "pendingQuantity"
)

// DefaultQuantity is used when the stored quantity is absent or unusable.
const DefaultQuantity = 1

var (
	ErrUnknownAction    = errors.New("unknown intent action")
	ErrMissingProductID = errors.New("product id is required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

// Store is a tab-scoped key/value mailbox.
// Get reports ok=false for keys that are not present.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Record is a pending intent as written by the initiator.
// Quantity 0 means "not given".
type Record struct {
	Action    Action
	ProductID string
	Quantity  int
}

// Pending is a record as read back from a Store. Values are raw;
// a missing key reads as the empty string.
type Pending struct {
	Action    Action
	ProductID string
	Quantity  string
}

// Empty reports whether nothing is stored.
func (p Pending) Empty() bool {
	return p.Action == "" && p.ProductID == "" && p.Quantity == ""
}

// Known reports whether a is one of the supported actions.
func (a Action) Known() bool {
	switch a {
	case ActionAddToCart, ActionBuyNow:
		return true
	}
	return false
}

// Validate checks a record before it is written.
func (r Record) Validate() error {
	if !r.Action.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
	}
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrMissingProductID
	}
	if r.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// Replacer is implemented by stores that can write several keys
// atomically. An empty value deletes its key.
type Replacer interface {
	Replace(ctx context.Context, entries map[string]string) error
}

// Save writes r into s, overwriting any earlier intent.
//
// Stores implementing Replacer get all three keys in one step. Otherwise
// the old intent is cleared first and the action is written last, so a
// write that fails partway leaves no action behind and nothing replays.
func Save(ctx context.Context, s Store, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	quantity := ""
	if r.Quantity > 0 {
		quantity = strconv.Itoa(r.Quantity)
	}
	productID := strings.TrimSpace(r.ProductID)

	if rs, ok := s.(Replacer); ok {
		err := rs.Replace(ctx, map[string]string{
			KeyAction:    string(r.Action),
			KeyProductID: productID,
			KeyQuantity:  quantity,
		})
		if err != nil {
			return fmt.Errorf("failed to store intent: %w", err)
		}
		return nil
	}

	if err := Clear(ctx, s); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyProductID, productID); err != nil {
		return fmt.Errorf("failed to store product id: %w", err)
	}
	if quantity != "" {
		if err := s.Set(ctx, KeyQuantity, quantity); err != nil {
			return fmt.Errorf("failed to store quantity: %w", err)
		}
	}
	if err := s.Set(ctx, KeyAction, string(r.Action)); err != nil {
		return fmt.Errorf("failed to store action: %w", err)
	}
	return nil
}

// Peek reads the three keys without modifying the store.
func Peek(ctx context.Context, s Store) (Pending, error) {
	var p Pending

	action, _, err := s.Get(ctx, KeyAction)
	if err != nil {
		return Pending{}, fmt.Errorf("failed to read action: %w", err)
	}
	p.Action = Action(action)

	p.ProductID, _, err = s.Get(ctx, KeyProductID)
	if err != nil {
		return Pending{}, fmt.Errorf("failed to read product id: %w", err)
	}

	p.Quantity, _, err = s.Get(ctx, KeyQuantity)
	if err != nil {
		return Pending{}, fmt.Errorf("failed to read quantity: %w", err)
	}

	return p, nil
}

// Clear deletes all three keys, action first. Deleting an absent key is
// not an error.
func Clear(ctx context.Context, s Store) error {
	for _, key := range []string{KeyAction, KeyProductID, KeyQuantity} {
		if err := s.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// ParseQuantity turns a stored quantity into a usable count.
// Missing, non-numeric and non-positive values fall back to DefaultQuantity.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultQuantity
	}
	return n
}
