// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-cart/models"
)

// DefaultTimeout bounds one replay attempt.
const DefaultTimeout = 10 * time.Second

// Toast texts shown after a replay.
const (
	SuccessTitle       = "Added to cart"
	FailureTitle       = "Failed to add to cart"
	FailureDescription = "We couldn't add the item to your cart. Please try again."
)

// CartAdder adds items to the signed-in user's cart.
type CartAdder interface {
	AddItem(ctx context.Context, token string, item models.AddToCartRequest) error
}

// Invalidator drops cached views.
type Invalidator interface {
	Invalidate(key string)
}

// Publisher broadcasts session events.
type Publisher interface {
	Publish(ev models.Event)
}

// Toaster shows transient feedback to the user.
type Toaster interface {
	Show(t models.Toast)
}

type Options struct {
	SessionID string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Executor performs the add-to-cart side effect of a replayed intent.
type Executor struct {
	cart      CartAdder
	views     Invalidator
	bus       Publisher
	toasts    Toaster
	sessionID string
	timeout   time.Duration
	logger    *slog.Logger
}

func New(cart CartAdder, views Invalidator, bus Publisher, toasts Toaster, opts Options) *Executor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Executor{
		cart:      cart,
		views:     views,
		bus:       bus,
		toasts:    toasts,
		sessionID: opts.SessionID,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// AddToCart makes exactly one attempt to add quantity units of productID.
//
// The attempt is detached from ctx's cancellation so a client that goes
// away mid-request does not abort it. The outcome always reaches the user
// as a toast; the returned error is for logging only and is never retried.
func (e *Executor) AddToCart(ctx context.Context, token, productID string, quantity int) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	start := time.Now()
	err := e.cart.AddItem(ctx, token, models.AddToCartRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		e.logger.Warn("pending add-to-cart failed",
			"session_id", e.sessionID,
			"product_id", productID,
			"quantity", quantity,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		e.toasts.Show(models.Toast{
			Title:       FailureTitle,
			Description: FailureDescription,
			Variant:     models.VariantDestructive,
		})
		return fmt.Errorf("add %s to cart: %w", productID, err)
	}

	e.views.Invalidate(models.ResourceCart)
	e.bus.Publish(models.Event{
		Name:      models.EventCartUpdated,
		SessionID: e.sessionID,
		At:        time.Now(),
	})
	e.toasts.Show(models.Toast{
		Title:       SuccessTitle,
		Description: successDescription(quantity),
	})

	e.logger.Info("pending add-to-cart replayed",
		"session_id", e.sessionID,
		"product_id", productID,
		"quantity", quantity,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func successDescription(quantity int) string {
	if quantity == 1 {
		return "The item was added to your cart."
	}
	return humanize.Comma(int64(quantity)) + " items were added to your cart."
}
