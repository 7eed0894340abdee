// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-cart/auth"
	"github.com/danielhkuo/quickly-cart/intent"
)

// Decision reports what a resolution did.
type Decision int

const (
	// DecisionNone: unauthenticated, nothing pending, or nothing we handle.
	DecisionNone Decision = iota
	// DecisionReplayed: an add-to-cart intent was consumed and executed.
	DecisionReplayed
	// DecisionDeferred: a buy-now intent was left for its own callback.
	DecisionDeferred
)

func (d Decision) String() string {
	switch d {
	case DecisionReplayed:
		return "replayed"
	case DecisionDeferred:
		return "deferred"
	default:
		return "none"
	}
}

// CartReplayer performs the add-to-cart side effect.
type CartReplayer interface {
	AddToCart(ctx context.Context, token, productID string, quantity int) error
}

type Options struct {
	SessionID string
	Logger    *slog.Logger
	// OnResolve, if set, observes every resolution made through Bind.
	OnResolve func(st auth.State, d Decision, err error)
}

// Resolver replays a pending intent once the session becomes
// authenticated.
type Resolver struct {
	store     intent.Store
	exec      CartReplayer
	sessionID string
	logger    *slog.Logger
	onResolve func(auth.State, Decision, error)
}

func New(store intent.Store, exec CartReplayer, opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Resolver{
		store:     store,
		exec:      exec,
		sessionID: opts.SessionID,
		logger:    opts.Logger,
		onResolve: opts.OnResolve,
	}
}

// Bind makes the resolver react to every transition of sig.
func (r *Resolver) Bind(sig *auth.Signal) (unsubscribe func()) {
	return sig.Subscribe(func(ctx context.Context, st auth.State) {
		d, err := r.Resolve(ctx, st)
		if r.onResolve != nil {
			r.onResolve(st, d, err)
		}
		if err != nil {
			r.logger.Error("pending intent resolution failed",
				"session_id", r.sessionID,
				"generation", st.Generation,
				"error", err,
			)
			return
		}
		r.logger.Debug("pending intent resolved",
			"session_id", r.sessionID,
			"generation", st.Generation,
			"decision", d.String(),
		)
	})
}

// Resolve inspects the store for st and acts on it.
//
// Only add-to-cart is consumed here: its keys are deleted before the
// executor runs, so the intent is attempted at most once whatever the
// outcome. buy-now is left in place for the checkout callback.
func (r *Resolver) Resolve(ctx context.Context, st auth.State) (Decision, error) {
	if !st.Authenticated {
		return DecisionNone, nil
	}

	p, err := intent.Peek(ctx, r.store)
	if err != nil {
		return DecisionNone, fmt.Errorf("failed to read pending intent: %w", err)
	}

	switch {
	case p.Action == intent.ActionAddToCart && p.ProductID != "":
		// Clear first: a reload must not replay the same intent.
		if err := intent.Clear(ctx, r.store); err != nil {
			return DecisionNone, fmt.Errorf("failed to clear pending intent: %w", err)
		}

		quantity := intent.ParseQuantity(p.Quantity)
		if err := r.exec.AddToCart(ctx, st.Token, p.ProductID, quantity); err != nil {
			// Already surfaced to the user; terminal for this intent.
			r.logger.Debug("replayed intent did not complete",
				"session_id", r.sessionID,
				"product_id", p.ProductID,
				"error", err,
			)
		}
		return DecisionReplayed, nil

	case p.Action == intent.ActionBuyNow:
		return DecisionDeferred, nil
	}

	return DecisionNone, nil
}
