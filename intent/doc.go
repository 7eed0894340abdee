// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package intent defines the pending-intent record and the key/value store it
lives in while the user is away at the sign-in provider.

# Storage Layout

A record is three independent keys, not one serialized object:

	pendingAction     add-to-cart | buy-now
	pendingProductId  opaque product identifier
	pendingQuantity   positive integer, optional

At most one intent exists per session. Save overwrites the previous one:

	err := intent.Save(ctx, store, intent.Record{
		Action:    intent.ActionAddToCart,
		ProductID: "P42",
		Quantity:  3,
	})

# Reading and Clearing

Peek reads the raw values, Clear deletes all three keys:

	p, err := intent.Peek(ctx, store)
	err = intent.Clear(ctx, store)

ParseQuantity applies the default of 1 for missing or unparsable values.

# Stores

Any type with Get, Set and Delete satisfies Store. MemoryStore is the
in-process implementation; the db package provides a SQL-backed one scoped
to a session.
*/
package intent
