// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package resolver resumes a shopping intent after the user signs in.

# Binding

The resolver is the reactive effect of a session's authentication signal:

	r := resolver.New(store, exec, resolver.Options{SessionID: id})
	unsubscribe := r.Bind(signal)

It runs once per transition of the authenticated flag and does nothing
(not even a store read) while unauthenticated.

# Rules

	add-to-cart + product id   clear all three keys, then replay once
	buy-now                    leave untouched for the checkout callback
	anything else              no-op

A missing or unparsable quantity replays with 1. If another request has
already cleared the keys the read is empty and nothing happens.
*/
package resolver
