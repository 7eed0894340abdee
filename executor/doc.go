// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package executor performs the side effect of a replayed add-to-cart intent.

# Cart Client

CartClient calls the cart service with the user's bearer token:

	client := executor.NewCartClient(cfg.CartAPIURL, nil)
	err := client.AddItem(ctx, token, models.AddToCartRequest{ProductID: "P42", Quantity: 3})
	doc, err := client.GetCart(ctx, token)

Any 2xx is success. Other statuses come back as *StatusError.

# Replay

Executor.AddToCart makes one attempt. On success it invalidates the cached
cart view, publishes cartUpdated and shows an "Added to cart" toast. On
failure it shows one destructive toast. There is no retry and no rollback.
*/
package executor
