// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache keeps short-lived copies of upstream views per session.

Views are keyed by logical resource name:

	views := cache.New(30 * time.Second)
	data, cached, err := views.Fetch(ctx, models.ResourceCart, loadCart)
	views.Invalidate(models.ResourceCart)

Concurrent misses for one key share a single upstream call
(golang.org/x/sync/singleflight). A fill that started before an
Invalidate is returned to its callers but never stored.
*/
package cache
