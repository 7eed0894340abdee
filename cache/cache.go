// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a view stays fresh when no TTL is given.
const DefaultTTL = 30 * time.Second

// DefaultFillTimeout bounds one upstream load.
const DefaultFillTimeout = 10 * time.Second

// Fetcher loads a fresh copy of a view.
type Fetcher func(ctx context.Context) ([]byte, error)

type entry struct {
	data      []byte
	fetchedAt time.Time
}

// Views caches rendered views of upstream resources keyed by logical
// resource name ("cart"). Invalidate drops an entry so the next read
// goes upstream.
type Views struct {
	mu          sync.Mutex
	ttl         time.Duration
	fillTimeout time.Duration
	entries map[string]entry
	// gen is bumped on every invalidation; fills started under an older
	// generation are not stored.
	gen   map[string]uint64
	group singleflight.Group
	now   func() time.Time
}

func New(ttl time.Duration) *Views {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Views{
		ttl:         ttl,
		fillTimeout: DefaultFillTimeout,
		entries:     make(map[string]entry),
		gen:         make(map[string]uint64),
		now:         time.Now,
	}
}

// SetFillTimeout changes the bound on one upstream load.
func (v *Views) SetFillTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	v.mu.Lock()
	v.fillTimeout = d
	v.mu.Unlock()
}

// Get returns a fresh cached view.
func (v *Views) Get(key string) ([]byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[key]
	if !ok {
		return nil, false
	}
	if v.now().Sub(e.fetchedAt) >= v.ttl {
		delete(v.entries, key)
		return nil, false
	}
	return e.data, true
}

// Put stores data under key.
func (v *Views) Put(key string, data []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[key] = entry{data: data, fetchedAt: v.now()}
}

// Invalidate drops key so the next read is fresh.
func (v *Views) Invalidate(key string) {
	v.mu.Lock()
	delete(v.entries, key)
	v.gen[key]++
	v.mu.Unlock()

	v.group.Forget(key)
}

// Fetch returns the cached view for key or loads it with fn.
// Concurrent misses for the same key share one call to fn, which runs
// detached from any single caller's cancellation and is bounded by the
// fill timeout. cached reports whether the value came from the cache.
func (v *Views) Fetch(ctx context.Context, key string, fn Fetcher) (data []byte, cached bool, err error) {
	if data, ok := v.Get(key); ok {
		return data, true, nil
	}

	v.mu.Lock()
	startGen := v.gen[key]
	timeout := v.fillTimeout
	v.mu.Unlock()

	res, err, _ := v.group.Do(key, func() (any, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		data, err := fn(fillCtx)
		if err != nil {
			return nil, err
		}

		v.mu.Lock()
		if v.gen[key] == startGen {
			v.entries[key] = entry{data: data, fetchedAt: v.now()}
		}
		v.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return res.([]byte), false, nil
}
