// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-cart/models"
)

// Handler receives published events.
type Handler func(ev models.Event)

// Bus is a named-event broadcaster. Delivery is synchronous and
// fire-and-forget: publishers never see handler failures.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[string]map[int]Handler),
		logger: logger,
	}
}

// Subscribe registers fn for events called name and returns a function
// that removes it.
func (b *Bus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[name] == nil {
		b.subs[name] = make(map[int]Handler)
	}
	b.subs[name][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[name], id)
		if len(b.subs[name]) == 0 {
			delete(b.subs, name)
		}
	}
}

// Publish delivers ev to every handler subscribed to ev.Name.
func (b *Bus) Publish(ev models.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Name]))
	for _, fn := range b.subs[ev.Name] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.deliver(fn, ev)
	}
}

func (b *Bus) deliver(fn Handler, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", ev.Name,
				"session_id", ev.SessionID,
				"panic", r,
			)
		}
	}()
	fn(ev)
}

// Subscribers returns the number of handlers registered for name.
func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}
