// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"sync"

	"github.com/danielhkuo/quickly-cart/models"
)

// DefaultInboxLimit bounds how many toasts and events an undrained
// inbox keeps; the oldest entries are dropped first.
const DefaultInboxLimit = 50

// Inbox collects toasts and events for one session until the client
// drains them.
type Inbox struct {
	mu     sync.Mutex
	limit  int
	toasts []models.Toast
	events []models.Event
}

func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = DefaultInboxLimit
	}
	return &Inbox{limit: limit}
}

// Show queues a toast.
func (i *Inbox) Show(t models.Toast) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.toasts = appendBounded(i.toasts, t, i.limit)
}

// Record queues an event. It has the Handler signature so it can be
// subscribed to a Bus directly.
func (i *Inbox) Record(ev models.Event) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.events = appendBounded(i.events, ev, i.limit)
}

// Drain returns everything queued and empties the inbox.
// The returned slices are never nil.
func (i *Inbox) Drain() ([]models.Toast, []models.Event) {
	i.mu.Lock()
	defer i.mu.Unlock()

	toasts, events := i.toasts, i.events
	i.toasts, i.events = nil, nil
	if toasts == nil {
		toasts = []models.Toast{}
	}
	if events == nil {
		events = []models.Event{}
	}
	return toasts, events
}

func appendBounded[T any](items []T, item T, limit int) []T {
	items = append(items, item)
	if over := len(items) - limit; over > 0 {
		items = append(items[:0:0], items[over:]...)
	}
	return items
}
