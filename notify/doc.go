// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify carries user feedback out of the replay flow: a named-event
// Bus (the cartUpdated broadcast) and an Inbox that queues toasts and events
// until the client drains them.
package notify
