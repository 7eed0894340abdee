// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-cart/auth"
	"github.com/danielhkuo/quickly-cart/cache"
	"github.com/danielhkuo/quickly-cart/db"
	"github.com/danielhkuo/quickly-cart/executor"
	"github.com/danielhkuo/quickly-cart/intent"
	"github.com/danielhkuo/quickly-cart/models"
	"github.com/danielhkuo/quickly-cart/notify"
	"github.com/danielhkuo/quickly-cart/resolver"
)

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
)

// CartService is the subset of the cart API a session talks to.
type CartService interface {
	executor.CartAdder
	CartReader
}

type Options struct {
	TTL            time.Duration
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	InboxLimit     int
	TokenSalt      string
	Logger         *slog.Logger
}

// Manager owns every live session of the process. Intents are kept in
// the database when one is configured, otherwise in memory.
type Manager struct {
	db     *sql.DB
	cart   CartService
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(database *sql.DB, cart CartService, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}
	if opts.InboxLimit <= 0 {
		opts.InboxLimit = notify.DefaultInboxLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		db:       database,
		cart:     cart,
		opts:     opts,
		logger:   opts.Logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (m *Manager) Get(id string) (*Session, error) {
	if err := auth.ValidateSessionID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = m.build(id)
		m.sessions[id] = s
	}
	s.touch(m.now())
	return s, nil
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) build(id string) *Session {
	logger := m.logger.With("session_id", id)

	var store intent.Store
	if m.db != nil {
		store = db.NewSessionStore(m.db, id, m.opts.TTL)
	} else {
		store = intent.NewMemoryStore()
	}

	views := cache.New(m.opts.CacheTTL)
	views.SetFillTimeout(m.opts.RequestTimeout)

	s := &Session{
		ID:        id,
		Store:     store,
		Signal:    auth.NewSignal(),
		Bus:       notify.NewBus(logger),
		Inbox:     notify.NewInbox(m.opts.InboxLimit),
		Views:     views,
		cart:      m.cart,
		tokenSalt: m.opts.TokenSalt,
	}

	exec := executor.New(m.cart, s.Views, s.Bus, s.Inbox, executor.Options{
		SessionID: id,
		Timeout:   m.opts.RequestTimeout,
		Logger:    logger,
	})
	res := resolver.New(store, exec, resolver.Options{
		SessionID: id,
		Logger:    logger,
		OnResolve: s.recordDecision,
	})

	s.unsubscribe = append(s.unsubscribe,
		s.Bus.Subscribe(models.EventCartUpdated, s.Inbox.Record),
		res.Bind(s.Signal),
	)
	return s
}

// Evict drops sessions idle since before cutoff and returns how many
// were removed.
func (m *Manager) Evict(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			s.close()
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Sweep removes expired session storage and idle in-memory sessions.
func (m *Manager) Sweep(ctx context.Context) error {
	now := m.now()

	var rows int64
	if m.db != nil {
		var err error
		if rows, err = db.SweepExpired(ctx, m.db, now); err != nil {
			return err
		}
	}
	evicted := m.Evict(now.Add(-m.opts.TTL))

	if rows > 0 || evicted > 0 {
		m.logger.Info("session sweep",
			"expired_keys", humanize.Comma(rows),
			"evicted_sessions", humanize.Comma(int64(evicted)),
		)
	}
	return nil
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Sweep(ctx); err != nil {
				m.logger.Error("session sweep failed", "error", err)
			}
		}
	}
}
