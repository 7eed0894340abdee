// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and the
session-scoped key/value store.

# Connecting

Open selects the driver by database type:

	conn, err := db.Open(db.TypeSQLite, "file:quickly-cart.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite uses modernc.org/sqlite (pure Go), PostgreSQL uses github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - session_kv: per-session key/value entries with an expiry

Timestamps are stored as unix milliseconds (BIGINT) so the same SQL runs
on both databases.

# Session Store

SessionStore implements intent.Store for one session:

	store := db.NewSessionStore(conn, sessionID, 24*time.Hour)

Expired entries read as absent. SweepExpired removes them:

	n, err := db.SweepExpired(ctx, conn, time.Now())
*/
package db
