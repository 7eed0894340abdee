// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-cart/intent"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := Open(TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

func TestOpenUnknownType(t *testing.T) {
	_, err := Open("mysql", "whatever")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("Open() error = %v, want %v", err, ErrUnknownType)
	}
}

func TestCreateSchemaIdempotent(t *testing.T) {
	conn := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() iteration %d failed: %v", i, err)
		}
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM session_kv").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestSessionStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(openTestDB(t), "sess-a", time.Hour)

	if _, ok, err := s.Get(ctx, "pendingAction"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	if err := s.Set(ctx, "pendingAction", "add-to-cart"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := s.Get(ctx, "pendingAction")
	if err != nil || !ok || v != "add-to-cart" {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}

	// Upsert replaces the value
	if err := s.Set(ctx, "pendingAction", "buy-now"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	v, _, _ = s.Get(ctx, "pendingAction")
	if v != "buy-now" {
		t.Errorf("Get() after overwrite = %q, want %q", v, "buy-now")
	}

	if err := s.Delete(ctx, "pendingAction"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "pendingAction"); ok {
		t.Error("Get() found a deleted key")
	}

	// Deleting again is harmless
	if err := s.Delete(ctx, "pendingAction"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestSessionStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(openTestDB(t), "sess-a", time.Hour)

	if err := s.Set(ctx, "pendingQuantity", "5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	err := s.Replace(ctx, map[string]string{
		"pendingAction":    "add-to-cart",
		"pendingProductId": "P1",
		"pendingQuantity":  "",
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if v, _, _ := s.Get(ctx, "pendingProductId"); v != "P1" {
		t.Errorf("Get(pendingProductId) = %q, want P1", v)
	}
	if _, ok, _ := s.Get(ctx, "pendingQuantity"); ok {
		t.Error("Replace() with an empty value should delete the key")
	}
}

func TestSaveIsAtomicOnSessionStore(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	s := NewSessionStore(conn, "sess-a", time.Hour)

	if err := intent.Save(ctx, s, intent.Record{Action: intent.ActionBuyNow, ProductID: "OLD", Quantity: 5}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Reject one value so the transaction fails after other keys were written
	_, err := conn.Exec(`
		CREATE TRIGGER reject_product BEFORE INSERT ON session_kv
		WHEN NEW.value = 'REJECTED'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}

	err = intent.Save(ctx, s, intent.Record{Action: intent.ActionAddToCart, ProductID: "REJECTED", Quantity: 2})
	if err == nil {
		t.Fatal("Save() should fail when a key is rejected")
	}

	p, err := intent.Peek(ctx, s)
	if err != nil {
		t.Fatalf("Peek() error = %v", err)
	}
	want := intent.Pending{Action: intent.ActionBuyNow, ProductID: "OLD", Quantity: "5"}
	if p != want {
		t.Errorf("after failed Save() store = %+v, want %+v", p, want)
	}
}

func TestSessionStoreIsolation(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	a := NewSessionStore(conn, "sess-a", time.Hour)
	b := NewSessionStore(conn, "sess-b", time.Hour)

	if err := a.Set(ctx, "pendingProductId", "P1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.Get(ctx, "pendingProductId"); ok {
		t.Error("session b can see session a's keys")
	}
	if err := b.Delete(ctx, "pendingProductId"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := a.Get(ctx, "pendingProductId"); !ok {
		t.Error("session b deleted session a's key")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessionStore(conn, "sess-a", 10*time.Minute)
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "pendingAction", "add-to-cart"); err != nil {
		t.Fatal(err)
	}

	now = now.Add(9 * time.Minute)
	if _, ok, _ := s.Get(ctx, "pendingAction"); !ok {
		t.Error("entry expired early")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := s.Get(ctx, "pendingAction"); ok {
		t.Error("expired entry still readable")
	}

	n, err := SweepExpired(ctx, conn, now)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if n != 1 {
		t.Errorf("SweepExpired() removed %d rows, want 1", n)
	}
}

func TestSweepKeepsLiveEntries(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	s := NewSessionStore(conn, "sess-a", time.Hour)

	if err := s.Set(ctx, "pendingAction", "add-to-cart"); err != nil {
		t.Fatal(err)
	}

	n, err := SweepExpired(ctx, conn, time.Now())
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if n != 0 {
		t.Errorf("SweepExpired() removed %d live rows", n)
	}
	if _, ok, _ := s.Get(ctx, "pendingAction"); !ok {
		t.Error("live entry was swept")
	}
}
