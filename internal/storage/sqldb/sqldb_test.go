package sqldb

import (
	"context"
	"errors"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"sparkify/internal/storage"
)

type testDialect struct{}

func (testDialect) Name() string               { return "test" }
func (testDialect) Placeholder(int) string     { return "?" }
func (testDialect) QuoteIdent(s string) string { return `"` + s + `"` }
func (testDialect) IsDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

func open(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), "sqlite", ":memory:", testDialect{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "sqlite", "", testDialect{})
	if err == nil || !strings.HasPrefix(err.Error(), "test:") {
		t.Fatalf("want dialect-prefixed error, got %v", err)
	}
}

func TestExecClassifiesDuplicates(t *testing.T) {
	t.Parallel()

	db := open(t)
	ctx := context.Background()
	if err := db.Exec(ctx, `CREATE TABLE k (id TEXT PRIMARY KEY)`); err != nil {
		t.Fatal(err)
	}
	if err := db.Exec(ctx, "   "); err != nil {
		t.Fatalf("blank statement: %v", err)
	}
	if err := db.Exec(ctx, `INSERT INTO k (id) VALUES (?)`, "a"); err != nil {
		t.Fatal(err)
	}
	err := db.Exec(ctx, `INSERT INTO k (id) VALUES (?)`, "a")
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("want ErrDuplicateKey, got %v", err)
	}
}

func TestTxQueryRowSeesUncommittedWrites(t *testing.T) {
	t.Parallel()

	db := open(t)
	ctx := context.Background()
	if err := db.Exec(ctx, `CREATE TABLE k (id TEXT PRIMARY KEY)`); err != nil {
		t.Fatal(err)
	}
	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.Exec(ctx, `INSERT INTO k (id) VALUES (?)`, "x"); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM k WHERE id = ?`, "x").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("count %d, want 1", n)
	}
}
