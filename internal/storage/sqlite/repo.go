// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc driver. SQLite has no bulk-load API
// like Postgres COPY; CopyFrom runs prepared INSERTs inside one transaction.
package sqlite

import (
	"context"
	"strings"

	_ "modernc.org/sqlite"

	"sparkify/internal/storage"
	"sparkify/internal/storage/sqldb"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:sparkify.db?_pragma=foreign_keys(1)"
	//   ":memory:"
	DSN string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	*sqldb.DB
}

// NewRepository opens a SQLite connection and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	db, err := sqldb.Open(ctx, "sqlite", cfg.DSN, Dialect{})
	if err != nil {
		return nil, nil, err
	}
	_ = db.Exec(ctx, "PRAGMA foreign_keys = ON;")
	return &Repository{DB: db}, db.Close, nil
}

// Dialect is the SQLite storage.Dialect.
type Dialect struct{}

// Name implements storage.Dialect.
func (Dialect) Name() string { return "sqlite" }

// Placeholder implements storage.Dialect.
func (Dialect) Placeholder(int) string { return "?" }

// QuoteIdent double-quotes an identifier.
func (Dialect) QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// IsDuplicateKey matches the driver's constraint message; modernc does not
// export a typed error code.
func (Dialect) IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

var _ storage.Dialect = Dialect{}
