// Package storage contains the storage-agnostic contracts the loaders write
// through, a registry of backend factories, and helpers shared by backends.
//
// Backends (postgres, sqlite, mysql, mssql) register themselves from init();
// import internal/storage/all to enable every built-in kind.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateKey is returned (wrapped) when an insert violates a primary key.
// It means the target schema was not freshly recreated before the run.
var ErrDuplicateKey = errors.New("storage: duplicate key")

// Row is a single-row query result.
type Row interface {
	Scan(dest ...any) error
}

// Querier executes statements. Query text uses the dialect's placeholders.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) error
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// Tx is an open transaction.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Repository is a connection to a destination database.
type Repository interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
	// CopyFrom bulk-loads rows (aligned to columns) into table.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Dialect() Dialect
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind string // "postgres", "sqlite", "mysql", "mssql"
	DSN  string
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Later registrations for
// the same kind replace earlier ones.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
