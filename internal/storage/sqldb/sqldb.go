// Package sqldb is the database/sql plumbing shared by the SQLite, MySQL and
// SQL Server backends. Each backend supplies a driver name and a Dialect;
// DB adapts *sql.DB to storage.Repository.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sparkify/internal/storage"
)

// Open opens driverName with dsn, pins the pool to a single connection and
// pings with a short timeout.
func Open(ctx context.Context, driverName, dsn string, d storage.Dialect) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Name())
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Name(), err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.Name(), err)
	}
	return New(db, d), nil
}

// DB wraps a *sql.DB with a Dialect.
type DB struct {
	db      *sql.DB
	dialect storage.Dialect
}

// New wraps an already opened *sql.DB.
func New(db *sql.DB, d storage.Dialect) *DB { return &DB{db: db, dialect: d} }

// SQL exposes the underlying handle.
func (r *DB) SQL() *sql.DB { return r.db }

// Exec implements storage.Querier.
func (r *DB) Exec(ctx context.Context, query string, args ...any) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storage.Classify(r.dialect, fmt.Errorf("%s: exec: %w", r.dialect.Name(), err))
	}
	return nil
}

// QueryRow implements storage.Querier.
func (r *DB) QueryRow(ctx context.Context, query string, args ...any) storage.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// Begin implements storage.Repository.
func (r *DB) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", r.dialect.Name(), err)
	}
	return &Tx{tx: tx, dialect: r.dialect}, nil
}

// CopyFrom inserts rows into table inside a single transaction using one
// prepared INSERT statement.
//
// len(row) must equal len(columns) for every row. On any failure the
// transaction is rolled back and the count of rows attempted so far is
// returned with the error.
func (r *DB) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	name := r.dialect.Name()
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: CopyFrom: columns must not be empty", name)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", name, err)
	}
	stmt, err := tx.PrepareContext(ctx, storage.InsertSQL(r.dialect, table, columns))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%s: prepare insert: %w", name, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("%s: CopyFrom: row length %d != columns length %d", name, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, storage.Classify(r.dialect, fmt.Errorf("%s: insert into %s: %w", name, table, err))
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("%s: commit: %w", name, err)
	}
	return inserted, nil
}

// Dialect implements storage.Repository.
func (r *DB) Dialect() storage.Dialect { return r.dialect }

// Close implements storage.Repository.
func (r *DB) Close() { _ = r.db.Close() }

// Tx adapts *sql.Tx to storage.Tx.
type Tx struct {
	tx      *sql.Tx
	dialect storage.Dialect
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return storage.Classify(t.dialect, fmt.Errorf("%s: exec: %w", t.dialect.Name(), err))
	}
	return nil
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) storage.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t *Tx) Commit(context.Context) error   { return t.tx.Commit() }
func (t *Tx) Rollback(context.Context) error { return t.tx.Rollback() }

var (
	_ storage.Repository = (*DB)(nil)
	_ storage.Tx         = (*Tx)(nil)
)
