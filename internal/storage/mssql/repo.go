// Package mssql implements a Microsoft SQL Server repository on database/sql
// with the go-mssqldb driver. CopyFrom uses the driver's bulk copy API.
package mssql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"sparkify/internal/storage"
	"sparkify/internal/storage/sqldb"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	*sqldb.DB
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sqldb.Open(ctx, "sqlserver", cfg.DSN, Dialect{})
	if err != nil {
		return nil, nil, err
	}
	return &Repository{DB: db}, db.Close, nil
}

// CopyFrom bulk-inserts rows into table with the TDS bulk copy protocol,
// inside one transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.SQL().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, storage.Classify(Dialect{}, fmt.Errorf("bulk row %d: %w", i, err))
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, storage.Classify(Dialect{}, fmt.Errorf("bulk finalize: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Dialect is the SQL Server storage.Dialect.
type Dialect struct{}

// Name implements storage.Dialect.
func (Dialect) Name() string { return "mssql" }

// Placeholder implements storage.Dialect with @pN ordinals.
func (Dialect) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

// QuoteIdent implements storage.Dialect.
func (Dialect) QuoteIdent(id string) string { return msIdent(id) }

// IsDuplicateKey reports error 2627 (PRIMARY KEY/UNIQUE constraint) and
// 2601 (unique index).
func (Dialect) IsDuplicateKey(err error) bool {
	var me mssql.Error
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == 2627 || me.Number == 2601
}

// msIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func msIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// msFQN quotes a possibly schema-qualified name like "dbo.songs" to
// "[dbo].[songs]". If no dot is present, returns a single quoted ident.
func msFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = msIdent(p)
	}
	return strings.Join(parts, ".")
}
