// Package mysql implements a MySQL-backed storage.Repository on database/sql
// with github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"sparkify/internal/storage"
	"sparkify/internal/storage/sqldb"
)

// Config holds MySQL repository configuration.
type Config struct {
	// DSN in the driver's format, e.g. "user:pass@tcp(host:3306)/sparkify".
	DSN string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	*sqldb.DB
}

// NewRepository parses the DSN, forces parseTime so DATETIME columns scan
// into time.Time, and opens the connection.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqldb.Open(ctx, "mysql", dsn, Dialect{})
	if err != nil {
		return nil, nil, err
	}
	return &Repository{DB: db}, db.Close, nil
}

func normalizeDSN(dsn string) (string, error) {
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("mysql: DSN must not be empty")
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

// Dialect is the MySQL storage.Dialect.
type Dialect struct{}

// Name implements storage.Dialect.
func (Dialect) Name() string { return "mysql" }

// Placeholder implements storage.Dialect.
func (Dialect) Placeholder(int) string { return "?" }

// QuoteIdent wraps id in backticks, doubling embedded backticks.
func (Dialect) QuoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// IsDuplicateKey reports ER_DUP_ENTRY (1062).
func (Dialect) IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

var _ storage.Dialect = Dialect{}
