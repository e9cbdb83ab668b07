package storage

import (
	"context"
	"fmt"
	"sync"

	"sparkify/internal/schema"
)

// DDLBuilder renders backend-specific DDL for logical tables. Backends
// register one for their kind at init time.
type DDLBuilder interface {
	CreateTableSQL(t schema.Table) (string, error)
	DropTableSQL(table string) string
}

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL registers (or replaces) the DDLBuilder for a storage kind.
func RegisterDDL(kind string, b DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = b
}

func ddlFor(repo Repository) (DDLBuilder, error) {
	kind := repo.Dialect().Name()
	ddlMu.RLock()
	b, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no DDL builder registered for storage kind %q", kind)
	}
	return b, nil
}

// CreateTables issues CREATE TABLE (if not exists) for every table, in order.
func CreateTables(ctx context.Context, repo Repository, tables []schema.Table) error {
	b, err := ddlFor(repo)
	if err != nil {
		return err
	}
	for _, t := range tables {
		stmt, err := b.CreateTableSQL(t)
		if err != nil {
			return fmt.Errorf("render create %s: %w", t.Name, err)
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	return nil
}

// DropTables issues DROP TABLE (if exists) for every table, in order.
func DropTables(ctx context.Context, repo Repository, tables []schema.Table) error {
	b, err := ddlFor(repo)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := repo.Exec(ctx, b.DropTableSQL(t.Name)); err != nil {
			return fmt.Errorf("drop %s: %w", t.Name, err)
		}
	}
	return nil
}

// RecreateTables drops then creates tables, the schema reset a run starts
// from.
func RecreateTables(ctx context.Context, repo Repository, tables []schema.Table) error {
	if err := DropTables(ctx, repo, tables); err != nil {
		return err
	}
	return CreateTables(ctx, repo, tables)
}
