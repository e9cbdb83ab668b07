package ddl

import "sparkify/internal/schema"

// Builder renders Postgres DDL for logical tables; it satisfies
// storage.DDLBuilder.
type Builder struct{}

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS for t.
func (Builder) CreateTableSQL(t schema.Table) (string, error) {
	return BuildCreateTableSQL(FromTable(t))
}

// DropTableSQL renders DROP TABLE IF EXISTS for table.
func (Builder) DropTableSQL(table string) string { return BuildDropTableSQL(table) }
