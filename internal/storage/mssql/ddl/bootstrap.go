package ddl

import "sparkify/internal/schema"

// Builder renders SQL Server DDL for logical tables; it satisfies
// storage.DDLBuilder.
type Builder struct{}

// CreateTableSQL implements storage.DDLBuilder.
func (Builder) CreateTableSQL(t schema.Table) (string, error) {
	return BuildCreateTableSQL(FromTable(t))
}

// DropTableSQL implements storage.DDLBuilder.
func (Builder) DropTableSQL(table string) string { return BuildDropTableSQL(table) }
