package ddl

import (
	gddl "sparkify/internal/ddl"
	"sparkify/internal/schema"
)

// FromTable maps a logical table to a SQLite table definition.
func FromTable(t schema.Table) gddl.TableDef {
	return gddl.FromTable(t, MapType)
}

// Builder satisfies storage.DDLBuilder for SQLite.
type Builder struct{}

// CreateTableSQL implements storage.DDLBuilder.
func (Builder) CreateTableSQL(t schema.Table) (string, error) {
	return BuildCreateTableSQL(FromTable(t))
}

// DropTableSQL implements storage.DDLBuilder.
func (Builder) DropTableSQL(table string) string { return BuildDropTableSQL(table) }
