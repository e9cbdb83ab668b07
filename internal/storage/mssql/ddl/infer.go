package ddl

import (
	gddl "sparkify/internal/ddl"
	"sparkify/internal/schema"
)

// FromTable maps a logical table to a SQL Server table definition.
func FromTable(t schema.Table) gddl.TableDef {
	return gddl.FromTable(t, MapType)
}
