package ddl

import "sparkify/internal/schema"

// ColumnDef describes a single column in a table definition. It uses simple,
// database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, TIMESTAMP)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'free', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "schema.table") and will
// be quoted by renderers as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// FromTable converts a logical schema.Table into a TableDef, mapping each
// logical column kind with mapType.
func FromTable(t schema.Table, mapType func(kind string) string) TableDef {
	cols := make([]ColumnDef, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, ColumnDef{
			Name:       c.Name,
			SQLType:    mapType(c.Type),
			Nullable:   c.Nullable && !c.PrimaryKey,
			PrimaryKey: c.PrimaryKey,
		})
	}
	return TableDef{FQN: t.Name, Columns: cols}
}
