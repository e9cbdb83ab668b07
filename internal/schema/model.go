// Package schema describes the star schema and the warehouse staging tables
// in backend-neutral terms. Column types are logical kinds that each storage
// backend maps to its own SQL types.
package schema

// Logical column kinds.
const (
	TypeKey       = "key"       // short identifier text (song_id, artist_id)
	TypeText      = "text"      // free text
	TypeInt       = "int"       // small integer
	TypeBigint    = "bigint"    // 64-bit integer
	TypeFloat     = "float"     // double precision; exact equality is relied on
	TypeTimestamp = "timestamp" // timestamp without time zone, UTC
	TypeIdentity  = "identity"  // database-assigned surrogate key
)

// Column is a logical column.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// Table is a logical table. PartitionBy lists the columns the lake path
// turns into directory levels.
type Table struct {
	Name        string
	Columns     []Column
	PartitionBy []string
}

// ColumnNames returns the column names in order. Identity columns are
// omitted when insertable is true, since the database assigns them.
func (t Table) ColumnNames(insertable bool) []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if insertable && c.Type == TypeIdentity {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Key returns the primary key column names.
func (t Table) Key() []string {
	var out []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			out = append(out, c.Name)
		}
	}
	return out
}
