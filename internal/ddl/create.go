// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE and DROP TABLE statements from that model.
//
// Dialect differences are confined to Options: identifier quoting and
// whether IF [NOT] EXISTS guards are emitted. Backend packages (e.g.
// internal/storage/postgres/ddl) pick the options, or wrap the rendered
// statement when the dialect has no inline guard (SQL Server).
package ddl

import (
	"fmt"
	"strings"
)

// Options selects dialect details for rendering.
type Options struct {
	// Quote quotes one identifier segment. Nil emits identifiers verbatim.
	Quote func(string) string
	// IfNotExists adds IF NOT EXISTS to CREATE TABLE and IF EXISTS to
	// DROP TABLE.
	IfNotExists bool
}

func (o Options) quote(id string) string {
	if o.Quote == nil {
		return id
	}
	return o.Quote(id)
}

// QuoteFQN quotes every dotted segment of a possibly schema-qualified name.
func (o Options) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, o.quote(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Each column renders as
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// and columns with PrimaryKey set are always NOT NULL and collected into a
// trailing PRIMARY KEY (...) clause. FQN, every column Name and SQLType must be
// non-empty, and at least one column is required.
func BuildCreateTableSQL(t TableDef, o Options) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(o.quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, o.quote(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	guard := ""
	if o.IfNotExists {
		guard = "IF NOT EXISTS "
	}
	return fmt.Sprintf(
		"CREATE TABLE %s%s (\n  %s\n);",
		guard,
		o.QuoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE [IF EXISTS] <fqn>.
func BuildDropTableSQL(fqn string, o Options) string {
	guard := ""
	if o.IfNotExists {
		guard = "IF EXISTS "
	}
	return fmt.Sprintf("DROP TABLE %s%s;", guard, o.QuoteFQN(fqn))
}
