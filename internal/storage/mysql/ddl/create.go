package ddl

import (
	"strings"

	gddl "sparkify/internal/ddl"
	"sparkify/internal/schema"
)

var options = gddl.Options{Quote: quoteIdent, IfNotExists: true}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS with backtick
// identifiers.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, options)
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS.
func BuildDropTableSQL(table string) string { return gddl.BuildDropTableSQL(table, options) }

func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// FromTable maps a logical table to a MySQL table definition.
func FromTable(t schema.Table) gddl.TableDef { return gddl.FromTable(t, MapType) }

// Builder satisfies storage.DDLBuilder for MySQL.
type Builder struct{}

// CreateTableSQL implements storage.DDLBuilder.
func (Builder) CreateTableSQL(t schema.Table) (string, error) {
	return BuildCreateTableSQL(FromTable(t))
}

// DropTableSQL implements storage.DDLBuilder.
func (Builder) DropTableSQL(table string) string { return BuildDropTableSQL(table) }
