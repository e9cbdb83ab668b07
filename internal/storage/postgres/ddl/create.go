package ddl

import (
	"strings"

	gddl "sparkify/internal/ddl"
)

var options = gddl.Options{Quote: quoteIdent, IfNotExists: true}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement
// with double-quoted identifiers.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, options)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for table.
func BuildDropTableSQL(table string) string {
	return gddl.BuildDropTableSQL(table, options)
}

// quoteIdent quotes a single identifier segment, doubling embedded quotes.
func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// quoteFQN quotes every segment of a possibly schema-qualified name.
func quoteFQN(fqn string) string { return options.QuoteFQN(fqn) }
