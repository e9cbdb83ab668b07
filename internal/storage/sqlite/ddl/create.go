package ddl

import (
	"strings"

	gddl "sparkify/internal/ddl"
)

var options = gddl.Options{Quote: quoteIdent, IfNotExists: true}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS with double-quoted
// identifiers.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, options)
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS.
func BuildDropTableSQL(table string) string {
	return gddl.BuildDropTableSQL(table, options)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string { return options.QuoteFQN(fqn) }
