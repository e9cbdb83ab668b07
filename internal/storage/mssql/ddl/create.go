// Package ddl renders SQL Server DDL from the generic ddl.TableDef model.
//
// T-SQL has no CREATE TABLE IF NOT EXISTS, so the statement is wrapped in
// an IF OBJECT_ID(...) IS NULL guard. Identifiers use [bracket] quoting.
package ddl

import (
	"fmt"
	"strings"

	gddl "sparkify/internal/ddl"
)

var options = gddl.Options{Quote: quoteIdent}

// BuildCreateTableSQL returns a T-SQL script that creates a table matching
// the provided definition if it does not already exist:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (
//	    [col1] TYPE [NOT NULL] [DEFAULT expr],
//	    PRIMARY KEY ([pk1])
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	stmt, err := gddl.BuildCreateTableSQL(t, options)
	if err != nil {
		return "", fmt.Errorf("mssql %w", err)
	}
	fqn := quoteFQN(strings.TrimSpace(t.FQN))
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND;",
		fqn,
		indent(stmt, "  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS (SQL Server 2016+).
func BuildDropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteFQN(table))
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// quoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// quoteFQN quotes a possibly schema-qualified table name, e.g.:
//
//	"dbo.Users"   -> [dbo].[Users]
//	"a.b.c"       -> [a].[b].[c]
func quoteFQN(fqn string) string { return options.QuoteFQN(fqn) }
