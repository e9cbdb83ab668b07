package storage

import (
	"fmt"
	"strings"
)

// Dialect captures the SQL differences between backends that hand-written
// statements need to care about.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
	QuoteIdent(id string) string
	// IsDuplicateKey reports whether err is a primary/unique key violation.
	IsDuplicateKey(err error) bool
}

// Classify wraps err with ErrDuplicateKey when the dialect recognises it as
// a key violation; other errors are returned unchanged.
func Classify(d Dialect, err error) error {
	if err == nil || d == nil {
		return err
	}
	if d.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

// Placeholders returns n comma-separated bind markers starting at first.
func Placeholders(d Dialect, first, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.Placeholder(first + i)
	}
	return strings.Join(ph, ", ")
}

// QuoteAll quotes every identifier in ids.
func QuoteAll(d Dialect, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.QuoteIdent(id)
	}
	return out
}

// InsertSQL renders INSERT INTO <table> (<cols>) VALUES (<placeholders>).
func InsertSQL(d Dialect, table string, columns []string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(table),
		strings.Join(QuoteAll(d, columns), ", "),
		Placeholders(d, 1, len(columns)),
	)
}

// CountWhereSQL renders SELECT COUNT(*) FROM <table> WHERE <col> = <ph>.
func CountWhereSQL(d Dialect, table, column string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = %s",
		d.QuoteIdent(table),
		d.QuoteIdent(column),
		d.Placeholder(1),
	)
}
