// Package ddl contains SQLite-specific helpers for generating DDL.
//
// It maps logical column kinds into SQLite type affinities.
package ddl

import "strings"

// MapType maps a logical kind into a SQLite column type.
//
// SQLite supports dynamic typing, so this mapping prefers canonical affinities:
//   - integer-ish types -> INTEGER
//   - identity         -> INTEGER (a single INTEGER primary key aliases rowid)
//   - boolean          -> INTEGER (0/1)
//   - timestamp        -> TIMESTAMP, which the driver round-trips as time.Time
//   - others           -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint", "identity":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER" // 0/1
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "TIMESTAMP"
	case "blob", "bytes":
		return "BLOB"
	default:
		return "TEXT"
	}
}
