// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical kind into a MySQL column type. TEXT columns cannot
// be primary keys without a prefix length, so keys are VARCHAR(255).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "key":
		return "VARCHAR(255)"
	case "int", "integer":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "identity":
		return "BIGINT AUTO_INCREMENT"
	case "float", "double":
		return "DOUBLE"
	case "bool", "boolean":
		return "TINYINT(1)"
	case "date":
		return "DATE"
	case "timestamp", "datetime":
		return "DATETIME(3)"
	default:
		return "TEXT"
	}
}
