// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "strings"

// MapType normalizes a logical column kind into a Postgres SQL type.
//
//	"key", "text", unknown       -> TEXT
//	"int"/"integer"              -> INTEGER
//	"bigint"                     -> BIGINT
//	"float"/"double"             -> DOUBLE PRECISION
//	"bool"/"boolean"             -> BOOLEAN
//	"date"                       -> DATE
//	"timestamp"                  -> TIMESTAMP
//	"timestamptz"                -> TIMESTAMPTZ
//	"identity"                   -> BIGINT GENERATED ALWAYS AS IDENTITY
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "float", "double":
		return "DOUBLE PRECISION"
	case "bool", "boolean":
		return "BOOLEAN"
	case "date":
		return "DATE"
	case "timestamp":
		return "TIMESTAMP"
	case "timestamptz":
		return "TIMESTAMPTZ"
	case "identity":
		return "BIGINT GENERATED ALWAYS AS IDENTITY"
	default:
		return "TEXT"
	}
}
