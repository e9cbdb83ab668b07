// Package ddl contains MSSQL-specific helpers for generating DDL.
//
// It maps logical column kinds into SQL Server types. Key columns use a
// bounded NVARCHAR because NVARCHAR(MAX) cannot be part of a primary key.
package ddl

import "strings"

// MapType maps a logical type string into a SQL Server column type.
//
// Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "key":
		return "NVARCHAR(256)"
	case "int", "integer", "bigint":
		return "BIGINT"
	case "identity":
		return "BIGINT IDENTITY(1,1)"
	case "bool", "boolean":
		return "BIT"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "DATETIME2(3)"
	case "float", "double":
		return "FLOAT"
	case "numeric", "decimal":
		return "DECIMAL(38, 10)"
	case "uuid":
		return "UNIQUEIDENTIFIER"
	default:
		return "NVARCHAR(MAX)"
	}
}
