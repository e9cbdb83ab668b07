// Package all wires all built-in storage backends into the storage factory.
//
// Importing it (even as a blank import) runs the init functions of each
// backend, which register their factories and DDL builders:
//
//   - "postgres" (sparkify/internal/storage/postgres)
//   - "sqlite"   (sparkify/internal/storage/sqlite)
//   - "mysql"    (sparkify/internal/storage/mysql)
//   - "mssql"    (sparkify/internal/storage/mssql)
//
// Typical usage in a wiring layer:
//
//	import _ "sparkify/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: dsn})
//	if err != nil {
//	    return err
//	}
//	defer repo.Close()
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "sparkify/internal/storage/mssql"
	_ "sparkify/internal/storage/mysql"
	_ "sparkify/internal/storage/postgres"
	_ "sparkify/internal/storage/sqlite"
)
