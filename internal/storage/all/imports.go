// Package all wires all built-in storage backends into the storage registry.
//
// It exists purely for side effects: importing it runs the init functions of
// each backend, which register their factories and DDL renderers. After the
// import the following kinds are available:
//
//   - "sqlite"   (kombuchadb/internal/storage/sqlite)
//   - "postgres" (kombuchadb/internal/storage/postgres)
//   - "mysql"    (kombuchadb/internal/storage/mysql)
//
// Typical usage:
//
//	import _ "kombuchadb/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: path})
package all

import (
	_ "kombuchadb/internal/storage/mysql"
	_ "kombuchadb/internal/storage/postgres"
	_ "kombuchadb/internal/storage/sqlite"
)
