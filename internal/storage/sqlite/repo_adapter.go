// Package sqlite wires the SQLite backend into the storage registry. The
// registration happens in init, so callers only need a blank import.
package sqlite

import (
	"context"

	"kombuchadb/internal/storage"
	sqliteddl "kombuchadb/internal/storage/sqlite/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "sqlite"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return r, nil
	})
	storage.RegisterDDL(Kind, sqliteddl.BuildCreateTableSQL)
}
