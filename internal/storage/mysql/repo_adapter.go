// Package mysql wires the MySQL backend into the storage registry.
package mysql

import (
	"context"

	"kombuchadb/internal/storage"
	myddl "kombuchadb/internal/storage/mysql/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "mysql"

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
	storage.RegisterDDL(Kind, myddl.BuildCreateTableSQL)
}
