// Package postgres wires the Postgres backend into the storage registry and
// registers its DDL dialect, so callers stay backend-agnostic.
package postgres

import (
	"context"

	"kombuchadb/internal/storage"
	pgddl "kombuchadb/internal/storage/postgres/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "postgres"

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
	storage.RegisterDDL(Kind, pgddl.BuildCreateTableSQL)
}
