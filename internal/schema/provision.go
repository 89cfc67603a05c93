package schema

import (
	"context"
	"fmt"

	"kombuchadb/internal/storage"
)

// Provision creates every table in Tables() on repo using the DDL dialect
// registered for kind. Statements are CREATE TABLE IF NOT EXISTS, so running
// it against an already provisioned database changes nothing.
func Provision(ctx context.Context, kind string, repo storage.Repository) error {
	if err := storage.EnsureSchema(ctx, kind, repo, Tables()); err != nil {
		return fmt.Errorf("schema: provision: %w", err)
	}
	return nil
}
