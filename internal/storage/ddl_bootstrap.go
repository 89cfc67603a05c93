package storage

import (
	"context"
	"fmt"
	"sync"

	"kombuchadb/internal/ddl"
)

// Renderer turns a dialect-neutral table definition into backend SQL.
// Backends register one for their kind at init time.
type Renderer func(t ddl.TableDef) (string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]Renderer{}
)

// RegisterDDL registers (or replaces) the Renderer for the given storage kind.
func RegisterDDL(kind string, fn Renderer) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// RenderDDL renders t with the Renderer registered for kind.
func RenderDDL(kind string, t ddl.TableDef) (string, error) {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no DDL renderer registered for storage kind %q", kind)
	}
	return fn(t)
}

// EnsureSchema renders every table for kind and applies it via repo.Exec in
// order. Statements are CREATE TABLE IF NOT EXISTS, so re-running is a no-op
// for tables that already exist.
func EnsureSchema(ctx context.Context, kind string, repo Repository, tables []ddl.TableDef) error {
	for _, t := range tables {
		stmt, err := RenderDDL(kind, t)
		if err != nil {
			return fmt.Errorf("render %s: %w", t.Name, err)
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	return nil
}
