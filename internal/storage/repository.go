// Package storage contains the storage-agnostic session contract used by the
// loader and the schema provisioner, plus a small registry so backends
// (sqlite, postgres, mysql) plug themselves in from init().
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownKind is returned by New when no backend is registered for a kind.
var ErrUnknownKind = errors.New("storage: unknown kind")

// Repository is one open session with a relational store. A single
// Repository is owned by whoever opened it (the batch orchestrator or the
// schema command); every other component only borrows it for one call.
type Repository interface {
	// Columns introspects the live schema and returns the columns of table in
	// physical declaration order. A missing table yields an empty slice and a
	// nil error.
	Columns(ctx context.Context, table string) ([]Column, error)

	// Insert writes one row naming exactly the given columns and commits it
	// in its own transaction. Failures are returned as *InsertError.
	Insert(ctx context.Context, table string, columns []string, values []any) error

	// Exec executes an arbitrary statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Close releases the session.
	Close() error
}

// Config selects a backend and its connection string.
type Config struct {
	Kind string
	DSN  string
}

// Factory opens a Repository for a registered backend.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init().
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownKind, cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
