// Package postgres implements a Postgres repository using pgx v5. Like the
// SQLite backend it inserts one row per transaction and reads column metadata
// from the live schema (information_schema.columns).
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kombuchadb/internal/storage"
	pgddl "kombuchadb/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository constructs a Repository and verifies connectivity.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	// Loading is sequential; one connection is the whole session.
	pcfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

const columnsSQL = `
SELECT c.column_name,
       c.data_type,
       c.is_nullable = 'NO' AS not_null,
       EXISTS (
           SELECT 1
           FROM information_schema.table_constraints tc
           JOIN information_schema.key_column_usage kcu
             ON kcu.constraint_name = tc.constraint_name
            AND kcu.table_schema = tc.table_schema
           WHERE tc.constraint_type = 'PRIMARY KEY'
             AND tc.table_schema = c.table_schema
             AND tc.table_name = c.table_name
             AND kcu.column_name = c.column_name
       ) AS pk
FROM information_schema.columns c
WHERE c.table_schema = current_schema()
  AND c.table_name = $1
ORDER BY c.ordinal_position`

// Columns returns the table's columns in ordinal order with data types
// folded onto REAL / INTEGER / TEXT.
func (r *Repository) Columns(ctx context.Context, table string) ([]storage.Column, error) {
	rows, err := r.pool.Query(ctx, columnsSQL, table)
	if err != nil {
		return nil, fmt.Errorf("postgres: columns %s: %w", table, err)
	}
	defer rows.Close()

	var cols []storage.Column
	for rows.Next() {
		var (
			name, dataType string
			notNull, pk    bool
		)
		if err := rows.Scan(&name, &dataType, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("postgres: scan columns %s: %w", table, err)
		}
		cols = append(cols, storage.Column{
			Position:     len(cols),
			Name:         name,
			DeclaredType: pgddl.NormalizeType(dataType),
			NotNull:      notNull,
			PrimaryKey:   pk,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: columns %s: %w", table, err)
	}
	return cols, nil
}

// Insert writes a single row and commits it immediately.
func (r *Repository) Insert(ctx context.Context, table string, columns []string, values []any) error {
	query := buildInsertSQL(table, columns)
	fail := func(err error) error {
		return &storage.InsertError{Table: table, Query: query, Args: values, Err: err}
	}
	if len(columns) == 0 {
		return fail(fmt.Errorf("postgres: no columns"))
	}
	if len(values) != len(columns) {
		return fail(fmt.Errorf("postgres: %d values for %d columns", len(values), len(columns)))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fail(fmt.Errorf("postgres: begin tx: %w", err))
	}
	if _, err := tx.Exec(ctx, query, values...); err != nil {
		_ = tx.Rollback(ctx)
		return fail(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fail(fmt.Errorf("postgres: commit: %w", err))
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

// Close closes the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// pgIdent quotes an identifier for Postgres, escaping embedded quotes.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// buildInsertSQL renders INSERT INTO "t" ("a", "b") VALUES ($1, $2).
func buildInsertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgIdent(c)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		pgIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}
