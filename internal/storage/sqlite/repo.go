// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. Every Insert runs in
// its own transaction, so a committed row survives any later failure.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"kombuchadb/internal/storage"
	sqliteddl "kombuchadb/internal/storage/sqlite/ddl"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository opens a SQLite connection using the provided DSN. The file is
// created by the driver when it does not exist yet.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", withForeignKeys(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One session, matching SQLite's single-writer model.
	db.SetMaxOpenConns(1)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Repository{db: db}, nil
}

// withForeignKeys adds the driver's _pragma parameter to dsn so that every
// connection the pool opens enforces foreign keys.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Columns returns the table's columns from PRAGMA table_info in declaration
// order. A missing table returns an empty slice.
func (r *Repository) Columns(ctx context.Context, table string) ([]storage.Column, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s);", sqliteddl.QuoteIdent(table))
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []storage.Column
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("sqlite: scan table_info %s: %w", table, err)
		}
		cols = append(cols, storage.Column{
			Position:     cid,
			Name:         name,
			DeclaredType: typ,
			NotNull:      notNull != 0,
			PrimaryKey:   pk != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: table_info %s: %w", table, err)
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
		return fail(fmt.Errorf("sqlite: no columns"))
	}
	if len(values) != len(columns) {
		return fail(fmt.Errorf("sqlite: %d values for %d columns", len(values), len(columns)))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("sqlite: begin tx: %w", err))
	}
	if _, err := tx.ExecContext(ctx, query, values...); err != nil {
		_ = tx.Rollback()
		return fail(err)
	}
	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("sqlite: commit: %w", err))
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("sqlite: close: %w", err)
	}
	return nil
}

// buildInsertSQL renders INSERT INTO "t" ("a", "b") VALUES (?, ?).
func buildInsertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = sqliteddl.QuoteIdent(c)
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		sqliteddl.QuoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}
