// Package mysql implements a MySQL repository on database/sql and
// go-sql-driver/mysql. Column metadata comes from information_schema.COLUMNS
// of the connection's current database.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"kombuchadb/internal/storage"
	myddl "kombuchadb/internal/storage/mysql/ddl"
)

// Config holds MySQL repository configuration.
type Config struct {
	// DSN in go-sql-driver form, e.g. "user:pass@tcp(localhost:3306)/kombucha".
	DSN string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository parses the DSN, opens a single-connection pool and pings it.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	mcfg, err := gomysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse dsn: %w", err)
	}
	if mcfg.DBName == "" {
		return nil, fmt.Errorf("mysql: dsn must name a database")
	}
	connector, err := gomysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("mysql: connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db}, nil
}

const columnsSQL = `
SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE = 'NO', COLUMN_KEY = 'PRI'
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

// Columns returns the table's columns in ordinal order.
func (r *Repository) Columns(ctx context.Context, table string) ([]storage.Column, error) {
	rows, err := r.db.QueryContext(ctx, columnsSQL, table)
	if err != nil {
		return nil, fmt.Errorf("mysql: columns %s: %w", table, err)
	}
	defer rows.Close()

	var cols []storage.Column
	for rows.Next() {
		var (
			name, dataType string
			notNull, pk    int
		)
		if err := rows.Scan(&name, &dataType, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("mysql: scan columns %s: %w", table, err)
		}
		cols = append(cols, storage.Column{
			Position:     len(cols),
			Name:         name,
			DeclaredType: myddl.NormalizeType(dataType),
			NotNull:      notNull != 0,
			PrimaryKey:   pk != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: columns %s: %w", table, err)
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
		return fail(fmt.Errorf("mysql: no columns"))
	}
	if len(values) != len(columns) {
		return fail(fmt.Errorf("mysql: %d values for %d columns", len(values), len(columns)))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("mysql: begin tx: %w", err))
	}
	if _, err := tx.ExecContext(ctx, query, values...); err != nil {
		_ = tx.Rollback()
		return fail(err)
	}
	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("mysql: commit: %w", err))
	}
	return nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("mysql: close: %w", err)
	}
	return nil
}

func buildInsertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = myddl.QuoteIdent(c)
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		myddl.QuoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}
