package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kombuchadb/internal/ddl"
	"kombuchadb/internal/storage"
)

/*
Package-level test helpers (TB-aware)
*/

func newRepo(tb testing.TB) *Repository {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "test.sqlite3")
	r, err := NewRepository(context.Background(), Config{DSN: dsn})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = r.Close() })
	return r
}

func mustExec(tb testing.TB, r *Repository, stmt string) {
	tb.Helper()
	require.NoError(tb, r.Exec(context.Background(), stmt), "exec %q", stmt)
}

func storageTable() ddl.TableDef {
	return ddl.TableDef{
		Name: "elements",
		Columns: []ddl.ColumnDef{
			{Name: "id", SQLType: ddl.TypeText, PrimaryKey: true, Unique: true},
			{Name: "name", SQLType: ddl.TypeText, Unique: true},
			{Name: "MolecularWeight", SQLType: ddl.TypeReal},
		},
	}
}

func createElements(tb testing.TB, r *Repository) {
	tb.Helper()
	stmt, err := storage.RenderDDL(Kind, storageTable())
	require.NoError(tb, err)
	mustExec(tb, r, stmt)
}

/*
Unit tests
*/

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := NewRepository(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN must not be empty")
}

func TestNewRepository_MissingDirectory(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "no", "such", "dir", "x.sqlite3")
	_, err := NewRepository(context.Background(), Config{DSN: dsn})
	assert.Error(t, err)
}

// TestColumns verifies PRAGMA table_info is returned in declaration order
// with declared types preserved.
func TestColumns(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	createElements(t, r)

	cols, err := r.Columns(context.Background(), "elements")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, storage.Column{Position: 0, Name: "id", DeclaredType: "TEXT", NotNull: true, PrimaryKey: true}, cols[0])
	assert.Equal(t, "name", cols[1].Name)
	assert.Equal(t, "MolecularWeight", cols[2].Name)
	assert.Equal(t, storage.KindReal, cols[2].Kind())
}

func TestColumns_MissingTable(t *testing.T) {
	t.Parallel()

	cols, err := newRepo(t).Columns(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestInsert(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	createElements(t, r)
	ctx := context.Background()

	cols := []string{"id", "name", "MolecularWeight"}
	require.NoError(t, r.Insert(ctx, "elements", cols, []any{"C", "Carbon", 12.011}))

	var (
		id, name string
		mw       float64
		typ      string
	)
	row := r.db.QueryRowContext(ctx, `SELECT id, name, MolecularWeight, typeof(MolecularWeight) FROM elements`)
	require.NoError(t, row.Scan(&id, &name, &mw, &typ))
	assert.Equal(t, "C", id)
	assert.Equal(t, "Carbon", name)
	assert.InDelta(t, 12.011, mw, 1e-9)
	assert.Equal(t, "real", typ)
}

// TestInsert_ConstraintViolation checks a duplicate key surfaces as an
// InsertError carrying the statement and values, and leaves the first row.
func TestInsert_ConstraintViolation(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	createElements(t, r)
	ctx := context.Background()
	cols := []string{"id", "name", "MolecularWeight"}

	require.NoError(t, r.Insert(ctx, "elements", cols, []any{"C", "Carbon", 12.011}))
	err := r.Insert(ctx, "elements", cols, []any{"C", "Carbon again", 12.0})
	require.Error(t, err)

	var ie *storage.InsertError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, `INSERT INTO "elements" ("id", "name", "MolecularWeight") VALUES (?, ?, ?)`, ie.Query)
	assert.Equal(t, []any{"C", "Carbon again", 12.0}, ie.Args)

	var n int
	require.NoError(t, r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM elements`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestInsert_ForeignKeyEnforced(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	createElements(t, r)
	mustExec(t, r, `CREATE TABLE iso (id INTEGER PRIMARY KEY AUTOINCREMENT, element TEXT NOT NULL, FOREIGN KEY (element) REFERENCES elements (id))`)

	err := r.Insert(context.Background(), "iso", []string{"element"}, []any{"Xx"})
	var ie *storage.InsertError
	require.True(t, errors.As(err, &ie))
}

func TestInsert_ArityMismatch(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	err := r.Insert(context.Background(), "elements", []string{"id", "name"}, []any{"C"})
	var ie *storage.InsertError
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Error(), "1 values for 2 columns")
}

func TestExec_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	assert.NoError(t, newRepo(t).Exec(context.Background(), "   "))
}

func TestBuildInsertSQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`INSERT INTO "wc" ("metabolite", "concentration") VALUES (?, ?)`,
		buildInsertSQL("wc", []string{"metabolite", "concentration"}))
}

func TestWithForeignKeys(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"db.sqlite3", "db.sqlite3?_pragma=foreign_keys(1)"},
		{"file:db.sqlite3?cache=shared", "file:db.sqlite3?cache=shared&_pragma=foreign_keys(1)"},
		{"db.sqlite3?_pragma=foreign_keys(0)", "db.sqlite3?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withForeignKeys(tt.in))
	}
}

func TestForeignKeysSurviveReconnect(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	ctx := context.Background()
	// Close every released connection so the next query dials a fresh one.
	r.db.SetMaxIdleConns(0)

	for i := 0; i < 2; i++ {
		var on int
		require.NoError(t, r.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on))
		assert.Equal(t, 1, on, "connection %d", i)
	}
}
