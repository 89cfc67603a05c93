package schema

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kombuchadb/internal/storage"
	_ "kombuchadb/internal/storage/all"
)

func TestTables_DependencyOrder(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, td := range Tables() {
		for _, fk := range td.ForeignKeys {
			assert.True(t, seen[fk.RefTable], "%s references %s before it is defined", td.Name, fk.RefTable)
		}
		seen[td.Name] = true
	}
	assert.Len(t, seen, 10)
}

func TestSourceFiles_MapToKnownTables(t *testing.T) {
	t.Parallel()

	known := map[string]bool{}
	for _, td := range Tables() {
		known[td.Name] = true
	}
	files := SourceFiles()
	require.Len(t, files, 10)
	for _, sf := range files {
		assert.True(t, known[sf.Table], "%s maps to unknown table %s", sf.File, sf.Table)
	}
	assert.Equal(t, SourceFile{File: "kombucha_media.tsv", Table: "wc"}, files[3])
}

func TestTables_RenderForEveryDialect(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{"sqlite", "postgres", "mysql"} {
		for _, td := range Tables() {
			_, err := storage.RenderDDL(kind, td)
			assert.NoError(t, err, "%s/%s", kind, td.Name)
		}
	}
}

// TestProvision_Idempotent provisions a fresh SQLite file twice and checks
// that rows written in between survive.
func TestProvision_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: filepath.Join(t.TempDir(), "k.sqlite3")})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, Provision(ctx, "sqlite", repo))
	require.NoError(t, repo.Insert(ctx, Elements, []string{"id", "name", "MolecularWeight"}, []any{"C", "Carbon", 12.011}))
	require.NoError(t, Provision(ctx, "sqlite", repo))

	for _, td := range Tables() {
		cols, err := repo.Columns(ctx, td.Name)
		require.NoError(t, err)
		assert.Len(t, cols, len(td.Columns), td.Name)
	}

	// Duplicate insert proves the first row is still there.
	err = repo.Insert(ctx, Elements, []string{"id", "name", "MolecularWeight"}, []any{"C", "Carbon", 12.011})
	assert.Error(t, err)
}

func TestProvision_DeclaredTypesMatchLogicalTypes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: filepath.Join(t.TempDir(), "k.sqlite3")})
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, Provision(ctx, "sqlite", repo))

	cols, err := repo.Columns(ctx, Species)
	require.NoError(t, err)
	kinds := map[string]storage.ColumnKind{}
	for _, c := range cols {
		kinds[c.Name] = c.Kind()
	}
	assert.Equal(t, map[string]storage.ColumnKind{
		"id":         storage.KindText,
		"name":       storage.KindText,
		"genomeSize": storage.KindInteger,
		"geneNumber": storage.KindInteger,
		"patricID":   storage.KindText,
		"ncbiID":     storage.KindText,
	}, kinds)
}

func TestProvision_UnknownKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: filepath.Join(t.TempDir(), "k.sqlite3")})
	require.NoError(t, err)
	defer repo.Close()

	assert.ErrorContains(t, Provision(ctx, "oracle", repo), "no DDL renderer")
}
