package probe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kombuchadb/internal/storage"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "species.tsv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const speciesTSV = "id\tname\tgenomeSize\tgeneNumber\tpatricID\n" +
	"lb\tLactobacillus\t\t2200\t1580\n" +
	"ac\tAcetobacter\t3.1e6\t2950\tfig|438.1\n" +
	"broken\n"

func TestFile_InfersKinds(t *testing.T) {
	t.Parallel()

	res, err := File(context.Background(), writeFile(t, speciesTSV), Options{})
	require.NoError(t, err)

	assert.Equal(t, "UTF-8", res.Encoding)
	assert.Equal(t, []string{"id", "name", "genomeSize", "geneNumber", "patricID"}, res.Header)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 1, res.Malformed)
	require.Len(t, res.Columns, 5)

	kinds := map[string]storage.ColumnKind{}
	for _, c := range res.Columns {
		kinds[c.Name] = c.Inferred
		assert.Empty(t, c.Declared)
		assert.False(t, c.Compatible)
	}
	assert.Equal(t, storage.KindText, kinds["id"])
	assert.Equal(t, storage.KindReal, kinds["genomeSize"])
	assert.Equal(t, storage.KindInteger, kinds["geneNumber"])
	assert.Equal(t, storage.KindText, kinds["patricID"])
	assert.Equal(t, 1, res.Columns[2].Empty)
}

func TestFile_AgainstSchema(t *testing.T) {
	t.Parallel()

	cols := []storage.Column{
		{Name: "id", DeclaredType: "TEXT"},
		{Name: "name", DeclaredType: "TEXT"},
		{Name: "genomeSize", DeclaredType: "INTEGER"},
		{Name: "geneNumber", DeclaredType: "INTEGER"},
	}
	res, err := File(context.Background(), writeFile(t, speciesTSV), Options{Columns: cols})
	require.NoError(t, err)

	byName := map[string]ColumnProbe{}
	for _, c := range res.Columns {
		byName[c.Name] = c
	}
	assert.True(t, byName["id"].Compatible)
	assert.False(t, byName["genomeSize"].Compatible, "3.1e6 does not parse as INTEGER")
	assert.True(t, byName["geneNumber"].Compatible)
	assert.Empty(t, byName["patricID"].Declared)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "encoding:  UTF-8")
	assert.Contains(t, out, "records:   2 (malformed 1)")
	assert.Regexp(t, `genomeSize\s+REAL\s+INTEGER\s+1\s+no`, out)
	assert.Regexp(t, `patricID\s+TEXT\s+-\s+0\s+unknown`, out)
}

func TestFile_MaxRecords(t *testing.T) {
	t.Parallel()

	res, err := File(context.Background(), writeFile(t, speciesTSV), Options{MaxRecords: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Records)
	// Only "lb" is sampled: its patricID is numeric.
	assert.Equal(t, storage.KindText, res.Columns[2].Inferred)
	assert.Equal(t, storage.KindInteger, res.Columns[4].Inferred)
}

func TestFile_EmptyAndMissing(t *testing.T) {
	t.Parallel()

	res, err := File(context.Background(), writeFile(t, ""), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Header)

	_, err = File(context.Background(), filepath.Join(t.TempDir(), "nope.tsv"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInferKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want storage.ColumnKind
	}{
		{nil, storage.KindText},
		{[]string{"", ""}, storage.KindText},
		{[]string{"1", "", "-3"}, storage.KindInteger},
		{[]string{"1", "2.5"}, storage.KindReal},
		{[]string{"1", "x"}, storage.KindText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferKind(tt.in), "%q", tt.in)
	}
}

func TestFile_EmptyColumnFitsAnyDeclaredKind(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "id\tncbiID\nlb\t\nac\t\n")
	res, err := File(context.Background(), p, Options{Columns: []storage.Column{
		{Name: "id", DeclaredType: "TEXT"},
		{Name: "ncbiID", DeclaredType: "INTEGER"},
	}})
	require.NoError(t, err)
	require.Len(t, res.Columns, 2)
	assert.Equal(t, 2, res.Columns[1].Empty)
	assert.True(t, res.Columns[1].Compatible)
}
