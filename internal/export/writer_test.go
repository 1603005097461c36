package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/domain"
	"github.com/vanshika/knighttravails/internal/service"
)

func buildTable(t *testing.T) domain.DistanceTable {
	t.Helper()
	table, err := service.NewTableBuilder(board.Build(), 2).Build(context.Background())
	require.NoError(t, err)
	return table
}

func TestWriteTable_JSON(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTable(buildTable(t), dir, "JSON")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "distances.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc tableDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 8, doc.Board)
	assert.Equal(t, 6, doc.MaxDistance)
	require.Len(t, doc.Rows, 64)
	assert.Equal(t, "a1", doc.Rows[0].From)
	assert.Equal(t, 6, doc.Rows[0].Distances["h8"])
	assert.Equal(t, 1, doc.Rows[0].Distances["b3"])
}

func TestWriteTable_YAML(t *testing.T) {
	path, err := WriteTable(buildTable(t), t.TempDir(), "yml")
	require.NoError(t, err)
	assert.Equal(t, "distances.yaml", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc tableDocument
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.Len(t, doc.Rows, 64)
	assert.Equal(t, 3, doc.Rows[27].Distances["e4"], "d4 -> e4")
}

func TestEncode_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, buildTable(t), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 65)
	require.Len(t, records[0], 65)
	assert.Equal(t, []string{"from", "a1", "a2"}, records[0][:3])
	assert.Equal(t, "a1", records[1][0])
	assert.Equal(t, "0", records[1][1])
}

func TestWriteTable_UnsupportedFormat(t *testing.T) {
	_, err := WriteTable(domain.DistanceTable{}, t.TempDir(), "xml")
	assert.Error(t, err)
}

func TestEncode_NormalizesFormat(t *testing.T) {
	table := buildTable(t)

	var jsonBuf bytes.Buffer
	require.NoError(t, Encode(&jsonBuf, table, " JSON "))
	var doc tableDocument
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &doc))
	assert.Equal(t, 6, doc.MaxDistance)

	var yamlBuf bytes.Buffer
	require.NoError(t, Encode(&yamlBuf, table, "yml"))
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &doc))
	assert.Len(t, doc.Rows, 64)

	err := Encode(&bytes.Buffer{}, table, "XML")
	assert.EqualError(t, err, `unsupported table format "XML"`)
}

func TestNormalizeFormat(t *testing.T) {
	cases := map[string]string{
		"json":  FormatJSON,
		"JSON":  FormatJSON,
		"yml":   FormatYAML,
		"YAML":  FormatYAML,
		" csv ": FormatCSV,
	}
	for in, want := range cases {
		got, err := normalizeFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := normalizeFormat("")
	assert.Error(t, err)
}

func TestWriteTable_MissingDirIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := WriteTable(buildTable(t), dir, FormatCSV)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
