package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/domain"
)

// Supported table formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

type tableDocument struct {
	Board       int           `json:"board" yaml:"board"`
	MaxDistance int           `json:"maxDistance" yaml:"maxDistance"`
	Rows        []rowDocument `json:"rows" yaml:"rows"`
}

type rowDocument struct {
	From      string         `json:"from" yaml:"from"`
	Distances map[string]int `json:"distances" yaml:"distances"`
}

// WriteTable serializes the table into distances.<format> under dir and
// returns the written path.
func WriteTable(table domain.DistanceTable, dir, format string) (path string, err error) {
	format, err = normalizeFormat(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path = filepath.Join(dir, "distances."+format)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			path, err = "", fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err := Encode(file, table, format); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

// Encode writes the table to w in the given format. Format names are
// case-insensitive and "yml" is accepted for YAML.
func Encode(w io.Writer, table domain.DistanceTable, format string) error {
	format, err := normalizeFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(document(table))
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(document(table)); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return encodeCSV(w, table)
	}
}

func normalizeFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == "yml" {
		normalized = FormatYAML
	}
	switch normalized {
	case FormatJSON, FormatYAML, FormatCSV:
		return normalized, nil
	}
	return "", fmt.Errorf("unsupported table format %q", format)
}

func document(table domain.DistanceTable) tableDocument {
	doc := tableDocument{
		Board:       board.Size,
		MaxDistance: table.MaxDistance,
		Rows:        make([]rowDocument, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		distances := make(map[string]int, len(row.Distances))
		for idx, d := range row.Distances {
			distances[squareName(idx)] = d
		}
		doc.Rows = append(doc.Rows, rowDocument{From: row.From.String(), Distances: distances})
	}
	return doc
}

// encodeCSV writes a square matrix: the header row and first column hold
// square names.
func encodeCSV(w io.Writer, table domain.DistanceTable) error {
	cw := csv.NewWriter(w)

	header := []string{"from"}
	for idx := 0; idx < board.Size*board.Size; idx++ {
		header = append(header, squareName(idx))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range table.Rows {
		record := make([]string, 0, len(row.Distances)+1)
		record = append(record, row.From.String())
		for _, d := range row.Distances {
			record = append(record, strconv.Itoa(d))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func squareName(idx int) string {
	return board.Square{File: idx / board.Size, Rank: idx % board.Size}.String()
}
