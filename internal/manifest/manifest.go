// Package manifest records how each page of an assembled book was rendered.
package manifest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/globalteceducacional/toth/internal/assembly"
	"github.com/globalteceducacional/toth/internal/numbering"
	"github.com/parquet-go/parquet-go"
)

// Row is one page of the manifest.
type Row struct {
	Position  int    `json:"position" parquet:"position"`
	PageID    string `json:"page_id" parquet:"page_id"`
	Name      string `json:"name" parquet:"name"`
	Width     int    `json:"width" parquet:"width"`
	Height    int    `json:"height" parquet:"height"`
	Numbered  bool   `json:"numbered" parquet:"numbered"`
	Label     string `json:"label" parquet:"label"`
	Style     string `json:"style" parquet:"style"`
	Alignment string `json:"alignment" parquet:"alignment"`
	Color     string `json:"color" parquet:"color"` // #RRGGBB of the number, empty when unnumbered
}

// FromResult builds the manifest rows of an assembly.
func FromResult(res *assembly.Result, req assembly.Request) []Row {
	rows := make([]Row, len(res.Pages))
	for i, p := range res.Pages {
		row := Row{
			Position:  p.Position,
			PageID:    p.PageID,
			Name:      p.Name,
			Width:     p.Width,
			Height:    p.Height,
			Numbered:  p.Label.Show,
			Style:     req.Style.String(),
			Alignment: req.Alignment.String(),
		}
		if p.Label.Show {
			row.Label = p.Label.Text
			row.Color = numbering.Hex(p.Label.Fill)
		}
		rows[i] = row
	}
	return rows
}

// Write encodes rows as a parquet file.
func Write(w io.Writer, rows []Row) error {
	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("failed to write manifest rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close manifest writer: %w", err)
	}
	return nil
}

// Read decodes a parquet manifest of the given size.
func Read(r io.ReaderAt, size int64) ([]Row, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	rows := make([]Row, 0, pf.NumRows())
	batch := make([]Row, 64)
	for {
		n, err := reader.Read(batch)
		rows = append(rows, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest rows: %w", err)
		}
	}
	return rows, nil
}

// WriteFile writes rows to path. The format follows the extension: .parquet,
// or .jsonl/.json for one JSON object per line.
func WriteFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		err = Write(f, rows)
	case ".jsonl", ".json":
		err = writeJSONL(f, rows)
	default:
		err = fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return err
	}

	slog.Debug("Wrote manifest", "path", path, "rows", len(rows))
	return f.Close()
}

// ReadFile loads a manifest written by WriteFile.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		return Read(f, info.Size())
	case ".jsonl", ".json":
		return readJSONL(f)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func writeJSONL(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to write manifest row %d: %w", row.Position, err)
		}
	}
	return nil
}

func readJSONL(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}
	return rows, nil
}
