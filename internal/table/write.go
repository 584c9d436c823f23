package table

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is the worksheet every table is written to.
const Sheet = "Sheet1"

// XLSXPath returns the path WriteXLSX writes name to inside dir.
func XLSXPath(dir, name string) string {
	return filepath.Join(dir, name+".xlsx")
}

// JSONPath returns the path WriteJSON writes name to inside dir.
func JSONPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// WriteXLSX writes the table to <dir>/<name>.xlsx. Row labels go into the
// first column and column labels into the first row, leaving A1 empty.
func (t *Table) WriteXLSX(dir, name string) (string, error) {
	path := XLSXPath(dir, name)

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(Sheet)
	if err != nil {
		return "", fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]any, 0, len(t.Columns)+1)
	header = append(header, nil)
	for _, c := range t.Columns {
		header = append(header, c)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, values := range t.Data {
		row := make([]any, 0, len(values)+1)
		if i < len(t.Index) {
			row = append(row, t.Index[i])
		} else {
			row = append(row, i)
		}
		row = append(row, values...)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

// ReadXLSX loads a sheet written by WriteXLSX as raw cell strings.
func ReadXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// WriteJSON writes v as JSON to <dir>/<name>.json.
func WriteJSON(dir, name string, v any) (string, error) {
	path := JSONPath(dir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
