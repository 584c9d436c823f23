// Package table holds the tabular results the analysis library hands back
// and writes them out as spreadsheets and JSON documents.
//
// A Table mirrors the "split" orientation of a pandas DataFrame: column
// labels, one index label per row, and the row values. Values are whatever
// JSON decoding produced (float64, string, bool or nil).
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrColumnNotFound is returned when a named column is not part of the table.
var ErrColumnNotFound = errors.New("column not found")

// Table is a row-major, labelled table.
type Table struct {
	Columns []string `json:"columns"`
	Index   []any    `json:"index"`
	Data    [][]any  `json:"data"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Data)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (available: %s)", ErrColumnNotFound, name, strings.Join(t.Columns, ", "))
}

// Float returns the numeric value of a cell. Missing, non-numeric, NaN and
// infinite cells report false.
func (t *Table) Float(row, col int) (float64, bool) {
	if row < 0 || row >= len(t.Data) || col < 0 || col >= len(t.Data[row]) {
		return 0, false
	}
	var f float64
	switch v := t.Data[row][col].(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Floats returns every numeric value of the named column, skipping cells
// Float rejects.
func (t *Table) Floats(column string) ([]float64, error) {
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(t.Data))
	for row := range t.Data {
		if v, ok := t.Float(row, col); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

// FilterAbs returns the rows whose value in column has an absolute value
// strictly greater than cutoff. Non-numeric cells never pass.
func (t *Table) FilterAbs(column string, cutoff float64) (*Table, error) {
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for row := range t.Data {
		v, ok := t.Float(row, col)
		if !ok || math.Abs(v) <= cutoff {
			continue
		}
		if row < len(t.Index) {
			out.Index = append(out.Index, t.Index[row])
		}
		out.Data = append(out.Data, t.Data[row])
	}
	return out, nil
}
