package testutil

import (
	"github.com/specialistvlad/proteoanalyzer/internal/omics"
	"github.com/specialistvlad/proteoanalyzer/internal/table"
)

// SampleDataset returns a small dataset with five DEPs whose log2(fc)
// values are 2.0, -1.2, 0.3, -0.1 and 0.9.
func SampleDataset() *omics.Dataset {
	return &omics.Dataset{
		Handle: FakeHandle,
		Params: &table.Table{
			Columns: []string{"0"},
			Index:   []any{"Method", "ControlGroup"},
			Data:    [][]any{{"General"}, {"CTRL"}},
		},
		Conditions:   []string{"CTRL", "TREAT"},
		ControlGroup: "CTRL",
		QuantData: &table.Table{
			Columns: []string{"Accession", "CTRL.1", "TREAT.1"},
			Index:   []any{0.0, 1.0},
			Data:    [][]any{{"P01", 10.5, 12.1}, {"P02", 8.0, 7.5}},
		},
		DEPs: &table.Table{
			Columns: []string{"Accession", "log2(fc)", "pvalue"},
			Index:   []any{0.0, 1.0, 2.0, 3.0, 4.0},
			Data: [][]any{
				{"P01", 2.0, 0.001},
				{"P02", -1.2, 0.01},
				{"P03", 0.3, 0.2},
				{"P04", -0.1, 0.5},
				{"P05", 0.9, 0.04},
			},
		},
	}
}

// SampleEnrichment returns a one-row ORA result for database.
func SampleEnrichment(database string) *table.Table {
	return &table.Table{
		Columns: []string{"Term", "Adjusted P-value", "Database"},
		Index:   []any{0.0},
		Data:    [][]any{{"Term 1", 0.01, database}},
	}
}
