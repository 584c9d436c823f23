package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/specialistvlad/proteoanalyzer/internal/table"
)

// Summary describes the DEP table before and after the fold-change cutoff.
// The log2FC statistics are computed over the significant proteins and are
// zero when there are none.
type Summary struct {
	FoldChange   float64 `json:"fold_change"`
	Log2Cutoff   float64 `json:"log2_cutoff"`
	Total        int     `json:"total"`
	Significant  int     `json:"significant"`
	Up           int     `json:"up"`
	Down         int     `json:"down"`
	MeanLog2FC   float64 `json:"mean_log2fc"`
	MedianLog2FC float64 `json:"median_log2fc"`
	StdDevLog2FC float64 `json:"stddev_log2fc"`
	MinLog2FC    float64 `json:"min_log2fc"`
	MaxLog2FC    float64 `json:"max_log2fc"`
}

// Summarize counts the DEPs of all and significant and computes log2FC
// statistics for significant.
func Summarize(all, significant *table.Table, fc, cutoff float64) (*Summary, error) {
	s := &Summary{
		FoldChange:  fc,
		Log2Cutoff:  cutoff,
		Total:       all.Len(),
		Significant: significant.Len(),
	}

	values, err := significant.Floats(Log2FCColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize DEPs: %w", err)
	}
	if len(values) == 0 {
		return s, nil
	}

	for _, v := range values {
		if v > 0 {
			s.Up++
		} else if v < 0 {
			s.Down++
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.MeanLog2FC = stat.Mean(sorted, nil)
	s.MedianLog2FC = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(sorted) > 1 {
		s.StdDevLog2FC = stat.StdDev(sorted, nil)
	}
	s.MinLog2FC = floats.Min(sorted)
	s.MaxLog2FC = floats.Max(sorted)
	return s, nil
}
