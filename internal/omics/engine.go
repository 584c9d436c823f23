package omics

import (
	"context"

	"github.com/specialistvlad/proteoanalyzer/internal/table"
)

const (
	// DPI is the resolution every figure is rendered at.
	DPI = 300
	// DefaultPalette is used when the user does not pick a palette.
	DefaultPalette = "viridis"
	// DotplotPalette colours enrichment dot plots.
	DotplotPalette = "PuBu"
	// ImageExt is the extension of every saved figure.
	ImageExt = ".tiff"
	// AnalysisORA selects over-representation analysis for enrichment.
	AnalysisORA = "ORA"
)

// LoadRequest asks the library to read a quantification export.
type LoadRequest struct {
	Path         string `json:"path"`
	Method       string `json:"method"`
	ControlGroup string `json:"control_group"`
}

// Dataset is what the library returns after reading an export. Handle
// identifies the loaded data in subsequent Plot and Enrich calls.
type Dataset struct {
	Handle       string       `json:"handle"`
	Params       *table.Table `json:"params"`
	Conditions   []string     `json:"conditions"`
	ControlGroup string       `json:"control_group"`
	QuantData    *table.Table `json:"quant_data"`
	DEPs         *table.Table `json:"deps"`
}

// PlotRequest renders one figure through a library plotting method.
type PlotRequest struct {
	Method    string   `json:"method"`
	Proteins  []string `json:"proteins,omitempty"`
	Palette   string   `json:"palette,omitempty"`
	LineWidth *float64 `json:"linewidth,omitempty"`
	DPI       int      `json:"dpi"`
	Save      string   `json:"save"`
}

// EnrichRequest runs an enrichment analysis against one database and saves
// its dot plot.
type EnrichRequest struct {
	Analysis       string `json:"analysis"`
	Database       string `json:"database"`
	DotplotPalette string `json:"dotplot_palette"`
	DPI            int    `json:"dpi"`
	SaveDotplot    string `json:"save_dotplot"`
}

// Engine is the analysis library as seen by the workflow.
type Engine interface {
	Load(ctx context.Context, req LoadRequest) (*Dataset, error)
	Plot(ctx context.Context, handle string, req PlotRequest) error
	Enrich(ctx context.Context, handle string, req EnrichRequest) (*table.Table, error)
	Close() error
}
