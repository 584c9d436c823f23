// Package omicscope registers the figures the OmicScope library can render.
package omicscope

import "github.com/specialistvlad/proteoanalyzer/internal/registry"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Plot kind names, as used in workflow files.
const (
	IDBarplot          = "id_barplot"
	DynamicRange       = "dynamic_range"
	MAPlot             = "ma_plot"
	NormalizationPlot  = "normalization_plot"
	ConditionsBarplot  = "conditions_barplot"
	ConditionsBoxplot  = "conditions_boxplot"
	ExpressionHeatmap  = "expression_heatmap"
	CorrelationHeatmap = "correlation_heatmap"
	PCA                = "pca"
	KMeans             = "kmeans"
	Volcano            = "volcano"
)

// Heatmaps are drawn without cell borders.
var noLines = 0.0

// Kinds returns every plot kind the library offers.
func Kinds() []*registry.PlotKind {
	return []*registry.PlotKind{
		{Name: IDBarplot, Method: "bar_ident"},
		{Name: DynamicRange, Method: "DynamicRange", NeedsProteins: true},
		{Name: MAPlot, Method: "MAplot", NeedsProteins: true},
		{Name: NormalizationPlot, Method: "normalization_boxplot"},
		{Name: ConditionsBarplot, Method: "bar_protein", NeedsProteins: true, NeedsPalette: true},
		{Name: ConditionsBoxplot, Method: "boxplot_protein", NeedsProteins: true, NeedsPalette: true},
		{Name: ExpressionHeatmap, Method: "heatmap", LineWidth: &noLines},
		{Name: CorrelationHeatmap, Method: "correlation", LineWidth: &noLines},
		{Name: PCA, Method: "pca"},
		{Name: KMeans, Method: "k_trend"},
		{Name: Volcano, Method: "volcano"},
	}
}

// Register registers the plot kinds with the engine.
func (m *Module) Register(r *registry.Registry) {
	for _, kind := range Kinds() {
		r.RegisterPlot(kind)
	}
}
