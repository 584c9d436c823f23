package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Default(t *testing.T) {
	// Act
	w, err := Load(context.Background(), "")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, w.Analysis.FoldChange)
	assert.Equal(t, "viridis", w.Analysis.DefaultPalette)
	assert.Equal(t, 300, w.Analysis.DPI)
	assert.False(t, w.Analysis.ContinueOnFailure)
	assert.Equal(t, EngineStdio, w.Engine.Kind)
	assert.Equal(t, "python3", w.Engine.Python)
	assert.Equal(t, 15*time.Second, w.Engine.ConnectTimeout)
	assert.Equal(t, 30*time.Minute, w.Engine.CallTimeout)
	assert.Equal(t, Outputs{
		Parameters:   "Parameters",
		Conditions:   "Study conditions",
		RawData:      "Raw data",
		DEPs:         "DEPs",
		FilteredDEPs: "Filtered DEPs",
		Summary:      "DEP summary",
	}, w.Outputs)

	wantKinds := []string{
		"id_barplot", "dynamic_range", "ma_plot", "volcano", "normalization_plot",
		"conditions_barplot", "conditions_boxplot", "expression_heatmap",
		"correlation_heatmap", "pca", "kmeans",
	}
	if diff := cmp.Diff(wantKinds, w.PlotKinds()); diff != "" {
		t.Errorf("PlotKinds() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, w.EnabledPlots(), len(wantKinds)-1)

	var databases []string
	for _, e := range w.Enrichments {
		databases = append(databases, e.Database)
	}
	wantDatabases := []string{
		"KEGG_2021_Human", "GO_Biological_Process_2025", "GO_Cellular_Component_2025",
		"GO_Molecular_Function_2025", "Reactome_Pathways_2024", "OMIM_Expanded", "DisGeNET",
	}
	if diff := cmp.Diff(wantDatabases, databases); diff != "" {
		t.Errorf("enrichment databases mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.hcl", `
analysis {
  fold_change         = 1.5
  method              = "MaxQuant"
  continue_on_failure = true
}

engine {
  kind         = "socketio"
  url          = "https://omics.example.org/socket.io/"
  call_timeout = "2m"
}

plot "pca" {
  title = "${project}-${user}-pca"
}

plot "conditions_barplot" {
  proteins = ["P1", "P2"]
  palette  = "magma"
}
`)

	// Act
	w, err := Load(context.Background(), path)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, w.Analysis.FoldChange)
	assert.Equal(t, 1.5, *w.Analysis.FoldChange)
	assert.Equal(t, "MaxQuant", w.Analysis.Method)
	assert.True(t, w.Analysis.ContinueOnFailure)
	assert.Equal(t, 300, w.Analysis.DPI, "unset fields keep their defaults")

	assert.Equal(t, EngineSocketIO, w.Engine.Kind)
	assert.Equal(t, "https://omics.example.org/socket.io/", w.Engine.URL)
	assert.Equal(t, 2*time.Minute, w.Engine.CallTimeout)
	assert.Equal(t, 15*time.Second, w.Engine.ConnectTimeout)

	require.Len(t, w.Plots, 2)
	assert.Equal(t, "pca", w.Plots[0].Kind)
	assert.Equal(t, "pca", w.Plots[0].Description)
	assert.True(t, w.Plots[0].Enabled)
	assert.Equal(t, []string{"P1", "P2"}, w.Plots[1].Proteins)
	assert.Equal(t, "magma", w.Plots[1].Palette)
	assert.Len(t, w.Enrichments, 7, "default enrichments are kept when none are declared")

	plan, err := w.Resolve(context.Background(), Vars{Project: "study", User: "ana"})
	require.NoError(t, err)
	require.Len(t, plan.Plots, 2)
	assert.Equal(t, "study-ana-pca", plan.Plots[0].Title)
	assert.Equal(t, "study_conditions_barplot", plan.Plots[1].Title)
}

func TestLoad_Directory(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeFile(t, dir, "a_engine.hcl", `engine { kind = "socketio" }`)
	writeFile(t, dir, filepath.Join("enrich", "b.hcl"), `
enrichment "KEGG_2021_Human" {}
enrichment "DisGeNET" {
  title = "${project}_diseases"
}
`)
	writeFile(t, dir, "README.txt", "not a workflow file")

	// Act
	w, err := Load(context.Background(), dir)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, EngineSocketIO, w.Engine.Kind)
	require.Len(t, w.Enrichments, 2)

	plan, err := w.Resolve(context.Background(), Vars{Project: "P"})
	require.NoError(t, err)
	assert.Equal(t, "P_KEGG_2021_Human", plan.Enrichments[0].Title)
	assert.Equal(t, "KEGG_2021_Human", plan.Enrichments[0].Description)
	assert.Equal(t, "P_diseases", plan.Enrichments[1].Title)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "duplicate analysis block",
			files: map[string]string{
				"a.hcl": `analysis { dpi = 100 }`,
				"b.hcl": `analysis { dpi = 200 }`,
			},
		},
		{
			name:  "duplicate plot",
			files: map[string]string{"a.hcl": "plot \"pca\" {}\nplot \"pca\" {}"},
		},
		{
			name:  "duplicate enrichment",
			files: map[string]string{"a.hcl": "enrichment \"DisGeNET\" {}\nenrichment \"DisGeNET\" {}"},
		},
		{
			name:  "unknown engine kind",
			files: map[string]string{"a.hcl": `engine { kind = "grpc" }`},
		},
		{
			name:  "bad duration",
			files: map[string]string{"a.hcl": `engine { call_timeout = "soon" }`},
		},
		{
			name:  "non-positive fold change",
			files: map[string]string{"a.hcl": `analysis { fold_change = 0 }`},
		},
		{
			name:  "non-positive dpi",
			files: map[string]string{"a.hcl": `analysis { dpi = 0 }`},
		},
		{
			name:  "output name with separator",
			files: map[string]string{"a.hcl": `outputs { deps = "a/b" }`},
		},
		{
			name:  "unknown attribute",
			files: map[string]string{"a.hcl": `analysis { colour = "red" }`},
		},
		{
			name:  "syntax error",
			files: map[string]string{"a.hcl": `analysis {`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}

			// Act
			_, err := Load(context.Background(), dir)

			// Assert
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestResolve_Default(t *testing.T) {
	// Arrange
	w, err := Default()
	require.NoError(t, err)

	// Act
	plan, err := w.Resolve(context.Background(), Vars{Project: "Liver", User: "ana"})

	// Assert
	require.NoError(t, err)
	var titles []string
	for _, p := range plan.Plots {
		titles = append(titles, p.Title)
	}
	assert.Contains(t, titles, "Liver_PCA")
	assert.NotContains(t, titles, "Liver_Volcano_plot", "disabled plots are not planned")
	assert.Equal(t, "Liver_KEGG_pathways", plan.Enrichments[0].Title)
	assert.Equal(t, "Liver_DisGeNET", plan.Enrichments[6].Title)
}

func TestResolve_InvalidTitles(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "separator", content: `plot "pca" { title = "${project}/pca" }`},
		{name: "empty", content: `plot "pca" { title = "" }`},
		{name: "unknown variable", content: `plot "pca" { title = "${nobody}_pca" }`},
		{name: "not a string", content: `plot "pca" { title = ["a", "b"] }`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			path := writeFile(t, t.TempDir(), "w.hcl", tc.content)
			w, err := Load(context.Background(), path)
			require.NoError(t, err)

			// Act
			_, err = w.Resolve(context.Background(), Vars{Project: "P", User: "u"})

			// Assert
			require.Error(t, err)
		})
	}
}

func TestResolve_NumericTitleIsConverted(t *testing.T) {
	path := writeFile(t, t.TempDir(), "w.hcl", `plot "pca" { title = 42 }`)
	w, err := Load(context.Background(), path)
	require.NoError(t, err)

	plan, err := w.Resolve(context.Background(), Vars{Project: "P"})

	require.NoError(t, err)
	assert.Equal(t, "42", plan.Plots[0].Title)
}
