package system

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/proteoanalyzer/internal/app"
	"github.com/specialistvlad/proteoanalyzer/internal/omics"
	"github.com/specialistvlad/proteoanalyzer/internal/table"
	"github.com/specialistvlad/proteoanalyzer/internal/testutil"
	"github.com/specialistvlad/proteoanalyzer/internal/workflow"
)

func newApp(t *testing.T, cfg *app.Config, lib *loopbackLibrary, answers ...string) (*app.App, *testutil.SafeBuffer) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	a := app.NewApp(testutil.Input(answers...), out, cfg,
		app.WithLogOutput(&testutil.SafeBuffer{}),
		app.WithEngineFactory(func(context.Context, workflow.Engine) (omics.Engine, error) {
			return omics.NewClient(lib), nil
		}),
	)
	return a, out
}

// Test for: the default workflow end to end through the wire protocol
func TestEndToEnd_DefaultWorkflow(t *testing.T) {
	// --- Arrange ---
	target := t.TempDir()
	dataset := filepath.Join(t.TempDir(), "proteinGroups.txt")
	require.NoError(t, os.WriteFile(dataset, []byte("quantification"), 0o600))
	lib := newLoopbackLibrary()

	a, out := newApp(t, &app.Config{}, lib,
		"ana", "Liver", target,
		dataset, "MaxQuant", "CTRL", "1.5",
		"P01", "P02", "P01,P02", "", "P03", "",
		"n",
	)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err, out.String())
	assert.True(t, lib.closed)

	want := []string{
		"load",
		"plot:bar_ident", "plot:DynamicRange", "plot:MAplot", "plot:normalization_boxplot",
		"plot:bar_protein", "plot:boxplot_protein", "plot:heatmap", "plot:correlation",
		"plot:pca", "plot:k_trend",
		"enrich:KEGG_2021_Human", "enrich:GO_Biological_Process_2025", "enrich:GO_Cellular_Component_2025",
		"enrich:GO_Molecular_Function_2025", "enrich:Reactome_Pathways_2024", "enrich:OMIM_Expanded",
		"enrich:DisGeNET",
	}
	if diff := cmp.Diff(want, lib.methods()); diff != "" {
		t.Errorf("library calls mismatch (-want +got):\n%s", diff)
	}

	root := filepath.Join(target, "Liver")
	plots, err := os.ReadDir(filepath.Join(root, "plots"))
	require.NoError(t, err)
	assert.Len(t, plots, 10+7)

	rows, err := table.ReadXLSX(filepath.Join(root, "tables", "Liver_GO_BP.xlsx"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "GO_Biological_Process_2025", rows[1][3])

	raw, err := os.ReadFile(filepath.Join(root, "tables", "DEP summary.json"))
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, 1.5, summary["fold_change"])
	assert.Equal(t, 3.0, summary["significant"])

	log, err := os.ReadFile(filepath.Join(root, "Liver.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "Data enrichment finished.")
	assert.True(t, strings.HasSuffix(out.String(), "Exiting...\n"))
}

// Test for: library errors surface as session errors and the loop restarts
func TestEndToEnd_LibraryErrorRestartsSession(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	wf := filepath.Join(dir, "flow.hcl")
	require.NoError(t, os.WriteFile(wf, []byte(`
analysis {
  fold_change   = 2
  method        = "General"
  control_group = "CTRL"
}
plot "pca" {}
plot "kmeans" {}
enrichment "DisGeNET" {}
`), 0o600))
	dataset := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(dataset, []byte("quantification"), 0o600))

	lib := newLoopbackLibrary()
	lib.failures["k_trend"] = "ValueError: n_clusters must be <= n_samples"

	a, out := newApp(t, &app.Config{WorkflowPath: wf}, lib,
		"ana", "Liver", dir, dataset,
	)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Unexpected error: failed to generate kmeans")
	assert.Contains(t, out.String(), "ValueError: n_clusters must be <= n_samples")
	assert.Equal(t, []string{"load", "plot:pca", "plot:k_trend"}, lib.methods())
}
