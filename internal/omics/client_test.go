package omics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport answers each method with a canned response and records
// the encoded params it was called with.
type scriptedTransport struct {
	responses map[string]Response
	calls     []Request
	closed    bool
}

func (s *scriptedTransport) Call(ctx context.Context, method string, params any, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	s.calls = append(s.calls, Request{ID: uint64(len(s.calls) + 1), Method: method, Params: decoded})

	resp, ok := s.responses[method]
	if !ok {
		return errors.New("unexpected method " + method)
	}
	return resp.Decode(result)
}

func (s *scriptedTransport) Close() error {
	s.closed = true
	return nil
}

func TestClient_Load(t *testing.T) {
	// --- Arrange ---
	tr := &scriptedTransport{responses: map[string]Response{
		MethodLoad: {Result: json.RawMessage(`{
			"handle": "ds-1",
			"conditions": ["CTRL", "TREAT"],
			"control_group": "CTRL",
			"deps": {"columns": ["log2(fc)"], "index": ["P1"], "data": [[1.5]]}
		}`)},
	}}
	client := NewClient(tr)

	// --- Act ---
	ds, err := client.Load(context.Background(), LoadRequest{Path: "/data/x.xlsx", Method: "General", ControlGroup: "CTRL"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "ds-1", ds.Handle)
	assert.Equal(t, []string{"CTRL", "TREAT"}, ds.Conditions)
	assert.Equal(t, 1, ds.DEPs.Len())
	assert.NotNil(t, ds.Params, "missing tables are replaced by empty ones")
	assert.Equal(t, 0, ds.QuantData.Len())

	require.Len(t, tr.calls, 1)
	assert.Equal(t, map[string]any{"path": "/data/x.xlsx", "method": "General", "control_group": "CTRL"}, tr.calls[0].Params)
}

func TestClient_LoadWithoutHandle(t *testing.T) {
	tr := &scriptedTransport{responses: map[string]Response{MethodLoad: {Result: json.RawMessage(`{}`)}}}

	_, err := NewClient(tr).Load(context.Background(), LoadRequest{})

	require.ErrorContains(t, err, "no dataset handle")
}

func TestClient_PlotFlattensParams(t *testing.T) {
	tr := &scriptedTransport{responses: map[string]Response{MethodPlot: {}}}
	width := 0.0

	err := NewClient(tr).Plot(context.Background(), "ds-1", PlotRequest{
		Method:    "heatmap",
		LineWidth: &width,
		DPI:       DPI,
		Save:      "/p/plots/x_Heatmap.tiff",
	})

	require.NoError(t, err)
	params := tr.calls[0].Params.(map[string]any)
	assert.Equal(t, "ds-1", params["handle"])
	assert.Equal(t, "heatmap", params["method"])
	assert.Equal(t, 0.0, params["linewidth"])
	assert.Equal(t, float64(DPI), params["dpi"])
	assert.NotContains(t, params, "proteins")
	assert.NotContains(t, params, "palette")
}

func TestClient_RemoteError(t *testing.T) {
	tr := &scriptedTransport{responses: map[string]Response{MethodEnrich: {Error: "KeyError: 'gene_name'"}}}

	_, err := NewClient(tr).Enrich(context.Background(), "ds-1", EnrichRequest{Analysis: AnalysisORA, Database: "KEGG_2021_Human"})

	require.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "KeyError: 'gene_name'")
	assert.Contains(t, err.Error(), "KEGG_2021_Human")
}

func TestClient_EnrichResults(t *testing.T) {
	tr := &scriptedTransport{responses: map[string]Response{
		MethodEnrich: {Result: json.RawMessage(`{"results": {"columns": ["Term", "Adjusted P-value"], "index": [0], "data": [["Complement cascade", 0.0004]]}}`)},
	}}
	client := NewClient(tr)

	res, err := client.Enrich(context.Background(), "ds-1", EnrichRequest{Analysis: AnalysisORA, Database: "Reactome_Pathways_2024"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Term", "Adjusted P-value"}, res.Columns)
	require.NoError(t, client.Close())
	assert.True(t, tr.closed)
}
