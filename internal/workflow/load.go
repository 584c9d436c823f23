// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file loads workflow files. The embedded default workflow is decoded
// first; user files found under the -workflow path are layered on top of it.
package workflow

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
	"github.com/specialistvlad/proteoanalyzer/internal/fsutil"
)

//go:embed default.hcl
var defaultHCL []byte

const defaultFileName = "default.hcl"

// Default returns the embedded default workflow.
func Default() (*Workflow, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(defaultHCL, defaultFileName)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse embedded workflow: %w", diags)
	}
	parsed, err := decode(hclFile, defaultFileName)
	if err != nil {
		return nil, err
	}

	w := &Workflow{}
	if err := w.apply([]*fileBlocks{parsed}); err != nil {
		return nil, err
	}
	return w, w.validate()
}

// Load returns the default workflow overlaid with the .hcl files found at
// path. An empty path yields the default workflow.
func Load(ctx context.Context, path string) (*Workflow, error) {
	logger := ctxlog.FromContext(ctx)

	w, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Debug("No workflow path given, using the embedded workflow.")
		return w, nil
	}

	files, err := workflowFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading workflow files.", "path", path, "count", len(files))

	parser := hclparse.NewParser()
	var parsed []*fileBlocks
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		blocks, err := decode(hclFile, file)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, blocks)
	}

	if err := w.apply(parsed); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	logger.Info("Workflow loaded.", "plots", len(w.EnabledPlots()), "enrichments", len(w.Enrichments), "engine", w.Engine.Kind)
	return w, nil
}

func workflowFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find workflow files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl workflow files found in %s", path)
	}
	return files, nil
}

// fileBlocks is the decoded content of one file, remembering where it came from.
type fileBlocks struct {
	source string
	hclFile
}

func decode(file *hcl.File, source string) (*fileBlocks, error) {
	blocks := &fileBlocks{source: source}
	if diags := gohcl.DecodeBody(file.Body, nil, &blocks.hclFile); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", source, diags)
	}
	return blocks, nil
}

// apply overlays decoded files onto w.
func (w *Workflow) apply(files []*fileBlocks) error {
	var (
		analysisFrom, engineFrom, outputsFrom string
		plots                                 []*Plot
		enrichments                           []*Enrichment
	)

	for _, f := range files {
		for _, a := range f.Analysis {
			if analysisFrom != "" {
				return fmt.Errorf("duplicate analysis block in %s (already defined in %s)", f.source, analysisFrom)
			}
			analysisFrom = f.source
			w.Analysis.apply(a)
		}
		for _, e := range f.Engine {
			if engineFrom != "" {
				return fmt.Errorf("duplicate engine block in %s (already defined in %s)", f.source, engineFrom)
			}
			engineFrom = f.source
			if err := w.Engine.apply(e); err != nil {
				return fmt.Errorf("invalid engine block in %s: %w", f.source, err)
			}
		}
		for _, o := range f.Outputs {
			if outputsFrom != "" {
				return fmt.Errorf("duplicate outputs block in %s (already defined in %s)", f.source, outputsFrom)
			}
			outputsFrom = f.source
			w.Outputs.apply(o)
		}
		for _, p := range f.Plots {
			plots = append(plots, newPlot(p, f.source))
		}
		for _, e := range f.Enrichments {
			enrichments = append(enrichments, newEnrichment(e, f.source))
		}
	}

	if len(plots) > 0 {
		seen := make(map[string]string)
		for _, p := range plots {
			if first, ok := seen[p.Kind]; ok {
				return fmt.Errorf("duplicate plot %q in %s (already defined in %s)", p.Kind, p.source, first)
			}
			seen[p.Kind] = p.source
		}
		w.Plots = plots
	}
	if len(enrichments) > 0 {
		seen := make(map[string]string)
		for _, e := range enrichments {
			if first, ok := seen[e.Database]; ok {
				return fmt.Errorf("duplicate enrichment %q in %s (already defined in %s)", e.Database, e.source, first)
			}
			seen[e.Database] = e.source
		}
		w.Enrichments = enrichments
	}
	return nil
}

func (a *Analysis) apply(h *hclAnalysis) {
	if h.FoldChange != nil {
		fc := *h.FoldChange
		a.FoldChange = &fc
	}
	setString(&a.Method, h.Method)
	setString(&a.ControlGroup, h.ControlGroup)
	setString(&a.DefaultPalette, h.DefaultPalette)
	if h.DPI != nil {
		a.DPI = *h.DPI
	}
	if h.ContinueOnFailure != nil {
		a.ContinueOnFailure = *h.ContinueOnFailure
	}
}

func (e *Engine) apply(h *hclEngine) error {
	setString(&e.Kind, h.Kind)
	setString(&e.Python, h.Python)
	setString(&e.URL, h.URL)
	setString(&e.Namespace, h.Namespace)
	if h.InsecureSkipVerify != nil {
		e.InsecureSkipVerify = *h.InsecureSkipVerify
	}
	if err := setDuration(&e.ConnectTimeout, h.ConnectTimeout, "connect_timeout"); err != nil {
		return err
	}
	return setDuration(&e.CallTimeout, h.CallTimeout, "call_timeout")
}

func (o *Outputs) apply(h *hclOutputs) {
	setString(&o.Parameters, h.Parameters)
	setString(&o.Conditions, h.Conditions)
	setString(&o.RawData, h.RawData)
	setString(&o.DEPs, h.DEPs)
	setString(&o.FilteredDEPs, h.FilteredDEPs)
	setString(&o.Summary, h.Summary)
}

func newPlot(h *hclPlot, source string) *Plot {
	p := &Plot{
		Kind:        h.Kind,
		Description: h.Kind,
		Enabled:     true,
		title:       h.Title,
		source:      source,
	}
	setString(&p.Description, h.Description)
	if h.Enabled != nil {
		p.Enabled = *h.Enabled
	}
	if h.Proteins != nil {
		p.Proteins = append([]string{}, (*h.Proteins)...)
	}
	setString(&p.Palette, h.Palette)
	return p
}

func newEnrichment(h *hclEnrichment, source string) *Enrichment {
	e := &Enrichment{
		Database:    h.Database,
		Description: h.Database,
		title:       h.Title,
		source:      source,
	}
	setString(&e.Description, h.Description)
	return e
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, name string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func (w *Workflow) validate() error {
	var errs []error
	if fc := w.Analysis.FoldChange; fc != nil && (*fc <= 0 || math.IsInf(*fc, 0) || math.IsNaN(*fc)) {
		errs = append(errs, fmt.Errorf("analysis.fold_change must be a positive number, got %v", *fc))
	}
	if w.Analysis.DPI <= 0 {
		errs = append(errs, fmt.Errorf("analysis.dpi must be positive, got %d", w.Analysis.DPI))
	}
	switch w.Engine.Kind {
	case EngineStdio, EngineSocketIO:
	default:
		errs = append(errs, fmt.Errorf("engine.kind must be %q or %q, got %q", EngineStdio, EngineSocketIO, w.Engine.Kind))
	}
	for name, value := range map[string]string{
		"outputs.parameters":    w.Outputs.Parameters,
		"outputs.conditions":    w.Outputs.Conditions,
		"outputs.raw_data":      w.Outputs.RawData,
		"outputs.deps":          w.Outputs.DEPs,
		"outputs.filtered_deps": w.Outputs.FilteredDEPs,
		"outputs.summary":       w.Outputs.Summary,
	} {
		if err := checkFileName(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
