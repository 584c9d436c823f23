// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Workflow structure: the analysis parameters, the
// analysis engine connection, the output file names, and the ordered lists of
// figures and enrichment databases a session walks through.
//
// Titles are kept as raw hcl.Expression values. They reference the project
// and user names, which are only known once the session has prompted for
// them, so they are evaluated per session by Resolve.
package workflow

import (
	"time"

	"github.com/hashicorp/hcl/v2"
)

// Engine kinds.
const (
	EngineStdio    = "stdio"
	EngineSocketIO = "socketio"
)

// Workflow is the fully merged workflow definition.
type Workflow struct {
	Analysis    Analysis
	Engine      Engine
	Outputs     Outputs
	Plots       []*Plot
	Enrichments []*Enrichment
}

// Analysis holds the session parameters. Zero values mean "ask the user".
type Analysis struct {
	FoldChange        *float64
	Method            string
	ControlGroup      string
	DefaultPalette    string
	DPI               int
	ContinueOnFailure bool
}

// Engine selects and configures the analysis library binding.
type Engine struct {
	Kind               string
	Python             string
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
	CallTimeout        time.Duration
}

// Outputs names the fixed tables and documents of a session (without extension).
type Outputs struct {
	Parameters   string
	Conditions   string
	RawData      string
	DEPs         string
	FilteredDEPs string
	Summary      string
}

// Plot is one `plot "<kind>"` block.
type Plot struct {
	Kind        string
	Description string
	Enabled     bool
	// Proteins and Palette skip the corresponding prompts when set.
	Proteins []string
	Palette  string

	title  hcl.Expression
	source string
}

// Enrichment is one `enrichment "<database>"` block.
type Enrichment struct {
	Database    string
	Description string

	title  hcl.Expression
	source string
}

// PlotKinds returns the kinds of every plot block, enabled or not.
func (w *Workflow) PlotKinds() []string {
	kinds := make([]string, len(w.Plots))
	for i, p := range w.Plots {
		kinds[i] = p.Kind
	}
	return kinds
}

// EnabledPlots returns the plots a session renders, in workflow order.
func (w *Workflow) EnabledPlots() []*Plot {
	var plots []*Plot
	for _, p := range w.Plots {
		if p.Enabled {
			plots = append(plots, p)
		}
	}
	return plots
}
