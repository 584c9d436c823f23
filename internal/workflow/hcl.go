// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the HCL decoding structs for workflow files. Every
// attribute is optional so that a user file only needs to mention what it
// changes; nil pointers mean "keep the default".
package workflow

import (
	"github.com/hashicorp/hcl/v2"
)

// hclFile represents the top-level structure of a workflow file for decoding.
type hclFile struct {
	Analysis    []*hclAnalysis   `hcl:"analysis,block"`
	Engine      []*hclEngine     `hcl:"engine,block"`
	Outputs     []*hclOutputs    `hcl:"outputs,block"`
	Plots       []*hclPlot       `hcl:"plot,block"`
	Enrichments []*hclEnrichment `hcl:"enrichment,block"`
}

type hclAnalysis struct {
	FoldChange        *float64 `hcl:"fold_change,optional"`
	Method            *string  `hcl:"method,optional"`
	ControlGroup      *string  `hcl:"control_group,optional"`
	DefaultPalette    *string  `hcl:"default_palette,optional"`
	DPI               *int     `hcl:"dpi,optional"`
	ContinueOnFailure *bool    `hcl:"continue_on_failure,optional"`
}

type hclEngine struct {
	Kind               *string `hcl:"kind,optional"`
	Python             *string `hcl:"python,optional"`
	URL                *string `hcl:"url,optional"`
	Namespace          *string `hcl:"namespace,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
	ConnectTimeout     *string `hcl:"connect_timeout,optional"`
	CallTimeout        *string `hcl:"call_timeout,optional"`
}

type hclOutputs struct {
	Parameters   *string `hcl:"parameters,optional"`
	Conditions   *string `hcl:"conditions,optional"`
	RawData      *string `hcl:"raw_data,optional"`
	DEPs         *string `hcl:"deps,optional"`
	FilteredDEPs *string `hcl:"filtered_deps,optional"`
	Summary      *string `hcl:"summary,optional"`
}

type hclPlot struct {
	Kind        string         `hcl:"kind,label"`
	Title       hcl.Expression `hcl:"title,optional"`
	Description *string        `hcl:"description,optional"`
	Enabled     *bool          `hcl:"enabled,optional"`
	Proteins    *[]string      `hcl:"proteins,optional"`
	Palette     *string        `hcl:"palette,optional"`
}

type hclEnrichment struct {
	Database    string         `hcl:"database,label"`
	Title       hcl.Expression `hcl:"title,optional"`
	Description *string        `hcl:"description,optional"`
}
