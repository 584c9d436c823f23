package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
)

// ErrInvalidTitle is returned when a resolved title cannot be used as a file name.
var ErrInvalidTitle = errors.New("invalid title")

// Vars are the per-session values available to title expressions as
// `project` and `user`.
type Vars struct {
	Project string
	User    string
}

// Plan is a workflow with every title evaluated for one session.
type Plan struct {
	Analysis    Analysis
	Engine      Engine
	Outputs     Outputs
	Plots       []PlannedPlot
	Enrichments []PlannedEnrichment
}

// PlannedPlot is an enabled plot with its file title.
type PlannedPlot struct {
	*Plot
	Title string
}

// PlannedEnrichment is an enrichment database with its file title.
type PlannedEnrichment struct {
	*Enrichment
	Title string
}

// Resolve evaluates titles against vars. Disabled plots are left out.
func (w *Workflow) Resolve(ctx context.Context, vars Vars) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project": cty.StringVal(vars.Project),
			"user":    cty.StringVal(vars.User),
		},
	}

	plan := &Plan{
		Analysis: w.Analysis,
		Engine:   w.Engine,
		Outputs:  w.Outputs,
	}

	for _, p := range w.EnabledPlots() {
		title, err := evalTitle(p.title, evalCtx, vars.Project+"_"+p.Kind)
		if err != nil {
			return nil, fmt.Errorf("plot %q (%s): %w", p.Kind, p.source, err)
		}
		logger.Debug("Resolved plot title.", "kind", p.Kind, "title", title)
		plan.Plots = append(plan.Plots, PlannedPlot{Plot: p, Title: title})
	}
	for _, e := range w.Enrichments {
		title, err := evalTitle(e.title, evalCtx, vars.Project+"_"+e.Database)
		if err != nil {
			return nil, fmt.Errorf("enrichment %q (%s): %w", e.Database, e.source, err)
		}
		logger.Debug("Resolved enrichment title.", "database", e.Database, "title", title)
		plan.Enrichments = append(plan.Enrichments, PlannedEnrichment{Enrichment: e, Title: title})
	}
	return plan, nil
}

// evalTitle evaluates expr to a string. An absent or null title yields fallback.
func evalTitle(expr hcl.Expression, evalCtx *hcl.EvalContext, fallback string) (string, error) {
	if expr == nil {
		return fallback, checkFileName(fallback)
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to evaluate title: %w", diags)
	}
	if val.IsNull() {
		return fallback, checkFileName(fallback)
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("%w: title is not known", ErrInvalidTitle)
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%w: cannot convert %s to string: %v", ErrInvalidTitle, val.Type().FriendlyName(), err)
	}
	title := str.AsString()
	return title, checkFileName(title)
}

func checkFileName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidTitle)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidTitle, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidTitle, name)
	}
	return nil
}
