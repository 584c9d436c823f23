package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
	"github.com/specialistvlad/proteoanalyzer/internal/dataset"
	"github.com/specialistvlad/proteoanalyzer/internal/omics"
	"github.com/specialistvlad/proteoanalyzer/internal/project"
	"github.com/specialistvlad/proteoanalyzer/internal/prompt"
	"github.com/specialistvlad/proteoanalyzer/internal/registry"
	"github.com/specialistvlad/proteoanalyzer/internal/table"
	"github.com/specialistvlad/proteoanalyzer/internal/workflow"
)

const (
	questionDataset  = "Enter the path of the proteomics spreadsheet (include the file extension):"
	questionControl  = "Enter the name of the control group, exactly as it appears in the spreadsheet:"
	questionFC       = "Enter the fold change used to compute the DEP cutoff (1, 1.25, 1.5, 1.75, 2):"
	questionProteins = "Enter the proteins to highlight in the plot, separated by commas. They must be written exactly as in the table:"
	questionPalette  = "Enter the palette to use (press enter for the default palette):"
)

// Session runs the analysis steps for one project. All fields except
// Progress and OnStep are required.
type Session struct {
	Prompt   *prompt.Prompter
	Engine   omics.Engine
	Registry *registry.Registry
	Plan     *workflow.Plan
	Layout   *project.Layout
	// Progress draws the enrichment phase. Nil means NoProgress.
	Progress ProgressFactory
	// OnStep is called with the name of every step as it starts and as it
	// completes. Nil is allowed.
	OnStep func(step string, done bool)
}

// Result is what a completed session produced.
type Result struct {
	Dataset string
	Method  dataset.Method
	Summary *Summary
	// Failed lists the plot and enrichment steps skipped under continue_on_failure.
	Failed []string
}

// Run executes the session.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	res := &Result{}

	path, err := s.askDataset(ctx, logger)
	if err != nil {
		return nil, err
	}
	res.Dataset = path

	method, err := s.askMethod(ctx, logger)
	if err != nil {
		return nil, err
	}
	res.Method = method

	control := s.Plan.Analysis.ControlGroup
	if control == "" {
		control, err = s.Prompt.AskRequired(ctx, questionControl, "Enter a control group to continue.")
		if err != nil {
			return nil, err
		}
	}

	data, err := s.load(ctx, logger, path, method, control)
	if err != nil {
		return nil, err
	}

	if err := s.writeTables(ctx, logger, data); err != nil {
		return nil, err
	}

	summary, err := s.filterDEPs(ctx, logger, data.DEPs)
	if err != nil {
		return nil, err
	}
	res.Summary = summary

	failed, err := s.plot(ctx, logger, data.Handle)
	if err != nil {
		return nil, err
	}
	res.Failed = append(res.Failed, failed...)

	failed, err = s.enrich(ctx, logger, data.Handle)
	if err != nil {
		return nil, err
	}
	res.Failed = append(res.Failed, failed...)

	if len(res.Failed) > 0 {
		s.warn(logger, fmt.Sprintf("Analysis completed with %d failed step(s): %s", len(res.Failed), strings.Join(res.Failed, ", ")))
	} else {
		s.say(logger, "Analysis completed successfully!")
	}
	return res, nil
}

func (s *Session) askDataset(ctx context.Context, logger *slog.Logger) (string, error) {
	for {
		raw, err := s.Prompt.Ask(ctx, questionDataset)
		if err != nil {
			return "", err
		}
		path, err := dataset.Validate(raw)
		if err == nil {
			logger.Info("Dataset selected.", "path", path)
			return path, nil
		}
		s.Prompt.Printf("Error: %v\n", err)
		logger.Error("Invalid dataset path.", "path", path, "error", err)
	}
}

func (s *Session) askMethod(ctx context.Context, logger *slog.Logger) (dataset.Method, error) {
	raw := s.Plan.Analysis.Method
	if raw == "" {
		var err error
		raw, err = s.Prompt.Ask(ctx, fmt.Sprintf("Enter the software used to process the raw data (%s):", dataset.MethodList()))
		if err != nil {
			return "", err
		}
	}
	method, known := dataset.ParseMethod(raw)
	if !known {
		s.Prompt.Printf("Warning: method '%s' may not be recognized. Valid methods: %s\n", method, dataset.MethodList())
		logger.Warn("Possibly invalid proteomics method.", "method", method)
	}
	return method, nil
}

func (s *Session) load(ctx context.Context, logger *slog.Logger, path string, method dataset.Method, control string) (*omics.Dataset, error) {
	s.step("load", false)
	s.say(logger, "Reading the data file...")
	data, err := s.Engine.Load(ctx, omics.LoadRequest{
		Path:         path,
		Method:       string(method),
		ControlGroup: control,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read the proteomics file: %w", err)
	}
	logger.Info("Data file read successfully.", "conditions", data.Conditions, "control", data.ControlGroup)
	s.step("load", true)
	return data, nil
}

// conditions is the study conditions document.
type conditions struct {
	Conditions []string `json:"conditions"`
	Control    string   `json:"control"`
}

func (s *Session) writeTables(ctx context.Context, logger *slog.Logger, data *omics.Dataset) error {
	s.step("tables", false)
	out := s.Plan.Outputs
	dir := s.Layout.Tables

	s.say(logger, "Creating parameters table...")
	if _, err := data.Params.WriteXLSX(dir, out.Parameters); err != nil {
		return err
	}

	s.say(logger, "Creating study conditions file...")
	if _, err := table.WriteJSON(dir, out.Conditions, conditions{
		Conditions: data.Conditions,
		Control:    data.ControlGroup,
	}); err != nil {
		return err
	}

	s.say(logger, "Creating raw data table...")
	if _, err := data.QuantData.WriteXLSX(dir, out.RawData); err != nil {
		return err
	}

	s.say(logger, "Creating DEPs table...")
	if _, err := data.DEPs.WriteXLSX(dir, out.DEPs); err != nil {
		return err
	}
	s.step("tables", true)
	return ctx.Err()
}

func (s *Session) askFoldChange(ctx context.Context, logger *slog.Logger) (float64, float64, error) {
	if fc := s.Plan.Analysis.FoldChange; fc != nil {
		return checkFoldChange(*fc)
	}
	for {
		raw, err := s.Prompt.Ask(ctx, questionFC)
		if err != nil {
			return 0, 0, err
		}
		if raw == "" {
			s.Prompt.Println("Enter a fold change value to continue.")
			logger.Warn("No fold change entered.")
			continue
		}
		fc, cutoff, err := ParseFoldChange(raw)
		if err == nil {
			return fc, cutoff, nil
		}
		s.Prompt.Printf("Error: %v\n", err)
		logger.Error("Invalid fold change.", "input", raw, "error", err)
	}
}

func (s *Session) filterDEPs(ctx context.Context, logger *slog.Logger, deps *table.Table) (*Summary, error) {
	fc, cutoff, err := s.askFoldChange(ctx, logger)
	if err != nil {
		return nil, err
	}

	s.step("filter", false)
	filtered, err := deps.FilterAbs(Log2FCColumn, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to filter DEPs: %w", err)
	}
	if _, err := filtered.WriteXLSX(s.Layout.Tables, s.Plan.Outputs.FilteredDEPs); err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("DEPs filtered with |log2(fc)| > %.2f", cutoff), "fold_change", fc, "kept", filtered.Len(), "total", deps.Len())

	summary, err := Summarize(deps, filtered, fc, cutoff)
	if err != nil {
		return nil, err
	}
	if _, err := table.WriteJSON(s.Layout.Tables, s.Plan.Outputs.Summary, summary); err != nil {
		return nil, err
	}
	s.Prompt.Printf("%d of %d proteins pass the cutoff (%d up, %d down).\n", summary.Significant, summary.Total, summary.Up, summary.Down)
	s.step("filter", true)
	return summary, ctx.Err()
}

func (s *Session) plot(ctx context.Context, logger *slog.Logger, handle string) ([]string, error) {
	if len(s.Plan.Plots) == 0 {
		return nil, nil
	}
	s.say(logger, "Generating plots...")

	var failed []string
	for _, p := range s.Plan.Plots {
		step := "plot:" + p.Kind
		kind, ok := s.Registry.Plot(p.Kind)
		if !ok {
			return nil, fmt.Errorf("plot %q is not a registered plot kind", p.Kind)
		}

		req, err := s.plotRequest(ctx, p, kind)
		if err != nil {
			return nil, err
		}

		s.step(step, false)
		s.say(logger, fmt.Sprintf("Generating %s...", p.Description))
		if err := s.Engine.Plot(ctx, handle, req); err != nil {
			if err := s.stepFailed(ctx, logger, step, fmt.Errorf("failed to generate %s: %w", p.Description, err)); err != nil {
				return nil, err
			}
			failed = append(failed, step)
			continue
		}
		logger.Info("Plot saved.", "kind", p.Kind, "path", req.Save)
		s.step(step, true)
	}

	s.say(logger, "Plotting finished.")
	return failed, nil
}

func (s *Session) plotRequest(ctx context.Context, p workflow.PlannedPlot, kind *registry.PlotKind) (omics.PlotRequest, error) {
	req := omics.PlotRequest{
		Method:    kind.Method,
		LineWidth: kind.LineWidth,
		DPI:       s.Plan.Analysis.DPI,
		Save:      filepath.Join(s.Layout.Plots, p.Title+omics.ImageExt),
	}

	if kind.NeedsProteins {
		req.Proteins = p.Proteins
		if req.Proteins == nil {
			proteins, err := s.Prompt.AskList(ctx, questionProteins)
			if err != nil {
				return req, err
			}
			req.Proteins = proteins
		}
	}

	if kind.NeedsPalette {
		req.Palette = p.Palette
		if req.Palette == "" {
			palette, err := s.Prompt.Ask(ctx, questionPalette)
			if err != nil {
				return req, err
			}
			req.Palette = strings.ToLower(palette)
		}
		if req.Palette == "" {
			req.Palette = s.Plan.Analysis.DefaultPalette
		}
	}
	return req, nil
}

func (s *Session) enrich(ctx context.Context, logger *slog.Logger, handle string) ([]string, error) {
	if len(s.Plan.Enrichments) == 0 {
		return nil, nil
	}
	s.say(logger, "Starting data enrichment...")

	newProgress := s.Progress
	if newProgress == nil {
		newProgress = NoProgress
	}
	bar := newProgress("Enrichment", len(s.Plan.Enrichments))

	var failed []string
	for _, e := range s.Plan.Enrichments {
		step := "enrichment:" + e.Database
		s.step(step, false)
		bar.Describe(e.Description)
		s.say(logger, fmt.Sprintf("Starting analysis: %s...", e.Description))

		if err := s.enrichOne(ctx, handle, e); err != nil {
			if err := s.stepFailed(ctx, logger, step, err); err != nil {
				_ = bar.Finish()
				return nil, err
			}
			failed = append(failed, step)
		} else {
			s.say(logger, fmt.Sprintf("Analysis %s finished.", e.Description))
			s.step(step, true)
		}
		if err := bar.Add(1); err != nil {
			logger.Debug("Failed to update progress bar.", "error", err)
		}
	}
	if err := bar.Finish(); err != nil {
		logger.Debug("Failed to finish progress bar.", "error", err)
	}

	s.say(logger, "Data enrichment finished.")
	return failed, nil
}

func (s *Session) enrichOne(ctx context.Context, handle string, e workflow.PlannedEnrichment) error {
	results, err := s.Engine.Enrich(ctx, handle, omics.EnrichRequest{
		Analysis:       omics.AnalysisORA,
		Database:       e.Database,
		DotplotPalette: omics.DotplotPalette,
		DPI:            s.Plan.Analysis.DPI,
		SaveDotplot:    filepath.Join(s.Layout.Plots, e.Title+omics.ImageExt),
	})
	if err != nil {
		return fmt.Errorf("enrichment against %s failed: %w", e.Database, err)
	}
	if _, err := results.WriteXLSX(s.Layout.Tables, e.Title); err != nil {
		return err
	}
	return nil
}

// stepFailed decides whether a failed plot or enrichment aborts the session.
// Cancellation always does.
func (s *Session) stepFailed(ctx context.Context, logger *slog.Logger, step string, err error) error {
	if !s.Plan.Analysis.ContinueOnFailure || ctx.Err() != nil || errors.Is(err, prompt.ErrInputClosed) {
		return err
	}
	s.Prompt.Printf("Error: %v. Skipping.\n", err)
	logger.Error("Step failed, continuing.", "step", step, "error", err)
	return nil
}

func (s *Session) say(logger *slog.Logger, msg string) {
	s.Prompt.Println(msg)
	logger.Info(msg)
}

func (s *Session) warn(logger *slog.Logger, msg string) {
	s.Prompt.Println(msg)
	logger.Warn(msg)
}

func (s *Session) step(name string, done bool) {
	if s.OnStep != nil {
		s.OnStep(name, done)
	}
}
