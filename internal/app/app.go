package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/specialistvlad/proteoanalyzer/internal/analysis"
	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
	"github.com/specialistvlad/proteoanalyzer/internal/prompt"
	"github.com/specialistvlad/proteoanalyzer/internal/registry"
	"github.com/specialistvlad/proteoanalyzer/internal/workflow"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	prompt    *prompt.Prompter
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	workflow  *workflow.Workflow
	newEngine EngineFactory
	progress  analysis.ProgressFactory
	now       func() time.Time

	status     *status
	httpServer *http.Server
}

type options struct {
	logW      io.Writer
	modules   []registry.Module
	newEngine EngineFactory
	progress  analysis.ProgressFactory
	now       func() time.Time
}

// Option customizes an App.
type Option func(*options)

// WithLogOutput sends application logs to w instead of the console writer.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logW = w }
}

// WithModules replaces the compiled-in modules.
func WithModules(modules ...registry.Module) Option {
	return func(o *options) { o.modules = modules }
}

// WithEngineFactory replaces NewEngine.
func WithEngineFactory(f EngineFactory) Option {
	return func(o *options) { o.newEngine = f }
}

// WithProgress draws the enrichment phase with f.
func WithProgress(f analysis.ProgressFactory) Option {
	return func(o *options) { o.progress = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewApp is the constructor for the main application. Questions are read from
// in and everything meant for the user is written to outW. An invalid
// workflow is a fatal startup error and panics.
func NewApp(in io.Reader, outW io.Writer, cfg *Config, opts ...Option) *App {
	o := &options{
		logW:      outW,
		modules:   coreModules,
		newEngine: NewEngine,
		progress:  analysis.NoProgress,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, o.logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	for _, mod := range o.modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(o.modules), "plots", reg.PlotNames())

	wf, err := workflow.Load(ctx, cfg.WorkflowPath)
	if err != nil {
		panic(fmt.Errorf("failed to load workflow: %w", err))
	}
	applyEngineOverrides(&wf.Engine, cfg)

	if err := reg.ValidatePlots(wf.PlotKinds()); err != nil {
		panic(fmt.Errorf("invalid workflow: %w", err))
	}
	logger.Debug("Workflow validation passed.", "engine", wf.Engine.Kind)

	return &App{
		prompt:    prompt.New(in, outW),
		logger:    logger,
		config:    cfg,
		registry:  reg,
		workflow:  wf,
		newEngine: o.newEngine,
		progress:  o.progress,
		now:       o.now,
		status:    &status{},
	}
}

func applyEngineOverrides(e *workflow.Engine, cfg *Config) {
	if cfg.EngineKind != "" {
		e.Kind = cfg.EngineKind
	}
	if cfg.PythonPath != "" {
		e.Python = cfg.PythonPath
	}
	if cfg.EngineURL != "" {
		e.URL = cfg.EngineURL
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Workflow returns the loaded workflow. This is primarily for testing.
func (a *App) Workflow() *workflow.Workflow {
	return a.workflow
}
