package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
	"github.com/specialistvlad/proteoanalyzer/internal/omics"
	"github.com/specialistvlad/proteoanalyzer/internal/omics/pybridge"
	"github.com/specialistvlad/proteoanalyzer/internal/omics/remote"
	"github.com/specialistvlad/proteoanalyzer/internal/workflow"
)

// EngineFactory connects to the analysis library for one session.
type EngineFactory func(ctx context.Context, cfg workflow.Engine) (omics.Engine, error)

// NewEngine starts the engine described by cfg: a local Python process for
// "stdio" or a remote analysis service for "socketio".
func NewEngine(ctx context.Context, cfg workflow.Engine) (omics.Engine, error) {
	logger := ctxlog.FromContext(ctx)

	switch cfg.Kind {
	case workflow.EngineStdio:
		logger.Debug("Starting local analysis engine.", "python", cfg.Python)
		t, err := pybridge.Start(ctx, pybridge.Options{
			Python: cfg.Python,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start the analysis engine: %w", err)
		}
		return omics.NewClient(t), nil

	case workflow.EngineSocketIO:
		logger.Debug("Connecting to remote analysis engine.", "url", cfg.URL, "namespace", cfg.Namespace)
		t, err := remote.Dial(ctx, remote.Options{
			URL:                cfg.URL,
			Namespace:          cfg.Namespace,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			ConnectTimeout:     cfg.ConnectTimeout,
			CallTimeout:        cfg.CallTimeout,
			Logger:             logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to the analysis service: %w", err)
		}
		return omics.NewClient(t), nil

	default:
		return nil, fmt.Errorf("unknown engine kind %q", cfg.Kind)
	}
}
