package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/proteoanalyzer/internal/workflow"
)

// Version is reported by the banner and by -version.
const Version = "1.0"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPath string // hcl file or directory, empty for the embedded workflow

	LogFormat  string
	LogLevel   string
	StatusPort int

	// Engine overrides; empty values keep the workflow's engine block.
	EngineKind string
	PythonPath string
	EngineURL  string

	ShowProgress bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", cfg.LogLevel)
	}
	switch cfg.EngineKind {
	case "", workflow.EngineStdio, workflow.EngineSocketIO:
	default:
		return nil, fmt.Errorf("invalid engine %q: must be %q or %q", cfg.EngineKind, workflow.EngineStdio, workflow.EngineSocketIO)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, errors.New("status port must be between 0 and 65535")
	}
	return &cfg, nil
}
