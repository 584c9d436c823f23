package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/proteoanalyzer/internal/analysis"
	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
	"github.com/specialistvlad/proteoanalyzer/internal/project"
	"github.com/specialistvlad/proteoanalyzer/internal/prompt"
	"github.com/specialistvlad/proteoanalyzer/internal/workflow"
)

const (
	questionUser    = "Enter the user name:"
	questionProject = "Enter a name for the project to be analyzed:"
	questionTarget  = "Enter the directory where the analysis files will be created (e.g. /home/user/Documents):"
)

// runSession asks for the project, creates its directory tree and session
// log, and runs the analysis against a freshly started engine.
func (a *App) runSession(ctx context.Context) error {
	user, err := a.prompt.Ask(ctx, questionUser)
	if err != nil {
		return err
	}
	name, err := a.prompt.AskRequired(ctx, questionProject, "Enter a project name to continue.")
	if err != nil {
		return err
	}
	target, err := a.prompt.AskPath(ctx, questionTarget)
	if err != nil {
		return err
	}

	layout, err := project.Create(ctx, a.prompt, a.logger, target, name)
	if err != nil {
		return err
	}

	logFile, err := os.Create(layout.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create session log: %w", err)
	}
	defer logFile.Close()

	logger := newSessionLogger(a.logger, logFile)
	ctx = ctxlog.WithLogger(ctx, logger)
	startedAt := a.now()
	logger.Info("Project name: " + name)
	logger.Info("Owned by: " + user)
	logger.Info("Created on: " + startedAt.Format(time.DateTime))

	a.prompt.Println("Project directories created successfully.")
	logger.Info("Project directories created successfully.", "root", layout.Root)

	plan, err := a.workflow.Resolve(ctx, workflow.Vars{Project: name, User: user})
	if err != nil {
		return err
	}

	a.status.begin(name, startedAt)
	err = a.analyze(ctx, plan, layout)
	a.status.finish(err)
	if err != nil {
		if !errors.Is(err, prompt.ErrInputClosed) && ctx.Err() == nil {
			logger.Error("Unexpected error: "+err.Error(), "error", err)
		}
		return err
	}
	return nil
}

func (a *App) analyze(ctx context.Context, plan *workflow.Plan, layout *project.Layout) error {
	logger := ctxlog.FromContext(ctx)

	engine, err := a.newEngine(ctx, plan.Engine)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("Failed to close analysis engine.", "error", err)
		}
	}()

	session := &analysis.Session{
		Prompt:   a.prompt,
		Engine:   engine,
		Registry: a.registry,
		Plan:     plan,
		Layout:   layout,
		Progress: a.progress,
		OnStep:   a.status.step,
	}
	res, err := session.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Session finished.",
		"dataset", res.Dataset,
		"method", res.Method,
		"significant", res.Summary.Significant,
		"failed_steps", len(res.Failed),
		"duration", a.now().Sub(a.status.snapshot().StartedAt).Round(time.Millisecond),
	)
	return nil
}
