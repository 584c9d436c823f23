// Package project creates the per-project directory tree that every output
// of an analysis session is written into:
//
//	<target>/<project>/
//	    <project>.log
//	    tables/
//	    plots/
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTargetNotFound is returned when the directory the project should be
	// created in does not exist.
	ErrTargetNotFound = errors.New("target directory does not exist")
	// ErrCancelled is returned when the user declines to overwrite an existing
	// project and also declines to pick another location.
	ErrCancelled = errors.New("operation cancelled by the user")
	// ErrInvalidName is returned for project names that cannot be a single
	// directory name.
	ErrInvalidName = errors.New("invalid project name")
)

const (
	tablesDir = "tables"
	plotsDir  = "plots"
)

// Prompter is the subset of the interactive prompt the layout creation needs.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
	AskPath(ctx context.Context, question string) (string, error)
	Println(a ...any)
}

// Layout describes a created project tree.
type Layout struct {
	Name    string
	Root    string
	Tables  string
	Plots   string
	LogFile string
}

func newLayout(root, name string) *Layout {
	return &Layout{
		Name:    name,
		Root:    root,
		Tables:  filepath.Join(root, tablesDir),
		Plots:   filepath.Join(root, plotsDir),
		LogFile: filepath.Join(root, name+".log"),
	}
}

// ValidateName checks that name can be used as a single directory name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Create builds the project tree for name inside targetDir.
//
// When the project directory already exists the user is asked whether it
// should be overwritten. Declining leads to a loop offering another parent
// directory, which repeats until a free location is chosen or the user gives up.
func Create(ctx context.Context, p Prompter, logger *slog.Logger, targetDir, name string) (*Layout, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !isDir(targetDir) {
		logger.Error("Target directory does not exist.", "path", targetDir)
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetDir)
	}

	root := filepath.Join(targetDir, name)
	if !exists(root) {
		if err := os.Mkdir(root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create project directory: %w", err)
		}
		logger.Info("Project directory created.", "project", name, "parent", targetDir)
		p.Println(fmt.Sprintf("The directory %s was created in %s", name, targetDir))
		return finish(root, name)
	}

	overwrite, err := p.Confirm(ctx, fmt.Sprintf("The directory '%s' already exists in the selected location. Overwrite? (y/n):", name))
	if err != nil {
		return nil, err
	}
	if overwrite {
		if err := os.RemoveAll(root); err != nil {
			return nil, fmt.Errorf("failed to remove existing project directory: %w", err)
		}
		if err := os.Mkdir(root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to recreate project directory: %w", err)
		}
		logger.Info("Project directory recreated.", "project", name, "parent", targetDir)
		p.Println(fmt.Sprintf("The directory %s was recreated in %s", name, targetDir))
		return finish(root, name)
	}

	root, err = relocate(ctx, p, logger, name)
	if err != nil {
		return nil, err
	}
	return finish(root, name)
}

// relocate keeps asking for another parent directory until the project can be
// created there.
func relocate(ctx context.Context, p Prompter, logger *slog.Logger, name string) (string, error) {
	for {
		another, err := p.Confirm(ctx, "Select another directory? (y/n):")
		if err != nil {
			return "", err
		}
		if !another {
			logger.Info("Operation cancelled by the user.")
			return "", ErrCancelled
		}

		parent, err := p.AskPath(ctx, "Enter the path where the analysis files will be created (e.g. C:/Users/user/Documents):")
		if err != nil {
			return "", err
		}
		if !isDir(parent) {
			logger.Error("Selected directory does not exist.", "path", parent)
			p.Println(fmt.Sprintf("The directory %s does not exist.", parent))
			continue
		}

		root := filepath.Join(parent, name)
		if exists(root) {
			logger.Error("Project directory already exists in the selected location.", "project", name, "parent", parent)
			p.Println(fmt.Sprintf("The directory %s also exists in the selected location.", name))
			continue
		}

		if err := os.Mkdir(root, 0o755); err != nil {
			return "", fmt.Errorf("failed to create project directory: %w", err)
		}
		logger.Info("Project directory created.", "project", name, "parent", parent)
		p.Println(fmt.Sprintf("The directory %s was created in %s", name, parent))
		return root, nil
	}
}

// finish creates the output subdirectories of an existing, empty project root.
func finish(root, name string) (*Layout, error) {
	layout := newLayout(root, name)
	for _, dir := range []string{layout.Tables, layout.Plots} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return layout, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
