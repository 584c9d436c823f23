package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/proteoanalyzer/internal/app"
)

func TestParse_Defaults(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, &app.Config{LogFormat: "text", LogLevel: "warn", ShowProgress: true}, cfg)
}

func TestParse_AllFlags(t *testing.T) {
	args := []string{
		"-w", "flows/custom.hcl",
		"-log-format", "JSON",
		"-log-level", "debug",
		"-engine", "socketio",
		"-python", "/usr/bin/python3.12",
		"-engine-url", "https://omics.example.org/socket.io/",
		"-status-port", "8080",
		"-no-progress",
	}

	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, &app.Config{
		WorkflowPath: "flows/custom.hcl",
		LogFormat:    "json",
		LogLevel:     "debug",
		StatusPort:   8080,
		EngineKind:   "socketio",
		PythonPath:   "/usr/bin/python3.12",
		EngineURL:    "https://omics.example.org/socket.io/",
		ShowProgress: false,
	}, cfg)
}

func TestParse_WorkflowPathSources(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "long flag wins", args: []string{"-workflow", "a.hcl", "-w", "b.hcl", "c.hcl"}, want: "a.hcl"},
		{name: "shorthand", args: []string{"-w", "b.hcl"}, want: "b.hcl"},
		{name: "positional", args: []string{"flows"}, want: "flows"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, _, err := Parse(tc.args, &bytes.Buffer{})

			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.WorkflowPath)
		})
	}
}

func TestParse_ExitsCleanly(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		out := &bytes.Buffer{}

		cfg, shouldExit, err := Parse([]string{"-h"}, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
		assert.Contains(t, out.String(), "-engine-url")
	})

	t.Run("version", func(t *testing.T) {
		out := &bytes.Buffer{}

		_, shouldExit, err := Parse([]string{"-version"}, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Equal(t, "proteoanalyzer "+app.Version+"\n", out.String())
	})
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"-nope"}, want: "flag provided but not defined: -nope"},
		{name: "bad log level", args: []string{"-log-level", "trace"}, want: "invalid log level"},
		{name: "bad log format", args: []string{"-log-format", "xml"}, want: "invalid log format"},
		{name: "bad engine", args: []string{"-engine", "grpc"}, want: "invalid engine"},
		{name: "bad port", args: []string{"-status-port", "-1"}, want: "status port"},
		{name: "extra arguments", args: []string{"a.hcl", "b.hcl"}, want: "unexpected arguments: b.hcl"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			assert.False(t, shouldExit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
