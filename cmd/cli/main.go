package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/specialistvlad/proteoanalyzer/internal/analysis"
	"github.com/specialistvlad/proteoanalyzer/internal/app"
	"github.com/specialistvlad/proteoanalyzer/internal/cli"
)

// main is the entrypoint for the proteoanalyzer application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Restore default signal handling so a second Ctrl-C kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, in io.Reader, outW io.Writer, args []string, opts ...app.Option) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on an invalid workflow, so we recover here to provide
	// a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	if appConfig.ShowProgress && isTerminal(outW) {
		opts = append([]app.Option{app.WithProgress(analysis.NewProgressBar(outW))}, opts...)
	}
	if outW == os.Stdout {
		opts = append([]app.Option{app.WithLogOutput(os.Stderr)}, opts...)
	}

	proteoApp := app.NewApp(in, outW, appConfig, opts...)
	if err := proteoApp.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return &cli.ExitError{Code: 130, Message: "Interrupted."}
		}
		return err
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
