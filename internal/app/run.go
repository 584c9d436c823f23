package app

import (
	"context"
	"errors"

	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
	"github.com/specialistvlad/proteoanalyzer/internal/prompt"
)

// Run executes analysis sessions until the user declines another one or the
// input is closed. A failed session is reported and the loop starts over.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startStatusServer(ctx)
	defer a.closeStatusServer(ctx)

	for {
		a.prompt.Printf("Proteoanalyzer %s\n", Version)

		err := a.runSession(ctx)
		switch {
		case errors.Is(err, prompt.ErrInputClosed):
			a.logger.Info("Input closed, exiting.")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			a.prompt.Printf("Unexpected error: %v\n", err)
			a.logger.Error("Analysis session failed.", "error", err)
			continue
		}

		again, err := a.prompt.Confirm(ctx, "Run another analysis? (y/n):")
		if errors.Is(err, prompt.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			a.prompt.Println("Exiting...")
			a.logger.Info("Program ended by the user.")
			return nil
		}
	}
}
