package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/specialistvlad/proteoanalyzer/internal/ctxlog"
)

// statusReport is the body of GET /status.
type statusReport struct {
	Project        string    `json:"project"`
	Step           string    `json:"step"`
	StartedAt      time.Time `json:"started_at"`
	CompletedSteps []string  `json:"completed_steps"`
	LastError      string    `json:"last_error,omitempty"`
}

// status tracks the running session for the status server.
type status struct {
	mu     sync.Mutex
	report statusReport
}

func (s *status) begin(project string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = statusReport{Project: project, Step: "starting", StartedAt: now, CompletedSteps: []string{}}
}

func (s *status) step(name string, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if done {
		s.report.CompletedSteps = append(s.report.CompletedSteps, name)
		return
	}
	s.report.Step = name
}

func (s *status) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.report.Step = "failed"
		s.report.LastError = err.Error()
		return
	}
	s.report.Step = "finished"
}

func (s *status) snapshot() statusReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.report
	r.CompletedSteps = append([]string{}, s.report.CompletedSteps...)
	if r.Step == "" {
		r.Step = "idle"
	}
	return r
}

// healthHandler answers liveness checks.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler reports the progress of the current session as JSON.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.status.snapshot()); err != nil {
		a.logger.Error("Failed to write status response.", "error", err)
	}
}

func (a *App) statusMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /status", a.statusHandler)
	return mux
}

// startStatusServer runs the status HTTP server in the background when a
// port is configured.
func (a *App) startStatusServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if a.config.StatusPort <= 0 {
		logger.Debug("Status server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", a.config.StatusPort)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.statusMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeStatusServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Debug("Shutting down status server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return err
	}
	return nil
}
