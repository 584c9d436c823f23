// Package pybridge runs the analysis library in a Python subprocess and talks
// to it with newline-delimited JSON over the child's stdin and stdout. The
// child's stderr is forwarded to the debug log.
package pybridge

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/specialistvlad/proteoanalyzer/internal/omics"
)

//go:embed bridge.py
var script string

// Script returns the embedded binding program.
func Script() string {
	return script
}

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

var (
	// ErrExited is returned when the subprocess is gone.
	ErrExited = errors.New("analysis process exited")
	// ErrBroken is returned after a call was abandoned mid-flight; the reply
	// stream can no longer be trusted.
	ErrBroken = errors.New("analysis process connection is broken")
)

// Options configures the subprocess.
type Options struct {
	// Python is the interpreter to run the embedded script with.
	Python string
	// Command replaces the whole command line. Used to run test doubles.
	Command []string
	// Env is appended to the inherited environment.
	Env []string
	// StartTimeout bounds the wait for the ready handshake.
	StartTimeout time.Duration
	Logger       *slog.Logger
}

type readResult struct {
	resp omics.Response
	err  error
}

// Transport is an omics.Transport backed by a subprocess.
type Transport struct {
	logger   *slog.Logger
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	replies  chan readResult
	stop     chan struct{}
	stopOnce sync.Once
	exited   chan struct{}
	waitErr  error

	mu     sync.Mutex
	nextID uint64
	broken bool
}

// Start launches the subprocess and waits for its ready handshake.
func Start(ctx context.Context, opts Options) (*Transport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "pybridge")

	argv := opts.Command
	if len(argv) == 0 {
		python := opts.Python
		if python == "" {
			python = DefaultPython
		}
		argv = []string{python, "-u", "-c", script}
	}
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = 2 * time.Minute
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if len(opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), opts.Env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	logger.Debug("Starting analysis process.", "command", argv[0])
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	t := &Transport{
		logger:  logger,
		cmd:     cmd,
		stdin:   stdin,
		replies: make(chan readResult, 1),
		stop:    make(chan struct{}),
		exited:  make(chan struct{}),
	}

	var pipes sync.WaitGroup
	pipes.Add(2)
	go func() {
		defer pipes.Done()
		t.forwardStderr(stderr)
	}()
	go func() {
		defer pipes.Done()
		t.readReplies(stdout)
	}()
	go func() {
		pipes.Wait()
		t.waitErr = cmd.Wait()
		close(t.exited)
	}()

	startCtx, cancel := context.WithTimeout(ctx, opts.StartTimeout)
	defer cancel()
	ready, err := t.await(startCtx, 0)
	if err == nil {
		err = ready.Decode(nil)
	}
	if err != nil {
		t.stopReading()
		t.kill()
		return nil, fmt.Errorf("analysis library did not start: %w", err)
	}
	logger.Debug("Analysis process ready.", "pid", cmd.Process.Pid)
	return t, nil
}

func (t *Transport) forwardStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		t.logger.Debug("analysis library", "stderr", scanner.Text())
	}
}

func (t *Transport) readReplies(r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var res readResult
			if jerr := json.Unmarshal(line, &res.resp); jerr != nil {
				res.err = fmt.Errorf("malformed reply: %w", jerr)
			}
			select {
			case t.replies <- res:
			case <-t.stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.logger.Debug("Reply stream failed.", "error", err)
			}
			return
		}
	}
}

// await waits for the reply carrying id.
func (t *Transport) await(ctx context.Context, id uint64) (*omics.Response, error) {
	for {
		select {
		case res := <-t.replies:
			if res.err != nil {
				return nil, res.err
			}
			if res.resp.ID != id {
				t.logger.Warn("Discarding out-of-order reply.", "expected", id, "got", res.resp.ID)
				continue
			}
			return &res.resp, nil
		case <-t.exited:
			// Drain a reply that raced with process exit.
			select {
			case res := <-t.replies:
				if res.err == nil && res.resp.ID == id {
					return &res.resp, nil
				}
			default:
			}
			return nil, fmt.Errorf("%w: %v", ErrExited, t.waitErr)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Call sends one request and waits for its reply.
func (t *Transport) Call(ctx context.Context, method string, params any, result any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.broken {
		return ErrBroken
	}

	t.nextID++
	req := omics.Request{ID: t.nextID, Method: method, Params: params}
	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	line = append(line, '\n')

	t.logger.Debug("Calling analysis library.", "method", method, "id", req.ID)
	start := time.Now()
	if _, err := t.stdin.Write(line); err != nil {
		t.broken = true
		return fmt.Errorf("failed to send %s request: %w", method, err)
	}

	resp, err := t.await(ctx, req.ID)
	if err != nil {
		t.broken = true
		if ctx.Err() != nil {
			t.kill()
		}
		return err
	}
	t.logger.Debug("Analysis library replied.", "method", method, "id", req.ID, "duration", time.Since(start))
	return resp.Decode(result)
}

// Close ends the subprocess, first politely by closing its stdin.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopReading()
	_ = t.stdin.Close()
	select {
	case <-t.exited:
	case <-time.After(5 * time.Second):
		t.logger.Warn("Analysis process did not exit, killing it.")
		t.kill()
		<-t.exited
	}
	t.broken = true

	var exitErr *exec.ExitError
	if t.waitErr != nil && !errors.As(t.waitErr, &exitErr) {
		return t.waitErr
	}
	return nil
}

func (t *Transport) stopReading() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Transport) kill() {
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
}
