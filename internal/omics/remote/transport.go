// Package remote reaches an analysis service that binds the library behind a
// socket.io endpoint. Calls are emitted as "omics:call" events carrying a
// request envelope; the service answers with "omics:result" events carrying
// the matching response envelope.
package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/proteoanalyzer/internal/omics"
)

const (
	CallEvent   = "omics:call"
	ResultEvent = "omics:result"
)

// Options configures the connection.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// ConnectTimeout bounds the initial connection.
	ConnectTimeout time.Duration
	// CallTimeout bounds every call; zero means only the caller's context applies.
	CallTimeout time.Duration
	Logger      *slog.Logger
}

// Transport is an omics.Transport over a socket.io connection.
type Transport struct {
	logger      *slog.Logger
	client      *socket.Socket
	callTimeout time.Duration
	pending     *pending
	nextID      atomic.Uint64
	closeOnce   sync.Once
}

// Dial connects to the analysis service.
func Dial(ctx context.Context, opts Options) (*Transport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "remote", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q is not absolute", opts.URL)
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	t := &Transport{
		logger:      logger,
		client:      io,
		callTimeout: opts.CallTimeout,
		pending:     newPending(),
	}

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to analysis service", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.On(types.EventName(ResultEvent), func(data ...any) {
		if len(data) == 0 {
			logger.Warn("Empty result event received.")
			return
		}
		if err := t.pending.deliver(data[0]); err != nil {
			logger.Warn("Dropping result event.", "error", err)
		}
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Debug("Disconnected from analysis service", "reason", reason)
		t.pending.failAll(ErrDisconnected)
	})

	logger.Debug("Connecting to analysis service...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return t, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", opts.ConnectTimeout)
	}
}

// Call emits a request and waits for the matching result event.
func (t *Transport) Call(ctx context.Context, method string, params any, result any) error {
	if !t.client.Connected() {
		return ErrDisconnected
	}
	if t.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.callTimeout)
		defer cancel()
	}

	id := t.nextID.Add(1)
	payload, err := encodeRequest(omics.Request{ID: id, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	replies := t.pending.add(id)
	defer t.pending.remove(id)

	t.logger.Debug("Emitting call", "method", method, "id", id)
	t.client.Emit(CallEvent, payload)

	select {
	case d := <-replies:
		if d.err != nil {
			return d.err
		}
		return d.resp.Decode(result)
	case <-ctx.Done():
		return fmt.Errorf("%s call abandoned: %w", method, ctx.Err())
	}
}

// Close disconnects from the service.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.logger.Debug("Disconnecting socket client")
		t.client.Disconnect()
	})
	return nil
}
