package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/specialistvlad/proteoanalyzer/internal/omics"
	"github.com/specialistvlad/proteoanalyzer/internal/testutil"
)

// loopbackLibrary is an omics.Transport that answers the wire protocol the
// way a library binding does: params and results cross a JSON boundary and
// every save path gets a file.
type loopbackLibrary struct {
	mu       sync.Mutex
	calls    []map[string]any
	failures map[string]string // method or database -> library error
	closed   bool
}

func newLoopbackLibrary() *loopbackLibrary {
	return &loopbackLibrary{failures: make(map[string]string)}
}

func (l *loopbackLibrary) Call(_ context.Context, method string, params any, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	var p map[string]any
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	p["_method"] = method

	l.mu.Lock()
	l.calls = append(l.calls, p)
	l.mu.Unlock()

	resp := omics.Response{ID: uint64(len(l.calls))}
	switch method {
	case omics.MethodLoad:
		resp.Result, err = json.Marshal(testutil.SampleDataset())
	case omics.MethodPlot:
		if msg, ok := l.failures[p["method"].(string)]; ok {
			resp.Error = msg
			break
		}
		err = touch(p["save"].(string))
		resp.Result = json.RawMessage(`null`)
	case omics.MethodEnrich:
		if msg, ok := l.failures[p["database"].(string)]; ok {
			resp.Error = msg
			break
		}
		if err = touch(p["save_dotplot"].(string)); err == nil {
			resp.Result, err = json.Marshal(map[string]any{"results": testutil.SampleEnrichment(p["database"].(string))})
		}
	default:
		resp.Error = fmt.Sprintf("unknown method %q", method)
	}
	if err != nil {
		return err
	}

	// Round-trip the envelope like a real transport does.
	wire, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	var decoded omics.Response
	if err := json.Unmarshal(wire, &decoded); err != nil {
		return err
	}
	return decoded.Decode(result)
}

func (l *loopbackLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("already closed")
	}
	l.closed = true
	return nil
}

func (l *loopbackLibrary) methods() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, c := range l.calls {
		switch c["_method"] {
		case omics.MethodPlot:
			out = append(out, "plot:"+c["method"].(string))
		case omics.MethodEnrich:
			out = append(out, "enrich:"+c["database"].(string))
		default:
			out = append(out, c["_method"].(string))
		}
	}
	return out
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("II*\x00"), 0o644)
}
