package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/proteoanalyzer/internal/omics"
)

// ErrDisconnected is delivered to every in-flight call when the connection drops.
var ErrDisconnected = errors.New("analysis service disconnected")

type delivery struct {
	resp omics.Response
	err  error
}

// pending correlates result events with the calls waiting for them.
type pending struct {
	mu    sync.Mutex
	calls map[uint64]chan delivery
}

func newPending() *pending {
	return &pending{calls: make(map[uint64]chan delivery)}
}

func (p *pending) add(id uint64) <-chan delivery {
	ch := make(chan delivery, 1)
	p.mu.Lock()
	p.calls[id] = ch
	p.mu.Unlock()
	return ch
}

func (p *pending) remove(id uint64) {
	p.mu.Lock()
	delete(p.calls, id)
	p.mu.Unlock()
}

// deliver routes one result event payload to its caller. Payloads for
// unknown ids are reported as errors and otherwise dropped.
func (p *pending) deliver(payload any) error {
	resp, err := decodeResponse(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	ch, ok := p.calls[resp.ID]
	delete(p.calls, resp.ID)
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("no call waiting for reply %d", resp.ID)
	}
	ch <- delivery{resp: *resp}
	return nil
}

// failAll ends every in-flight call with err.
func (p *pending) failAll(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.calls {
		ch <- delivery{err: err}
		delete(p.calls, id)
	}
}

func decodeResponse(payload any) (*omics.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode reply: %w", err)
	}
	var resp omics.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("malformed reply: %w", err)
	}
	return &resp, nil
}

// encodeRequest turns a request into plain maps and slices so the socket.io
// parser serializes it exactly like encoding/json would.
func encodeRequest(req omics.Request) (map[string]any, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
