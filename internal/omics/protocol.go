package omics

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Method names understood by every library binding.
const (
	MethodLoad   = "load"
	MethodPlot   = "plot"
	MethodEnrich = "enrich"
)

// ErrRemote wraps every error reported by the library itself, as opposed to
// failures of the transport carrying the call.
var ErrRemote = errors.New("analysis library error")

// Request is the envelope sent to a binding.
type Request struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

// Response is the envelope a binding answers with. Exactly one of Result and
// Error is set.
type Response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Decode unpacks the response into result, turning a library error into
// an ErrRemote.
func (r *Response) Decode(result any) error {
	if r.Error != "" {
		return fmt.Errorf("%w: %s", ErrRemote, r.Error)
	}
	if result == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, result); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

type plotParams struct {
	Handle string `json:"handle"`
	PlotRequest
}

type enrichParams struct {
	Handle string `json:"handle"`
	EnrichRequest
}
