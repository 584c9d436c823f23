package omics

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/proteoanalyzer/internal/table"
)

// Transport carries one request to a library binding and decodes the reply
// into result. Implementations must be safe for sequential use; the workflow
// never issues concurrent calls.
type Transport interface {
	Call(ctx context.Context, method string, params any, result any) error
	Close() error
}

// Client implements Engine on top of a Transport.
type Client struct {
	transport Transport
}

// NewClient wraps a transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Load reads a quantification export through the library.
func (c *Client) Load(ctx context.Context, req LoadRequest) (*Dataset, error) {
	var ds Dataset
	if err := c.transport.Call(ctx, MethodLoad, req, &ds); err != nil {
		return nil, fmt.Errorf("%s call failed: %w", MethodLoad, err)
	}
	if ds.Handle == "" {
		return nil, errors.New("library returned no dataset handle")
	}
	for _, t := range []**table.Table{&ds.Params, &ds.QuantData, &ds.DEPs} {
		if *t == nil {
			*t = &table.Table{}
		}
	}
	return &ds, nil
}

// Plot renders a figure from a loaded dataset.
func (c *Client) Plot(ctx context.Context, handle string, req PlotRequest) error {
	if err := c.transport.Call(ctx, MethodPlot, plotParams{Handle: handle, PlotRequest: req}, nil); err != nil {
		return fmt.Errorf("failed to render %s: %w", req.Method, err)
	}
	return nil
}

// Enrich runs an enrichment analysis for a loaded dataset and returns the
// result table.
func (c *Client) Enrich(ctx context.Context, handle string, req EnrichRequest) (*table.Table, error) {
	var res struct {
		Results *table.Table `json:"results"`
	}
	if err := c.transport.Call(ctx, MethodEnrich, enrichParams{Handle: handle, EnrichRequest: req}, &res); err != nil {
		return nil, fmt.Errorf("failed to run %s enrichment on %s: %w", req.Analysis, req.Database, err)
	}
	if res.Results == nil {
		res.Results = &table.Table{}
	}
	return res.Results, nil
}

// Close shuts the transport down.
func (c *Client) Close() error {
	return c.transport.Close()
}
