package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/specialistvlad/proteoanalyzer/internal/omics"
	"github.com/specialistvlad/proteoanalyzer/internal/table"
)

// FakeHandle is the dataset handle FakeEngine returns from Load.
const FakeHandle = "fake-dataset"

// FakeEngine is an in-memory omics.Engine. It records every call, writes a
// placeholder image for every figure it is asked to save, and returns the
// canned tables from SampleDataset and SampleEnrichment.
type FakeEngine struct {
	mu sync.Mutex

	Loads   []omics.LoadRequest
	Plots   []omics.PlotRequest
	Enrichs []omics.EnrichRequest
	Closed  bool

	// LoadErr is returned by Load when set.
	LoadErr error
	// PlotErrs maps a library plot method to the error Plot returns for it.
	PlotErrs map[string]error
	// EnrichErrs maps a database to the error Enrich returns for it.
	EnrichErrs map[string]error
	// Dataset overrides SampleDataset when set.
	Dataset *omics.Dataset
}

var _ omics.Engine = (*FakeEngine)(nil)

// NewFakeEngine returns a FakeEngine that succeeds on every call.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		PlotErrs:   make(map[string]error),
		EnrichErrs: make(map[string]error),
	}
}

// Load implements omics.Engine.
func (f *FakeEngine) Load(_ context.Context, req omics.LoadRequest) (*omics.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads = append(f.Loads, req)
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	if f.Dataset != nil {
		return f.Dataset, nil
	}
	ds := SampleDataset()
	ds.ControlGroup = req.ControlGroup
	return ds, nil
}

// Plot implements omics.Engine.
func (f *FakeEngine) Plot(_ context.Context, handle string, req omics.PlotRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if handle != FakeHandle && f.Dataset == nil {
		return fmt.Errorf("unknown dataset handle %q", handle)
	}
	f.Plots = append(f.Plots, req)
	if err := f.PlotErrs[req.Method]; err != nil {
		return err
	}
	return touch(req.Save)
}

// Enrich implements omics.Engine.
func (f *FakeEngine) Enrich(_ context.Context, handle string, req omics.EnrichRequest) (*table.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if handle != FakeHandle && f.Dataset == nil {
		return nil, fmt.Errorf("unknown dataset handle %q", handle)
	}
	f.Enrichs = append(f.Enrichs, req)
	if err := f.EnrichErrs[req.Database]; err != nil {
		return nil, err
	}
	if err := touch(req.SaveDotplot); err != nil {
		return nil, err
	}
	return SampleEnrichment(req.Database), nil
}

// Close implements omics.Engine.
func (f *FakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// PlotMethods returns the library methods Plot was called with, in order.
func (f *FakeEngine) PlotMethods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	methods := make([]string, len(f.Plots))
	for i, p := range f.Plots {
		methods[i] = p.Method
	}
	return methods
}

// Databases returns the databases Enrich was called with, in order.
func (f *FakeEngine) Databases() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	dbs := make([]string, len(f.Enrichs))
	for i, e := range f.Enrichs {
		dbs[i] = e.Database
	}
	return dbs
}

func touch(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("II*\x00"), 0o644)
}
