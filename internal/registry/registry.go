package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// PlotKind describes how one kind of figure is produced by the library.
type PlotKind struct {
	// Name is the label used in workflow files.
	Name string
	// Method is the library method that renders the figure.
	Method string
	// NeedsProteins marks kinds that highlight a user-chosen list of proteins.
	NeedsProteins bool
	// NeedsPalette marks kinds that accept a colour palette.
	NeedsPalette bool
	// LineWidth is passed through when set.
	LineWidth *float64
}

// Registry holds the registered plot kinds for a single application instance.
type Registry struct {
	plots map[string]*PlotKind
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		plots: make(map[string]*PlotKind),
	}
}

// RegisterPlot adds a plot kind. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterPlot(kind *PlotKind) {
	if kind == nil || kind.Name == "" || kind.Method == "" {
		panic("plot kind must have a name and a method")
	}
	if _, exists := r.plots[kind.Name]; exists {
		panic(fmt.Sprintf("plot kind '%s' already registered", kind.Name))
	}
	slog.Debug("Registering plot kind.", "name", kind.Name, "method", kind.Method)
	r.plots[kind.Name] = kind
}

// Plot looks a kind up by name.
func (r *Registry) Plot(name string) (*PlotKind, bool) {
	kind, ok := r.plots[name]
	return kind, ok
}

// PlotNames returns the registered kind names in sorted order.
func (r *Registry) PlotNames() []string {
	names := make([]string, 0, len(r.plots))
	for name := range r.plots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
