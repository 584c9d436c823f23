package registry

import (
	"fmt"
	"strings"
)

// ValidatePlots checks that every name refers to a registered plot kind.
func (r *Registry) ValidatePlots(names []string) error {
	var unknown []string
	for _, name := range names {
		if _, ok := r.plots[name]; !ok {
			unknown = append(unknown, fmt.Sprintf("'%s'", name))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("unknown plot kind(s) %s; registered kinds: %s",
		strings.Join(unknown, ", "), strings.Join(r.PlotNames(), ", "))
}
