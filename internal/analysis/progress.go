package analysis

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress reports how many enrichment databases have been processed.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Describe(description string)
	Add(n int) error
	Finish() error
}

// ProgressFactory creates a Progress for a phase of total steps.
type ProgressFactory func(description string, total int) Progress

// NoProgress is a ProgressFactory that reports nothing.
func NoProgress(string, int) Progress { return noopProgress{} }

type noopProgress struct{}

func (noopProgress) Describe(string) {}
func (noopProgress) Add(int) error   { return nil }
func (noopProgress) Finish() error   { return nil }

// NewProgressBar returns a ProgressFactory drawing a terminal progress bar on w.
func NewProgressBar(w io.Writer) ProgressFactory {
	if w == nil {
		w = io.Discard
	}
	return func(description string, total int) Progress {
		return progressbar.NewOptions(total,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetWriter(w),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(w)
			}),
		)
	}
}
