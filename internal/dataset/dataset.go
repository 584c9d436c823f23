// Package dataset validates the instrument export a session is about to hand
// to the analysis library, and the quantification software it came from.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/proteoanalyzer/internal/prompt"
)

var (
	// ErrNotFound is returned when the dataset path does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNotAFile is returned when the dataset path is a directory or device.
	ErrNotAFile = errors.New("not a regular file")
	// ErrEmpty is returned for zero-byte dataset files.
	ErrEmpty = errors.New("file is empty")
)

// Method names the software the quantification table was exported from.
type Method string

const (
	MaxQuant   Method = "MaxQuant"
	Progenesis Method = "Progenesis"
	General    Method = "General"
	DIANN      Method = "DIA-NN"
	PatternLab Method = "PatternLab"
)

// Methods lists every method the analysis library recognizes, in the order
// they are offered to the user.
var Methods = []Method{MaxQuant, Progenesis, General, DIANN, PatternLab}

// ParseMethod returns the method for s and whether it is a recognized one.
// Unrecognized methods are still returned: the library gets the final word.
func ParseMethod(s string) (Method, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Methods {
		if string(m) == s {
			return m, true
		}
	}
	return Method(s), false
}

// MethodList renders Methods as "a, b, c".
func MethodList() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Validate cleans raw as a user-typed path and checks that it names a
// non-empty regular file. The cleaned path is returned.
func Validate(raw string) (string, error) {
	path := prompt.CleanPath(raw)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, fmt.Errorf("%w: %s. Check the path and try again", ErrNotFound, path)
		}
		return path, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return path, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	if info.Size() == 0 {
		return path, fmt.Errorf("%w: %s. Check its content and try again", ErrEmpty, path)
	}
	return path, nil
}
