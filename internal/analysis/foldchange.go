package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFoldChange is returned for fold changes that are not positive finite numbers.
var ErrInvalidFoldChange = errors.New("invalid fold change")

// Log2FCColumn is the DEP table column the cutoff is applied to.
const Log2FCColumn = "log2(fc)"

// ParseFoldChange parses a fold change entered by the user and returns it
// together with its log2 cutoff.
func ParseFoldChange(s string) (fc, cutoff float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty value", ErrInvalidFoldChange)
	}
	fc, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidFoldChange, s)
	}
	return checkFoldChange(fc)
}

func checkFoldChange(fc float64) (float64, float64, error) {
	if math.IsNaN(fc) || math.IsInf(fc, 0) {
		return 0, 0, fmt.Errorf("%w: %v is not finite", ErrInvalidFoldChange, fc)
	}
	if fc <= 0 {
		return 0, 0, fmt.Errorf("%w: fold change must be greater than zero", ErrInvalidFoldChange)
	}
	return fc, math.Log2(fc), nil
}
