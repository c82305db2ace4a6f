package utils

import (
	"math"
	"strconv"
)

// FormatFloat renders v as its shortest round-trip decimal, never in
// exponent form. Non-finite values render as inf, -inf and NaN.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
