package errors

import (
	"math"
	"math/bits"
)

// MulOverflows reports whether a * b overflows int. Both operands must be
// non-negative; negative counts never reach a size computation.
func MulOverflows(a, b int) bool {
	if a < 0 || b < 0 {
		return true
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi != 0 || lo > uint64(math.MaxInt)
}

// FitsInUint32 reports whether v survives a round trip through uint32.
func FitsInUint32(v int64) bool {
	return v >= 0 && v <= math.MaxUint32
}

// CheckFinite returns a ValidationError if any value is NaN or infinite.
func CheckFinite(param string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValidationError(param, "contains a non-finite value", map[string]interface{}{"index": i, "value": v})
		}
	}
	return nil
}
