// Package safeconv converts between integer types at API boundaries where
// the value range is known but the compiler cannot prove it.
package safeconv

import "math"

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = uint32(math.MaxUint32)

// ClampIntToUint32 converts int to uint32, saturating at both ends.
func ClampIntToUint32(v int) uint32 {
	switch {
	case v < 0:
		return 0
	case v > int(MaxUint32):
		return MaxUint32
	default:
		return uint32(v)
	}
}

// SizeToUint64 converts a file size to uint64. Negative sizes, which the
// file system never reports, become zero.
func SizeToUint64(v int64) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}
