package memutils

import (
	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// CheckSize verifies that size is positive and no larger than limit. A limit of zero or less
// means the size is only checked for being positive.
func CheckSize[T constraints.Integer](size, limit T, name string) error {
	if size <= 0 {
		return cerrors.Wrapf(ErrInvalidSize, "%s must be positive, got %d", name, size)
	}

	if limit > 0 && size > limit {
		return cerrors.Wrapf(ErrInvalidSize, "%s is %d, which exceeds the limit of %d", name, size, limit)
	}

	return nil
}

// EndInclusive returns the last cell covered by a run of length cells beginning at start
func EndInclusive(start, length int) int {
	return start + length - 1
}
