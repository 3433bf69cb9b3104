package utils

import "golang.org/x/exp/constraints"

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 depending on the sign of x.
func Sign[T constraints.Signed | constraints.Float](x T) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Clamp restricts x to the [lo, hi] range.
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return max(lo, min(x, hi))
}

// Wrap maps i onto [0, n), counting backwards from n for negative values.
// It indexes cyclic sequences such as the cells of a closed loop.
func Wrap[T constraints.Integer](i, n T) T {
	return (i%n + n) % n
}
