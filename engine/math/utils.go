package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// InRange reports whether low <= f <= high. NaN is never in range.
func InRange[T constraints.Float](f, low, high T) bool {
	return f >= low && f <= high
}

// Lerp interpolates between a and b. The (1-t)a + tb form returns b
// exactly at t = 1.
func Lerp[T constraints.Float](a, b, t T) T {
	return (1-t)*a + t*b
}
