package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Cycle returns v+1, wrapping back to 0 once it passes limit.
//
// Parameters:
//   - v: the current value
//   - limit: the largest allowed value
//
// Returns:
//   - T: the next value in [0, limit]
func Cycle[T ~int | ~uint32](v, limit T) T {
	v++
	if v > limit {
		return 0
	}
	return v
}
