package textutil

// Ternary returns a when cond holds and b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if !cond {
		return b
	}
	return a
}
