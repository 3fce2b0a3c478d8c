// Package ptr builds pointers for optional config fields such as model
// temperature.
package ptr

func Ref[T any](v T) *T {
	return &v
}

// Deref returns the zero value for nil.
func Deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
