package utils

func Ptr[T any](v T) *T {
	return &v
}

// PtrIfSet returns nil for the zero value, so optional columns are stored as NULL.
func PtrIfSet[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
