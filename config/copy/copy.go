package copy

// Slice returns a shallow copy of src. The copy of a nil slice is an
// empty slice.
func Slice[T any](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)

	return dst
}
