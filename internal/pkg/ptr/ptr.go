// Package ptr has small helpers for the optional (pointer) fields used by
// entities and patch requests.
package ptr

// Of returns a pointer to a copy of v.
func Of[T any](v T) *T {
	return &v
}

// Clone returns a pointer to a fresh copy of *p, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Value returns *p or the zero value.
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// CloneSlice copies s, preserving nil.
func CloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
