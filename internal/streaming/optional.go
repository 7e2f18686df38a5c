// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

// Optional marks a query parameter as present or absent. The zero value is
// absent; Some(v) is present even when v is the zero value of T.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the held value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.set {
		return def
	}
	return o.value
}
