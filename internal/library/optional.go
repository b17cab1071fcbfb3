package library

// Optional marks a field of a partial update. The zero value is unset;
// Some(v) is set, even when v is the zero value of T.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the field was provided.
func (o Optional[T]) IsSet() bool { return o.set }
