package lazy

// Option holds a V that may be absent.
type Option[V any] struct {
	value V
	ok    bool
}

// Some returns a present Option.
func Some[V any](v V) Option[V] {
	return Option[V]{value: v, ok: true}
}

// None returns an absent Option.
func None[V any]() Option[V] {
	return Option[V]{}
}

// Get returns the value and whether it is present.
func (o Option[V]) Get() (V, bool) {
	return o.value, o.ok
}

// IsPresent reports whether the Option holds a value.
func (o Option[V]) IsPresent() bool {
	return o.ok
}

// OrElse returns the value if present and fallback otherwise.
func (o Option[V]) OrElse(fallback V) V {
	if o.ok {
		return o.value
	}
	return fallback
}
