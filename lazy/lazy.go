// Package lazy provides a deferred value: a computation that runs at most
// once, on first demand, and whose result is cached for every later caller.
//
// A Value is safe for concurrent use. The first Get runs the producer while
// holding a mutex; every Get after that is a single atomic load.
//
// Basic usage:
//
//	v := lazy.New(func() *Config { return loadConfig() })
//	cfg := v.Get() // loadConfig runs here, once
//	cfg = v.Get()  // cached
//
// Derived values built with Map, FlatMap and Filter are fully lazy: nothing
// runs until the derived value's own Get is called.
package lazy

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

var (
	// ErrNilProducer is the panic value when a nil function is passed to
	// New, Map, FlatMap or Filter.
	ErrNilProducer = errors.New("lazy: nil producer")

	// ErrNilValue indicates a producer returned a nil result.
	ErrNilValue = errors.New("lazy: producer returned nil")
)

// NilValueError is the panic value of Get when the producer yields a nil
// pointer, func, chan, interface or unsafe pointer.
type NilValueError struct {
	Type string
}

// Error implements the error interface.
func (e *NilValueError) Error() string {
	return fmt.Sprintf("%v (type %s)", ErrNilValue, e.Type)
}

// Unwrap returns ErrNilValue.
func (e *NilValueError) Unwrap() error {
	return ErrNilValue
}

// Value is a deferred, memoized V.
//
// The zero Value is not usable; construct one with New or Of.
type Value[V any] struct {
	done     atomic.Bool
	mu       sync.Mutex
	producer func() V
	value    V
}

// New returns an unresolved Value that will call producer on first Get.
// Panics with ErrNilProducer if producer is nil.
func New[V any](producer func() V) *Value[V] {
	if producer == nil {
		panic(ErrNilProducer)
	}
	return &Value[V]{producer: producer}
}

// Of returns a Value that is already resolved to v.
// Panics with a *NilValueError if v is a nil reference.
func Of[V any](v V) *Value[V] {
	if isNil(v) {
		panic(&NilValueError{Type: fmt.Sprintf("%T", v)})
	}
	l := &Value[V]{value: v}
	l.done.Store(true)
	return l
}

// Get returns the value, computing it on the first call.
//
// Concurrent first calls run the producer exactly once; the others wait for
// it and then observe the same result. If the producer panics or returns a
// nil reference, the panic propagates and the Value stays unresolved.
func (l *Value[V]) Get() V {
	if l.done.Load() {
		return l.value
	}
	return l.resolve()
}

func (l *Value[V]) resolve() V {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done.Load() {
		return l.value
	}

	v := l.producer()
	if isNil(v) {
		panic(&NilValueError{Type: fmt.Sprintf("%T", v)})
	}

	l.value = v
	l.producer = nil
	l.done.Store(true)
	return v
}

// Resolved reports whether the value has already been computed.
func (l *Value[V]) Resolved() bool {
	return l.done.Load()
}

// Map returns a Value holding f applied to v's value.
// Neither v nor f runs until the returned Value is resolved.
func Map[V, R any](v *Value[V], f func(V) R) *Value[R] {
	if f == nil {
		panic(ErrNilProducer)
	}
	return New(func() R {
		return f(v.Get())
	})
}

// FlatMap returns a Value holding the value of the Value that f produces
// from v's value.
func FlatMap[V, R any](v *Value[V], f func(V) *Value[R]) *Value[R] {
	if f == nil {
		panic(ErrNilProducer)
	}
	return New(func() R {
		next := f(v.Get())
		if next == nil {
			panic(&NilValueError{Type: fmt.Sprintf("%T", next)})
		}
		return next.Get()
	})
}

// Filter returns a Value holding v's value if pred accepts it and an absent
// Option otherwise. A rejected value is not an error.
func Filter[V any](v *Value[V], pred func(V) bool) *Value[Option[V]] {
	if pred == nil {
		panic(ErrNilProducer)
	}
	return New(func() Option[V] {
		x := v.Get()
		if !pred(x) {
			return None[V]()
		}
		return Some(x)
	})
}

// isNil reports whether v is a nil reference. Slices and maps are not
// checked: a nil slice or map is a usable empty value.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
