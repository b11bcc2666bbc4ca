// Package relex provides composable single-value recognizers built from
// regular expressions.
//
// A Lexer[T] looks at a whole input string and either recognizes it as one
// T or reports no match. Lexers are built declaratively from smaller ones
// instead of hand-written dispatch code:
//
//	num := relex.MapPartial(relex.MustFrom(`(\d+)`), conv.Int)
//	v, ok := num.TryParse("42") // 42, true
//	_, ok = num.TryParse("abc") // 0, false
//
//	word := relex.Empty[string]().
//	    With(`(a+)`, strings.ToUpper).
//	    With(`(b+)`, strings.ToLower)
//
// Every regex alternative must contain exactly one capturing group; the text
// captured by that group is what the alternative's mapper receives. Matching
// is always against the full input, never a substring.
//
// The production implementation is PatternLexer. It keeps its alternatives
// as (regex, mapper) pairs and compiles them into a single alternation the
// first time it is used, so chains of With and Or between pattern lexers
// cost one regex evaluation per TryParse no matter how long the chain is.
// Compilation uses github.com/coregx/coregex.
//
// Validation timing differs by entry point:
//   - From, FromPattern and Empty().With check their regex immediately.
//   - With, WithPartial and Or on an existing PatternLexer only append; an
//     ill-formed alternative is detected on the first TryParse (which panics
//     with a *PatternError) or on an explicit Compile call.
//
// Lexers are immutable values. Every operator returns a new lexer and a
// single lexer tree is safe for concurrent TryParse calls.
package relex

// Lexer recognizes a whole input string as a single T.
type Lexer[T any] interface {
	// TryParse attempts to recognize the entire input.
	// It returns false when the input is not recognized; that is the normal
	// negative outcome, not an error.
	TryParse(input string) (T, bool)

	// Or returns a lexer that tries this lexer first and falls back to
	// other only when this lexer does not recognize the input.
	Or(other Lexer[T]) Lexer[T]

	// With is Or(Map(MustFrom(regex), mapper)).
	// The mapper is total: a nil pointer or zero value it returns is a
	// present result. Absence is expressed with a partial mapper, through
	// PatternLexer.WithPartial or MapPartial.
	With(regex string, mapper func(string) T) Lexer[T]
}

// Compiler is implemented by lexers whose regex alternatives are validated
// lazily. See Compile.
type Compiler interface {
	Compile() error
}

// Compile forces any deferred work inside l and reports the first invalid
// alternative. Lexers that defer nothing return nil.
func Compile[T any](l Lexer[T]) error {
	if c, ok := l.(Compiler); ok {
		return c.Compile()
	}
	return nil
}

// Func adapts an ordinary function to the Lexer interface.
// Lexers built from a Func are opaque: combining them with Or falls back
// from one lexer to the next instead of merging regex alternatives.
type Func[T any] func(input string) (T, bool)

// TryParse calls f(input).
func (f Func[T]) TryParse(input string) (T, bool) {
	return f(input)
}

// Or implements Lexer.
func (f Func[T]) Or(other Lexer[T]) Lexer[T] {
	return Fallback[T](f, other)
}

// With implements Lexer. The regex is validated immediately.
func (f Func[T]) With(regex string, mapper func(string) T) Lexer[T] {
	return Fallback[T](f, Map[string, T](MustFrom(regex), mapper))
}

// empty never matches. It has no state, so every empty[T]{} is the same
// shared value.
type empty[T any] struct{}

// Empty returns the lexer that recognizes nothing.
//
// It is the identity for Or and the usual starting point for With chains:
//
//	l := relex.Empty[string]().With(`(a+)`, id).With(`(b+)`, id)
func Empty[T any]() Lexer[T] {
	return empty[T]{}
}

func (empty[T]) TryParse(string) (T, bool) {
	var zero T
	return zero, false
}

func (empty[T]) Or(other Lexer[T]) Lexer[T] {
	if other == nil {
		nilArgument("Or", "other")
	}
	return other
}

// With starts a PatternLexer. Unlike With on an existing PatternLexer, the
// regex is validated here, and With panics with a *PatternError if it is
// ill-formed.
func (empty[T]) With(regex string, mapper func(string) T) Lexer[T] {
	if mapper == nil {
		nilArgument("With", "mapper")
	}
	return mapPattern(MustFrom(regex), total(mapper))
}

// fallback is the generic two-level Or used when the right-hand side cannot
// be merged into a single alternation.
type fallback[T any] struct {
	first  Lexer[T]
	second Lexer[T]
}

// Fallback returns a lexer that tries first and, if it does not match,
// second. Empty operands are dropped.
func Fallback[T any](first, second Lexer[T]) Lexer[T] {
	if first == nil {
		nilArgument("Fallback", "first")
	}
	if second == nil {
		nilArgument("Fallback", "second")
	}
	if _, ok := first.(empty[T]); ok {
		return second
	}
	if _, ok := second.(empty[T]); ok {
		return first
	}
	return &fallback[T]{first: first, second: second}
}

func (f *fallback[T]) TryParse(input string) (T, bool) {
	if v, ok := f.first.TryParse(input); ok {
		return v, true
	}
	return f.second.TryParse(input)
}

func (f *fallback[T]) Or(other Lexer[T]) Lexer[T] {
	return Fallback[T](f, other)
}

func (f *fallback[T]) With(regex string, mapper func(string) T) Lexer[T] {
	return Fallback[T](f, Map[string, T](MustFrom(regex), mapper))
}

func (f *fallback[T]) Compile() error {
	if err := Compile(f.first); err != nil {
		return err
	}
	return Compile(f.second)
}

// mapped applies a partial function to the result of an opaque lexer.
type mapped[T, R any] struct {
	src Lexer[T]
	f   func(T) (R, bool)
}

func (m *mapped[T, R]) TryParse(input string) (R, bool) {
	v, ok := m.src.TryParse(input)
	if !ok {
		var zero R
		return zero, false
	}
	return m.f(v)
}

func (m *mapped[T, R]) Or(other Lexer[R]) Lexer[R] {
	return Fallback[R](m, other)
}

func (m *mapped[T, R]) With(regex string, mapper func(string) R) Lexer[R] {
	return Fallback[R](m, Map[string, R](MustFrom(regex), mapper))
}

func (m *mapped[T, R]) Compile() error {
	return Compile(m.src)
}

// Map returns a lexer that recognizes the same inputs as l and converts
// each result with f.
//
// Mapping a PatternLexer yields a PatternLexer over the same alternatives,
// sharing their compiled alternation.
func Map[T, R any](l Lexer[T], f func(T) R) Lexer[R] {
	if f == nil {
		nilArgument("Map", "f")
	}
	return MapPartial(l, func(v T) (R, bool) {
		return f(v), true
	})
}

// MapPartial is like Map, but f may reject a recognized value by returning
// false, in which case the input is reported as not recognized.
//
//	port := relex.MapPartial(relex.MustFrom(`(\d+)`), conv.Uint32)
func MapPartial[T, R any](l Lexer[T], f func(T) (R, bool)) Lexer[R] {
	if f == nil {
		nilArgument("MapPartial", "f")
	}
	switch src := l.(type) {
	case nil:
		nilArgument("MapPartial", "lexer")
		return nil
	case empty[T]:
		return empty[R]{}
	case *PatternLexer[T]:
		return mapPattern(src, f)
	default:
		return &mapped[T, R]{src: src, f: f}
	}
}

// total lifts a total mapper into the partial form used internally.
// A total mapper's result is always present, including nil or zero values.
func total[T any](mapper func(string) T) func(string) (T, bool) {
	return func(s string) (T, bool) {
		return mapper(s), true
	}
}
