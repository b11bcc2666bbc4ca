package relex

import (
	"regexp"
	"regexp/syntax"
	"strings"

	"github.com/coregx/coregex"

	"github.com/coregx/relex/lazy"
)

// Pattern is the compiled-regex surface relex needs from a pattern passed
// to FromPattern. Both *coregex.Regex and the standard library's
// *regexp.Regexp satisfy it.
type Pattern interface {
	String() string
	SubexpNames() []string
	FindStringSubmatchIndex(s string) []int
}

// catchAll is the source shown for an alternative that delegates to an
// opaque lexer. Delegates are never compiled into an alternation.
const catchAll = `((?s:.*))`

// alternative is one (regex, mapper) pair of a PatternLexer.
type alternative[T any] struct {
	source string
	mapper func(string) (T, bool)

	// delegate marks an opaque lexer appended with Or. Its mapper is the
	// lexer's TryParse and check validates it.
	delegate bool
	check    func() error
}

// segment is a run of regex alternatives compiled into one anchored
// alternation, optionally followed by a delegate. A PatternLexer has one
// segment per delegate, plus one for the alternatives after the last one.
type segment struct {
	// re is nil when the segment has no regex alternatives.
	re Pattern

	// std is the same alternation compiled with the standard library. It
	// is consulted only when re reports a match without a participating
	// group, which coregex does for empty captures.
	std *lazy.Value[stdAlternation]

	// first is the index in alts of the first regex alternative and n the
	// number of regex alternatives.
	first, n int

	// delegate is the index in alts of the trailing delegate, or -1.
	delegate int
}

type stdAlternation struct {
	re *regexp.Regexp
}

// alternation is the result of compiling a PatternLexer's alternatives:
// its segments, or the error that prevented compiling them.
type alternation struct {
	segments []segment
	err      error
}

// PatternLexer is a Lexer backed by an ordered list of regex alternatives,
// each with exactly one capturing group and a mapper for the captured text.
//
// The alternatives are compiled into one anchored alternation on first use.
// On a match, the first capturing group that participated identifies the
// alternative, and that alternative's mapper produces the result. Earlier
// alternatives win when several could match the same input. A match in
// which no group participated, such as `(a)?` against "", identifies no
// alternative and is reported as no match.
//
// An opaque lexer appended with Or runs only when no alternative before it
// matched. If it declines the input, the alternatives after it are tried.
//
// A PatternLexer is safe for concurrent use by multiple goroutines.
type PatternLexer[T any] struct {
	alts     []alternative[T]
	compiled *lazy.Value[alternation]
}

// From returns a PatternLexer[string] for regex. The lexer recognizes inputs
// that regex matches in full and yields the text of its capturing group.
//
// Returns a *PatternError if regex does not parse or does not have exactly
// one capturing group.
//
// Example:
//
//	l, err := relex.From(`v(\d+\.\d+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := l.TryParse("v1.2") // "1.2"
func From(regex string) (*PatternLexer[string], error) {
	if err := checkSource(regex, 0); err != nil {
		return nil, err
	}
	return newPatternLexer([]alternative[string]{{source: regex, mapper: identity}}), nil
}

// MustFrom is like From but panics with the *PatternError if regex cannot
// be used.
//
// Example:
//
//	var semver = relex.MustFrom(`v?(\d+\.\d+\.\d+)`)
func MustFrom(regex string) *PatternLexer[string] {
	l, err := From(regex)
	if err != nil {
		panic(err)
	}
	return l
}

// FromPattern returns a PatternLexer[string] for an already compiled pattern.
// The pattern's source is reused; it is recompiled as part of the lexer's
// anchored alternation.
//
// Returns a *PatternError if p does not have exactly one capturing group.
func FromPattern(p Pattern) (*PatternLexer[string], error) {
	if p == nil {
		return nil, &ArgumentError{Func: "FromPattern", Name: "pattern"}
	}
	if groups := len(p.SubexpNames()) - 1; groups != 1 {
		return nil, &PatternError{Pattern: p.String(), Index: 0, Groups: groups, Err: ErrGroupCount}
	}
	return newPatternLexer([]alternative[string]{{source: p.String(), mapper: identity}}), nil
}

// MustFromPattern is like FromPattern but panics on error.
func MustFromPattern(p Pattern) *PatternLexer[string] {
	l, err := FromPattern(p)
	if err != nil {
		panic(err)
	}
	return l
}

func identity(s string) (string, bool) {
	return s, true
}

func newPatternLexer[T any](alts []alternative[T]) *PatternLexer[T] {
	sources := make([]string, len(alts))
	delegates := make([]bool, len(alts))
	for i, a := range alts {
		sources[i] = a.source
		delegates[i] = a.delegate
	}
	return &PatternLexer[T]{
		alts: alts,
		compiled: lazy.New(func() alternation {
			return compileAlternation(sources, delegates)
		}),
	}
}

// mapPattern composes f onto every mapper of src. The alternatives are
// unchanged, so the compiled alternation is shared.
func mapPattern[T, R any](src *PatternLexer[T], f func(T) (R, bool)) *PatternLexer[R] {
	alts := make([]alternative[R], len(src.alts))
	for i, a := range src.alts {
		m := a.mapper
		alts[i] = alternative[R]{
			source:   a.source,
			delegate: a.delegate,
			check:    a.check,
			mapper: func(s string) (R, bool) {
				v, ok := m(s)
				if !ok {
					var zero R
					return zero, false
				}
				return f(v)
			},
		}
	}
	return &PatternLexer[R]{alts: alts, compiled: src.compiledOrEmpty()}
}

func (p *PatternLexer[T]) compiledOrEmpty() *lazy.Value[alternation] {
	if p.compiled == nil {
		return lazy.Of(alternation{})
	}
	return p.compiled
}

// TryParse implements Lexer.
//
// The first call compiles the alternation. If an alternative added through
// With, WithPartial or Or is ill-formed, TryParse panics with its
// *PatternError; call Compile beforehand to get it as an error instead.
func (p *PatternLexer[T]) TryParse(input string) (T, bool) {
	var zero T

	alt := p.compiledOrEmpty().Get()
	if alt.err != nil {
		panic(alt.err)
	}

	for _, seg := range alt.segments {
		if g, text, matched := seg.match(input); matched {
			if g < 0 {
				return zero, false
			}
			return p.alts[seg.first+g].mapper(text)
		}
		if seg.delegate >= 0 {
			if v, ok := p.alts[seg.delegate].mapper(input); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// match runs the segment's alternation over input. It returns the index of
// the winning regex alternative within the segment, or -1 when the input
// matched without any group participating.
func (s *segment) match(input string) (int, string, bool) {
	if s.re == nil {
		return -1, "", false
	}
	m := s.re.FindStringSubmatchIndex(input)
	if m == nil {
		return -1, "", false
	}
	if g, text := participating(m, s.n, input); g >= 0 {
		return g, text, true
	}

	// coregex reports an empty capture as not participating. Ask the
	// standard library which group, if any, took part.
	std := s.std.Get().re
	if std == nil {
		return -1, "", true
	}
	if m = std.FindStringSubmatchIndex(input); m == nil {
		return -1, "", true
	}
	g, text := participating(m, s.n, input)
	return g, text, true
}

// participating returns the 0-based index of the lowest group of m that
// took part in the match, and its text.
func participating(m []int, groups int, input string) (int, string) {
	for g := 1; g <= groups && 2*g+1 < len(m); g++ {
		if m[2*g] >= 0 {
			return g - 1, input[m[2*g]:m[2*g+1]]
		}
	}
	return -1, ""
}

// Or implements Lexer.
//
// If other is a PatternLexer its alternatives are appended after p's,
// producing a single alternation. Any other lexer is appended as a delegate
// alternative: it runs only when none of p's alternatives matches, and
// alternatives appended later are tried when it declines.
func (p *PatternLexer[T]) Or(other Lexer[T]) Lexer[T] {
	switch o := other.(type) {
	case nil:
		nilArgument("Or", "other")
		return nil
	case empty[T]:
		return p
	case *PatternLexer[T]:
		return p.appendAlts(o.alts...)
	default:
		return p.appendAlts(alternative[T]{
			source:   catchAll,
			mapper:   o.TryParse,
			delegate: true,
			check: func() error {
				return Compile(o)
			},
		})
	}
}

// With implements Lexer. The regex is not validated until the alternation
// is compiled; see Compile.
//
// The mapper is total: whatever it returns, nil pointers and zero values
// included, is a present result. Use WithPartial to reject captured text.
func (p *PatternLexer[T]) With(regex string, mapper func(string) T) Lexer[T] {
	if mapper == nil {
		nilArgument("With", "mapper")
	}
	return p.WithPartial(regex, total(mapper))
}

// WithPartial appends an alternative whose mapper may reject the captured
// text by returning false. Like With, the regex is validated lazily.
func (p *PatternLexer[T]) WithPartial(regex string, mapper func(string) (T, bool)) *PatternLexer[T] {
	if mapper == nil {
		nilArgument("WithPartial", "mapper")
	}
	return p.appendAlts(alternative[T]{source: regex, mapper: mapper})
}

func (p *PatternLexer[T]) appendAlts(more ...alternative[T]) *PatternLexer[T] {
	alts := make([]alternative[T], 0, len(p.alts)+len(more))
	alts = append(alts, p.alts...)
	alts = append(alts, more...)
	return newPatternLexer(alts)
}

// Compile compiles the alternation now, instead of on the first TryParse,
// and returns the *PatternError of the first ill-formed alternative.
// Lexers delegated to through Or are compiled as well.
// The outcome is cached; calling Compile again is cheap.
func (p *PatternLexer[T]) Compile() error {
	if err := p.compiledOrEmpty().Get().err; err != nil {
		return err
	}
	for _, a := range p.alts {
		if a.check == nil {
			continue
		}
		if err := a.check(); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of alternatives.
func (p *PatternLexer[T]) Len() int {
	return len(p.alts)
}

// Sources returns the regex source of every alternative, in order.
// Alternatives delegating to an opaque lexer appear as a catch-all pattern.
func (p *PatternLexer[T]) Sources() []string {
	sources := make([]string, len(p.alts))
	for i, a := range p.alts {
		sources[i] = a.source
	}
	return sources
}

// String returns the alternation p is equivalent to, with delegates shown
// as catch-all alternatives.
func (p *PatternLexer[T]) String() string {
	return joinAlternation(p.Sources())
}

func joinAlternation(sources []string) string {
	var b strings.Builder
	b.WriteString(`\A(?:`)
	for i, s := range sources {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString("(?:")
		b.WriteString(s)
		b.WriteByte(')')
	}
	b.WriteString(`)\z`)
	return b.String()
}

// compileAlternation validates each regex source and compiles every run of
// regex alternatives between delegates into one anchored coregex
// alternation. Each source sits in its own non-capturing group so inline
// flags stay local and capture numbering matches alternative order.
func compileAlternation(sources []string, delegates []bool) alternation {
	for i, s := range sources {
		if delegates[i] {
			continue
		}
		if err := checkSource(s, i); err != nil {
			return alternation{err: err}
		}
	}

	var segments []segment
	first := 0
	for i := 0; i <= len(sources); i++ {
		last := i == len(sources)
		if !last && !delegates[i] {
			continue
		}

		seg := segment{first: first, n: i - first, delegate: -1}
		if !last {
			seg.delegate = i
		}
		if seg.n > 0 {
			expr := joinAlternation(sources[first:i])
			re, err := coregex.Compile(expr)
			if err != nil {
				return alternation{err: &PatternError{Pattern: expr, Index: -1, Err: err}}
			}
			seg.re = re
			seg.std = lazy.New(func() stdAlternation {
				std, _ := regexp.Compile(expr)
				return stdAlternation{re: std}
			})
		}
		if seg.n > 0 || !last {
			segments = append(segments, seg)
		}
		first = i + 1
	}
	return alternation{segments: segments}
}

// checkSource reports whether regex parses and has exactly one capturing
// group.
func checkSource(regex string, index int) error {
	re, err := syntax.Parse(regex, syntax.Perl)
	if err != nil {
		return &PatternError{Pattern: regex, Index: index, Err: err}
	}
	if groups := re.MaxCap(); groups != 1 {
		return &PatternError{Pattern: regex, Index: index, Groups: groups, Err: ErrGroupCount}
	}
	return nil
}
