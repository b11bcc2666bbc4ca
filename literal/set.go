// Package literal provides a lexer for fixed sets of keywords.
//
// A Set recognizes an input only if it equals one of its keywords. It is an
// opaque relex.Lexer[string]: combining a PatternLexer with a Set through Or
// appends an alternative that delegates to the Set. Keywords are tried only
// after every earlier regex alternative has failed, and alternatives added
// after the Set are tried when it declines the input.
//
// Key concepts:
//   - The keywords are compiled into an Aho-Corasick automaton. Each keyword
//     is stored between two NUL bytes and the input is searched the same
//     way, so the only possible hit is the keyword equal to the whole input
//   - A folding Set compares case-insensitively and reports the keyword as
//     it was declared
package literal

import (
	"errors"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/relex"
)

var (
	// ErrEmptySet indicates a Set constructed without keywords
	ErrEmptySet = errors.New("literal: no keywords")

	// ErrEmptyWord indicates an empty keyword
	ErrEmptyWord = errors.New("literal: empty keyword")

	// ErrNULWord indicates a keyword containing a NUL byte
	ErrNULWord = errors.New("literal: keyword contains a NUL byte")
)

// sentinel delimits keywords and inputs inside the automaton.
const sentinel = 0

// Set is a relex.Lexer[string] matching exactly one of a fixed set of
// keywords. A Set is immutable and safe for concurrent use.
type Set struct {
	auto *ahocorasick.Automaton

	// order holds the declared keywords; the automaton's pattern IDs index it.
	order []string
	fold  bool
}

// New returns a Set recognizing words exactly. Duplicate words are ignored.
//
// Example:
//
//	set, err := literal.New("true", "false")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w, ok := set.TryParse("true") // "true", true
func New(words ...string) (*Set, error) {
	return newSet(words, false)
}

// NewFold returns a Set that compares case-insensitively. TryParse reports
// the first declared spelling of the keyword that matched.
//
// Example:
//
//	set := literal.MustNewFold("NULL")
//	w, _ := set.TryParse("null") // "NULL"
func NewFold(words ...string) (*Set, error) {
	return newSet(words, true)
}

// MustNew is like New but panics on error.
func MustNew(words ...string) *Set {
	s, err := New(words...)
	if err != nil {
		panic(err)
	}
	return s
}

// MustNewFold is like NewFold but panics on error.
func MustNewFold(words ...string) *Set {
	s, err := NewFold(words...)
	if err != nil {
		panic(err)
	}
	return s
}

func newSet(words []string, fold bool) (*Set, error) {
	if len(words) == 0 {
		return nil, ErrEmptySet
	}

	s := &Set{fold: fold}
	seen := make(map[string]bool, len(words))
	builder := ahocorasick.NewBuilder()
	for _, w := range words {
		if w == "" {
			return nil, ErrEmptyWord
		}
		if strings.IndexByte(w, sentinel) >= 0 {
			return nil, ErrNULWord
		}
		key := s.key(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		s.order = append(s.order, w)
		builder.AddPattern(delimit(key))
	}

	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	s.auto = auto
	return s, nil
}

func (s *Set) key(w string) string {
	if s.fold {
		return strings.ToLower(w)
	}
	return w
}

// delimit returns w between two sentinel bytes.
func delimit(w string) []byte {
	b := make([]byte, 0, len(w)+2)
	b = append(b, sentinel)
	b = append(b, w...)
	return append(b, sentinel)
}

// TryParse implements relex.Lexer.
func (s *Set) TryParse(input string) (string, bool) {
	if strings.IndexByte(input, sentinel) >= 0 {
		return "", false
	}

	// Sentinels occur only at both ends of the haystack, so a match must
	// span all of it.
	h := delimit(s.key(input))
	m := s.auto.Find(h, 0)
	if m == nil || m.Start != 0 || m.End != len(h) {
		return "", false
	}
	return s.order[m.PatternID], true
}

// Or implements relex.Lexer.
func (s *Set) Or(other relex.Lexer[string]) relex.Lexer[string] {
	return relex.Fallback[string](s, other)
}

// With implements relex.Lexer.
func (s *Set) With(regex string, mapper func(string) string) relex.Lexer[string] {
	return relex.Fallback[string](s, relex.Map[string, string](relex.MustFrom(regex), mapper))
}

// Len returns the number of distinct keywords.
func (s *Set) Len() int {
	return len(s.order)
}

// Words returns the keywords in declaration order.
func (s *Set) Words() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
