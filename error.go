package relex

import (
	"errors"
	"fmt"
)

// Common relex errors
var (
	// ErrInvalidPattern indicates a regex source that does not parse
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrGroupCount indicates a regex without exactly one capturing group
	ErrGroupCount = errors.New("pattern must have exactly one capturing group")

	// ErrNilArgument indicates a nil lexer, mapper or pattern argument
	ErrNilArgument = errors.New("nil argument")
)

// PatternError reports a regex alternative that cannot be used.
//
// Alternatives passed to From, FromPattern or Empty().With are checked when
// the call is made. Alternatives appended to an existing PatternLexer with
// With, WithPartial or Or are checked when the alternation is first compiled,
// i.e. on the first TryParse or an explicit Compile.
type PatternError struct {
	// Pattern is the offending regex source.
	Pattern string

	// Index is the position of the alternative inside its lexer,
	// or -1 when the error concerns the assembled alternation.
	Index int

	// Groups is the number of capturing groups found, when Err is ErrGroupCount.
	Groups int

	// Err is ErrGroupCount or the underlying syntax error.
	Err error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if errors.Is(e.Err, ErrGroupCount) {
		return fmt.Sprintf("relex: pattern `%s`: %v, found %d", e.Pattern, e.Err, e.Groups)
	}
	return fmt.Sprintf("relex: pattern `%s`: %v", e.Pattern, e.Err)
}

// Unwrap returns the cause. Syntax failures unwrap to both ErrInvalidPattern
// and the engine's error, so errors.As with *syntax.Error keeps working.
func (e *PatternError) Unwrap() []error {
	if errors.Is(e.Err, ErrGroupCount) {
		return []error{e.Err}
	}
	return []error{ErrInvalidPattern, e.Err}
}

// ArgumentError is the panic value for nil arguments to relex functions.
type ArgumentError struct {
	Func string
	Name string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return "relex: " + e.Func + ": " + ErrNilArgument.Error() + " " + e.Name
}

// Unwrap returns ErrNilArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrNilArgument
}

func nilArgument(fn, name string) {
	panic(&ArgumentError{Func: fn, Name: name})
}
