// Package build turns lexer definitions into relex lexers.
package build

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/coregx/relex"
	"github.com/coregx/relex/conv"
	"github.com/coregx/relex/internal/config"
	"github.com/coregx/relex/literal"
)

// Error reports a lexer definition that could not be built.
type Error struct {
	Lexer string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("relex: failed to build lexer %q: %s", e.Lexer, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Option configures a Builder.
type Option func(*Builder)

// Logger sets the logger used to report what is built.
func Logger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.log = logger
	}
}

// Builder builds the lexers of a config.Config.
type Builder struct {
	log *zap.Logger
}

// NewBuilder returns a Builder. Without options it does not log.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build builds every lexer of cfg. Each lexer is its alternatives, then its
// keywords, then its includes, combined with Or. Lexers are compiled before
// they are returned, so an ill-formed regex is reported here rather than on
// first use.
func (b *Builder) Build(cfg *config.Config) (map[string]relex.Lexer[any], error) {
	order, err := cfg.IncludeOrder()
	if err != nil {
		return nil, err
	}

	lexers := make(map[string]relex.Lexer[any], len(order))
	for _, name := range order {
		def, _ := cfg.Lexer(name)

		l, err := b.lexer(def, lexers)
		if err != nil {
			return nil, &Error{Lexer: name, Cause: err}
		}
		if err := relex.Compile(l); err != nil {
			return nil, &Error{Lexer: name, Cause: err}
		}

		lexers[name] = l
		b.log.Debug("built lexer",
			zap.String("lexer", name),
			zap.Int("alternatives", len(def.Alternatives)),
			zap.Int("keywords", len(def.Keywords)),
			zap.Strings("include", def.Include),
			zap.String("kind", kind(l)),
		)
	}
	return lexers, nil
}

func (b *Builder) lexer(def config.Lexer, built map[string]relex.Lexer[any]) (relex.Lexer[any], error) {
	var l relex.Lexer[any] = relex.Empty[any]()

	if len(def.Alternatives) > 0 {
		p, err := b.alternatives(def.Alternatives)
		if err != nil {
			return nil, err
		}
		l = p
	}

	if len(def.Keywords) > 0 {
		newSet := literal.New
		if def.Fold {
			newSet = literal.NewFold
		}
		set, err := newSet(def.Keywords...)
		if err != nil {
			return nil, err
		}
		l = l.Or(relex.Map[string, any](set, func(s string) any { return s }))
	}

	for _, inc := range def.Include {
		l = l.Or(built[inc])
	}
	return l, nil
}

// alternatives builds one PatternLexer. The first alternative is validated
// immediately; the rest are validated by the Compile call in Build.
func (b *Builder) alternatives(alts []config.Alternative) (*relex.PatternLexer[any], error) {
	first, err := relex.From(alts[0].Regex)
	if err != nil {
		return nil, err
	}

	p := relex.MapPartial[string, any](first, mapper(alts[0].Type)).(*relex.PatternLexer[any])
	for _, a := range alts[1:] {
		p = p.WithPartial(a.Regex, mapper(a.Type))
	}
	return p, nil
}

// mapper returns the conversion for a config type as an untyped partial
// mapper.
func mapper(typ string) func(string) (any, bool) {
	switch typ {
	case config.TypeInt:
		return untyped(conv.Int)
	case config.TypeInt64:
		return untyped(conv.Int64)
	case config.TypeUint32:
		return untyped(conv.Uint32)
	case config.TypeFloat:
		return untyped(conv.Float64)
	case config.TypeBool:
		return untyped(conv.Bool)
	case config.TypeDuration:
		return untyped(conv.Duration)
	default:
		return untyped(conv.String)
	}
}

func untyped[T any](f func(string) (T, bool)) func(string) (any, bool) {
	return func(s string) (any, bool) {
		v, ok := f(s)
		if !ok {
			return nil, false
		}
		return v, true
	}
}

func kind(l relex.Lexer[any]) string {
	switch l := l.(type) {
	case *relex.PatternLexer[any]:
		return fmt.Sprintf("pattern(%d)", l.Len())
	default:
		return fmt.Sprintf("%T", l)
	}
}
