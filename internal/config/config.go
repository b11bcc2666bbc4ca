// Package config loads relex lexer definitions.
//
// A definition file (YAML, JSON or TOML) lists named lexers. Each lexer has
// regex alternatives with a result type, an optional keyword set and an
// optional list of other lexers it falls back to:
//
//	log_level: info
//	workers: 4
//	output: json
//	lexers:
//	  - name: number
//	    alternatives:
//	      - regex: '(\d+)'
//	        type: int
//	  - name: value
//	    keywords: [none, 'n/a']
//	    include: [number]
//
// Top-level scalars can be overridden from the environment with the RELEX_
// prefix, e.g. RELEX_WORKERS=8.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// Result types an alternative may declare.
const (
	TypeString   = "string"
	TypeInt      = "int"
	TypeInt64    = "int64"
	TypeUint32   = "uint32"
	TypeFloat    = "float"
	TypeBool     = "bool"
	TypeDuration = "duration"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var knownTypes = map[string]bool{
	"":           true,
	TypeString:   true,
	TypeInt:      true,
	TypeInt64:    true,
	TypeUint32:   true,
	TypeFloat:    true,
	TypeBool:     true,
	TypeDuration: true,
}

// Alternative is one regex alternative of a lexer.
type Alternative struct {
	Regex string `mapstructure:"regex"`

	// Type names the conversion applied to the captured text.
	// Empty means string.
	Type string `mapstructure:"type"`
}

// Lexer describes one named lexer.
type Lexer struct {
	Name         string        `mapstructure:"name"`
	Alternatives []Alternative `mapstructure:"alternatives"`
	Keywords     []string      `mapstructure:"keywords"`
	Fold         bool          `mapstructure:"fold"`
	Include      []string      `mapstructure:"include"`
}

// Config is a complete definition file.
type Config struct {
	LogLevel string  `mapstructure:"log_level"`
	Workers  int     `mapstructure:"workers"`
	Output   string  `mapstructure:"output"`
	Lexers   []Lexer `mapstructure:"lexers"`
}

// ValidationError reports an invalid definition.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "relex: invalid config: " + e.Field + ": " + e.Message
}

// ReadError wraps failures to read or decode a definition.
type ReadError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("relex: failed to read config %s: %s", e.Source, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *ReadError) Unwrap() error {
	return e.Cause
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("workers", 4)
	v.SetDefault("output", OutputJSON)
	v.SetEnvPrefix("RELEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads and validates the definition file at path. The format is
// taken from the file extension.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ReadError{Source: path, Cause: err}
	}
	return decode(v, path)
}

// Read reads and validates a definition in the given format ("yaml",
// "json" or "toml") from r.
func Read(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, &ReadError{Source: format + " input", Cause: err}
	}
	return decode(v, format+" input")
}

func decode(v *viper.Viper, source string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ReadError{Source: source, Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks names, types, includes and output settings.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return &ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if c.Output != OutputJSON && c.Output != OutputYAML {
		return &ValidationError{Field: "output", Message: fmt.Sprintf("unknown format %q", c.Output)}
	}
	if len(c.Lexers) == 0 {
		return &ValidationError{Field: "lexers", Message: "at least one lexer is required"}
	}

	byName := make(map[string]*Lexer, len(c.Lexers))
	for i := range c.Lexers {
		l := &c.Lexers[i]
		field := fmt.Sprintf("lexers[%d]", i)
		if l.Name == "" {
			return &ValidationError{Field: field + ".name", Message: "must not be empty"}
		}
		if _, dup := byName[l.Name]; dup {
			return &ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate lexer %q", l.Name)}
		}
		byName[l.Name] = l

		if len(l.Alternatives) == 0 && len(l.Keywords) == 0 && len(l.Include) == 0 {
			return &ValidationError{Field: field, Message: fmt.Sprintf("lexer %q recognizes nothing", l.Name)}
		}
		for j, a := range l.Alternatives {
			if a.Regex == "" {
				return &ValidationError{Field: fmt.Sprintf("%s.alternatives[%d].regex", field, j), Message: "must not be empty"}
			}
			if !knownTypes[a.Type] {
				return &ValidationError{Field: fmt.Sprintf("%s.alternatives[%d].type", field, j), Message: fmt.Sprintf("unknown type %q", a.Type)}
			}
		}
		for j, kw := range l.Keywords {
			if kw == "" {
				return &ValidationError{Field: fmt.Sprintf("%s.keywords[%d]", field, j), Message: "must not be empty"}
			}
		}
	}

	for i, l := range c.Lexers {
		for j, inc := range l.Include {
			if _, ok := byName[inc]; !ok {
				return &ValidationError{Field: fmt.Sprintf("lexers[%d].include[%d]", i, j), Message: fmt.Sprintf("unknown lexer %q", inc)}
			}
		}
	}

	if _, err := c.IncludeOrder(); err != nil {
		return err
	}
	return nil
}

// Lexer returns the lexer definition with the given name.
func (c *Config) Lexer(name string) (Lexer, bool) {
	for _, l := range c.Lexers {
		if l.Name == name {
			return l, true
		}
	}
	return Lexer{}, false
}

// IncludeOrder returns lexer names ordered so that every lexer comes after
// the lexers it includes. Include cycles are reported as a ValidationError.
func (c *Config) IncludeOrder() ([]string, error) {
	const (
		unvisited = iota
		visiting
		visited
	)

	includes := make(map[string][]string, len(c.Lexers))
	for _, l := range c.Lexers {
		includes[l.Name] = l.Include
	}

	state := make(map[string]int, len(c.Lexers))
	order := make([]string, 0, len(c.Lexers))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return &ValidationError{
				Field:   "lexers.include",
				Message: "include cycle " + strings.Join(append(path, name), " -> "),
			}
		}
		state[name] = visiting
		for _, inc := range includes[name] {
			if err := visit(inc, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, l := range c.Lexers {
		if err := visit(l.Name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
