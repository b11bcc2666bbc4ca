package build

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/coregx/relex"
	"github.com/coregx/relex/internal/config"
)

const definitions = `
lexers:
  - name: number
    alternatives:
      - regex: '(-?\d+)'
        type: int
      - regex: '(-?\d+\.\d+)'
        type: float
  - name: timeout
    alternatives:
      - regex: 'after (\S+)'
        type: duration
  - name: value
    keywords: ["None", "n/a"]
    fold: true
    include: [number, timeout]
  - name: flag
    alternatives:
      - regex: '(?i)(true|false)'
        type: bool
`

func load(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Read(strings.NewReader(yaml), "yaml")
	require.NoError(t, err)
	return cfg
}

func TestBuild(t *testing.T) {
	lexers, err := NewBuilder().Build(load(t, definitions))
	require.NoError(t, err)
	require.Len(t, lexers, 4)

	tests := []struct {
		lexer string
		input string
		want  any
		ok    bool
	}{
		{"number", "42", 42, true},
		{"number", "-7", -7, true},
		{"number", "3.25", 3.25, true},
		{"number", "3.", nil, false},
		{"number", "99999999999999999999", nil, false},
		{"timeout", "after 1m30s", 90 * time.Second, true},
		{"timeout", "after soon", nil, false},
		{"value", "NONE", "None", true},
		{"value", "n/a", "n/a", true},
		{"value", "12", 12, true},
		{"value", "after 2s", 2 * time.Second, true},
		{"value", "nothing", nil, false},
		{"flag", "TRUE", true, true},
		{"flag", "maybe", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.lexer+"/"+tt.input, func(t *testing.T) {
			got, ok := lexers[tt.lexer].TryParse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildMergesPatternIncludes(t *testing.T) {
	lexers, err := NewBuilder().Build(load(t, `
lexers:
  - name: word
    alternatives:
      - regex: '([a-z]+)'
  - name: token
    alternatives:
      - regex: '(\d+)'
        type: int
    include: [word]
`))
	require.NoError(t, err)

	token, ok := lexers["token"].(*relex.PatternLexer[any])
	require.True(t, ok, "got %T", lexers["token"])
	assert.Equal(t, 2, token.Len())
	assert.Equal(t, []string{`(\d+)`, `([a-z]+)`}, token.Sources())
}

func TestBuildAlternativesKeywordsAndIncludes(t *testing.T) {
	lexers, err := NewBuilder().Build(load(t, `
lexers:
  - name: number
    alternatives:
      - regex: '(\d+)'
        type: int
  - name: word
    alternatives:
      - regex: '([a-z]+)'
    keywords: ["YES"]
    include: [number]
`))
	require.NoError(t, err)

	tests := []struct {
		input string
		want  any
		ok    bool
	}{
		{"abc", "abc", true},
		{"YES", "YES", true},
		{"42", 42, true},
		{"Yes", nil, false},
		{"4a", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := lexers["word"].TryParse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		target error
	}{
		{
			name: "first alternative syntax",
			yaml: `
lexers:
  - name: bad
    alternatives:
      - regex: '(a'
`,
			target: relex.ErrInvalidPattern,
		},
		{
			name: "later alternative syntax",
			yaml: `
lexers:
  - name: bad
    alternatives:
      - regex: '(a)'
      - regex: '(b'
`,
			target: relex.ErrInvalidPattern,
		},
		{
			name: "group count",
			yaml: `
lexers:
  - name: bad
    alternatives:
      - regex: '(a)(b)'
`,
			target: relex.ErrGroupCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Build(load(t, tt.yaml))
			require.Error(t, err)

			var be *Error
			require.True(t, errors.As(err, &be), "got %T", err)
			assert.Equal(t, "bad", be.Lexer)
			assert.ErrorIs(t, err, tt.target)

			var pe *relex.PatternError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestBuildLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	_, err := NewBuilder(Logger(zap.New(core))).Build(load(t, definitions))
	require.NoError(t, err)

	entries := logs.FilterMessage("built lexer").All()
	require.Len(t, entries, 4)

	var names []string
	for _, e := range entries {
		names = append(names, e.ContextMap()["lexer"].(string))
	}
	// Included lexers are built first.
	assert.Less(t, indexOf(names, "number"), indexOf(names, "value"))
	assert.Less(t, indexOf(names, "timeout"), indexOf(names, "value"))
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
