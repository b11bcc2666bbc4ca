package literal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/coregx/relex"
)

func TestSetTryParse(t *testing.T) {
	set := MustNew("in", "int", "interface", "for")

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"in", "in", true},
		{"int", "int", true},
		{"interface", "interface", true},
		{"for", "for", true},
		{"inte", "", false},
		{"INT", "", false},
		{"for ", "", false},
		{"", "", false},
		{"xyz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := set.TryParse(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("TryParse(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestSetOverlappingWords checks that keywords sharing prefixes and suffixes
// only match when the whole input equals one of them.
func TestSetOverlappingWords(t *testing.T) {
	set := MustNew("no", "none", "nonexistent", "one", "n")

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"n", "n", true},
		{"no", "no", true},
		{"none", "none", true},
		{"one", "one", true},
		{"nonexistent", "nonexistent", true},
		{"non", "", false},
		{"nonexist", "", false},
		{"nonee", "", false},
		{"xnone", "", false},
		{"nn", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := set.TryParse(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("TryParse(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSetRejectsNUL(t *testing.T) {
	set := MustNew("a", "b")
	for _, in := range []string{"\x00", "a\x00", "\x00a\x00", "a\x00b"} {
		if got, ok := set.TryParse(in); ok {
			t.Errorf("TryParse(%q) = (%q, true), want no match", in, got)
		}
	}
}

func TestSetFold(t *testing.T) {
	set := MustNewFold("NULL", "True", "null")

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (null duplicates NULL)", set.Len())
	}
	if _, ok := set.TryParse("NUL"); ok {
		t.Error("TryParse(NUL) matched a prefix of NULL")
	}

	for _, in := range []string{"null", "NULL", "NuLl"} {
		got, ok := set.TryParse(in)
		if !ok || got != "NULL" {
			t.Errorf("TryParse(%q) = (%q, %v), want (NULL, true)", in, got, ok)
		}
	}
	if got, ok := set.TryParse("TRUE"); !ok || got != "True" {
		t.Errorf("TryParse(TRUE) = (%q, %v), want (True, true)", got, ok)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrEmptySet) {
		t.Errorf("New() error = %v, want ErrEmptySet", err)
	}
	if _, err := New("a", ""); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("New(a, \"\") error = %v, want ErrEmptyWord", err)
	}
	if _, err := NewFold("a", "b\x00"); !errors.Is(err, ErrNULWord) {
		t.Errorf("NewFold(a, b\\x00) error = %v, want ErrNULWord", err)
	}
}

func TestWordsKeepsDeclarationOrder(t *testing.T) {
	set := MustNew("c", "a", "b", "a")
	want := []string{"c", "a", "b"}
	if got := set.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
}

// TestSetAfterPattern merges a Set into a PatternLexer. The Set becomes a
// delegate alternative and only sees inputs no regex alternative matched.
func TestSetAfterPattern(t *testing.T) {
	calls := 0
	kw := MustNew("null", "123")
	counting := relex.Func[string](func(s string) (string, bool) {
		calls++
		return kw.TryParse(s)
	})

	l := relex.MustFrom(`(\d+)`).Or(counting)

	if got, ok := l.TryParse("123"); !ok || got != "123" {
		t.Fatalf("TryParse(123) = (%q, %v)", got, ok)
	}
	if calls != 0 {
		t.Fatalf("keyword lexer consulted although a regex alternative matched")
	}

	if got, ok := l.TryParse("null"); !ok || got != "null" {
		t.Fatalf("TryParse(null) = (%q, %v)", got, ok)
	}
	if _, ok := l.TryParse("nil"); ok {
		t.Fatal("TryParse(nil) matched")
	}
	if calls != 2 {
		t.Errorf("keyword lexer consulted %d times, want 2", calls)
	}

	direct := relex.MustFrom(`(\d+)`).Or(kw)
	if got, ok := direct.TryParse("null"); !ok || got != "null" {
		t.Errorf("pattern.Or(set).TryParse(null) = (%q, %v)", got, ok)
	}

	// Alternatives after the Set still see inputs it declines.
	after := direct.With(`([a-z]+)`, func(s string) string { return "w:" + s })
	if got, ok := after.TryParse("null"); !ok || got != "null" {
		t.Errorf("TryParse(null) after With = (%q, %v)", got, ok)
	}
	if got, ok := after.TryParse("nil"); !ok || got != "w:nil" {
		t.Errorf("TryParse(nil) after With = (%q, %v), want (w:nil, true)", got, ok)
	}
}

func TestSetOrAndWith(t *testing.T) {
	set := MustNew("yes", "no")
	l := set.With(`(\d+)`, func(s string) string { return "#" + s })

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"yes", "yes", true},
		{"7", "#7", true},
		{"maybe", "", false},
	}
	for _, tt := range tests {
		got, ok := l.TryParse(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("TryParse(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}

	if l2 := set.Or(relex.Empty[string]()); l2 != relex.Lexer[string](set) {
		t.Error("Or(Empty) should return the set itself")
	}
}
