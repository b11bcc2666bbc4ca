package conv

import (
	"math"
	"strconv"
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"-7", -7, true},
		{"", 0, false},
		{"4x", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Int(tt.in)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Int(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestUint32(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint32
		ok   bool
	}{
		{"zero", "0", 0, true},
		{"max", strconv.FormatUint(math.MaxUint32, 10), math.MaxUint32, true},
		{"overflow", strconv.FormatUint(math.MaxUint32+1, 10), 0, false},
		{"negative", "-1", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Uint32(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Uint32(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestInt64AndFloat64(t *testing.T) {
	if n, ok := Int64("9223372036854775807"); !ok || n != math.MaxInt64 {
		t.Errorf("Int64(max) = (%d, %v)", n, ok)
	}
	if _, ok := Int64("9223372036854775808"); ok {
		t.Error("Int64 accepted an overflowing value")
	}
	if f, ok := Float64("2.5e3"); !ok || f != 2500 {
		t.Errorf("Float64(2.5e3) = (%v, %v)", f, ok)
	}
	if _, ok := Float64("1.2.3"); ok {
		t.Error("Float64 accepted 1.2.3")
	}
}

func TestBoolDurationTrim(t *testing.T) {
	if b, ok := Bool("true"); !ok || !b {
		t.Errorf("Bool(true) = (%v, %v)", b, ok)
	}
	if _, ok := Bool("yes"); ok {
		t.Error("Bool accepted yes")
	}
	if d, ok := Duration("1h30m"); !ok || d != 90*time.Minute {
		t.Errorf("Duration(1h30m) = (%v, %v)", d, ok)
	}
	if _, ok := Duration("soon"); ok {
		t.Error("Duration accepted soon")
	}
	if s, ok := Trim("  word \t"); !ok || s != "word" {
		t.Errorf("Trim = (%q, %v)", s, ok)
	}
	if _, ok := Trim("   "); ok {
		t.Error("Trim accepted blank text")
	}
	if s, ok := String(" x "); !ok || s != " x " {
		t.Errorf("String = (%q, %v)", s, ok)
	}
}
