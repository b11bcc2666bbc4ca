// Package conv provides partial mappers for captured text.
//
// Each function has the shape func(string) (T, bool) expected by
// PatternLexer.WithPartial and relex.MapPartial. A false result means the
// captured text, although matched by the regex, does not convert (for
// example a digit run that overflows), and the lexer reports no match
// instead of panicking.
package conv

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Int parses a base-10 int.
func Int(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Int64 parses a base-10 int64.
func Int64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// Uint32 parses a base-10 unsigned integer and rejects values outside the
// uint32 range.
func Uint32(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

// Float64 parses a 64-bit float.
func Float64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// Bool parses the forms accepted by strconv.ParseBool.
func Bool(s string) (bool, bool) {
	b, err := strconv.ParseBool(s)
	return b, err == nil
}

// Duration parses a time.Duration such as "1h30m".
func Duration(s string) (time.Duration, bool) {
	d, err := time.ParseDuration(s)
	return d, err == nil
}

// Trim strips surrounding white space and rejects blank text.
func Trim(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// String accepts the captured text unchanged.
func String(s string) (string, bool) {
	return s, true
}
