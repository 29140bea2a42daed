// Package model defines the core data structures used throughout kelora:
// the scalar Value union and the canonical Event record.
package model

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
)

// Value is a tagged union of the scalar types that can appear in a log field.
// Consumers switch on Kind and must handle every variant; there is no
// implicit any-typed escape hatch.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	lit  string
}

// String creates a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int creates an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float creates a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// FloatLit creates a floating-point Value that remembers the numeral it was
// parsed from. Text renders that literal verbatim, so a parsed float comes
// back out exactly as it appeared in the input.
func FloatLit(f float64, lit string) Value {
	return Value{kind: KindFloat, f: f, lit: lit}
}

// Bool creates a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null creates a null Value.
func Null() Value { return Value{kind: KindNull} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload. Only meaningful for KindString.
func (v Value) Str() string { return v.str }

// IntVal returns the integer payload. Only meaningful for KindInt.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload. Only meaningful for KindFloat.
func (v Value) FloatVal() float64 { return v.f }

// BoolVal returns the boolean payload. Only meaningful for KindBool.
func (v Value) BoolVal() bool { return v.b }

// Native returns the payload as a plain Go value (nil for null).
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Text renders the value in its native textual form: integers without a
// decimal point, floats with at least one fractional digit or an exponent,
// bools as bare true/false, null as the empty string. Floats built with
// FloatLit reproduce their original numeral; synthesized floats fall back to
// decimal notation so small magnitudes never flip to exponent form. Strings
// are returned verbatim; quoting is the formatter's concern.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.lit != "" {
			return v.lit
		}
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
