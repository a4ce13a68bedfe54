package bytecode

import (
	"math"
	"strconv"
)

// Kind identifies the type of a literal Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	RegexKind
)

var kindNames = [...]string{
	NullKind:   "null",
	BoolKind:   "boolean",
	NumberKind: "number",
	StringKind: "string",
	RegexKind:  "regex",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a literal operand of PUSH. Regex values hold the pattern in Str
// and their flags in Flags.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Flags  string
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: NullKind}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: BoolKind, Bool: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{Kind: NumberKind, Number: n}
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: StringKind, Str: s}
}

// Regex returns a regular expression value.
func Regex(pattern, flags string) Value {
	return Value{Kind: RegexKind, Str: pattern, Flags: flags}
}

// String renders the value as it appears in a listing. Strings are quoted.
func (v Value) String() string {
	if v.Kind == StringKind {
		return strconv.Quote(v.Str)
	}
	return v.Display()
}

// Display renders the value the way string concatenation shows it.
func (v Value) Display() string {
	switch v.Kind {
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	case NumberKind:
		return FormatNumber(v.Number)
	case StringKind:
		return v.Str
	case RegexKind:
		return "//" + v.Str + "//" + v.Flags
	}
	return "null"
}

// Truthy reports whether the value counts as true in a condition. Only
// false and null are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case NullKind:
		return false
	case BoolKind:
		return v.Bool
	}
	return true
}

// FormatNumber renders n without a fractional part when it is integral.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
