// Package token defines the terminal kinds produced when lexing source code.
package token

import (
	"strings"
	"unicode/utf8"
)

// Kind identifies the type of a token.
type Kind uint8

// Token kinds
const (
	Illegal Kind = iota
	EOF
	Newline
	Semicolon
	Colon
	LParen
	RParen
	Pipe
	Dot

	// Literals and names
	Number
	Boolean
	Regex
	Quote
	Identifier
	AssignableIdentifier
	IdentifierBeforeDot
	NamedArgPrefix
	Word

	// Keywords
	Fn
	End
	If
	Elsif
	Else
	And
	Or

	// Operators
	Plus
	Minus
	Star
	Slash
	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq

	// Fragments produced inside strings and words
	Fragment
	EscapeSeq
	InterpIdent
	InterpOpen
	FragmentEnd

	kindCount
)

var names = [...]string{
	Illegal:              "ILLEGAL",
	EOF:                  "EOF",
	Newline:              "NEWLINE",
	Semicolon:            ";",
	Colon:                ":",
	LParen:               "(",
	RParen:               ")",
	Pipe:                 "|",
	Dot:                  ".",
	Number:               "NUMBER",
	Boolean:              "BOOLEAN",
	Regex:                "REGEX",
	Quote:                "QUOTE",
	Identifier:           "IDENTIFIER",
	AssignableIdentifier: "ASSIGNABLE_IDENTIFIER",
	IdentifierBeforeDot:  "IDENTIFIER_BEFORE_DOT",
	NamedArgPrefix:       "NAMED_ARG_PREFIX",
	Word:                 "WORD",
	Fn:                   "fn",
	End:                  "end",
	If:                   "if",
	Elsif:                "elsif",
	Else:                 "else",
	And:                  "and",
	Or:                   "or",
	Plus:                 "+",
	Minus:                "-",
	Star:                 "*",
	Slash:                "/",
	Eq:                   "=",
	NotEq:                "!=",
	Lt:                   "<",
	Gt:                   ">",
	LtEq:                 "<=",
	GtEq:                 ">=",
	Fragment:             "FRAGMENT",
	EscapeSeq:            "ESCAPE",
	InterpIdent:          "INTERP_IDENT",
	InterpOpen:           "INTERP_OPEN",
	FragmentEnd:          "FRAGMENT_END",
}

func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= Fn && k <= Or
}

// IsOperator reports whether the kind is a symbolic binary operator.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= GtEq
}

var keywords = map[string]Kind{
	"fn":    Fn,
	"end":   End,
	"if":    If,
	"elsif": Elsif,
	"else":  Else,
	"and":   And,
	"or":    Or,
	"true":  Boolean,
	"false": Boolean,
}

// LookupKeyword returns the kind for a reserved word and whether the text
// is reserved at all.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

var operators = map[string]Kind{
	"+":  Plus,
	"-":  Minus,
	"*":  Star,
	"/":  Slash,
	"=":  Eq,
	"!=": NotEq,
	"<":  Lt,
	">":  Gt,
	"<=": LtEq,
	">=": GtEq,
	"|":  Pipe,
}

// LookupOperator returns the operator kind spelled exactly by text.
func LookupOperator(text string) (Kind, bool) {
	k, ok := operators[text]
	return k, ok
}

// Span is a half-open range of byte offsets into the source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the slice of src covered by the span.
func (s Span) Text(src string) string {
	if s.Start < 0 || s.End > len(src) || s.Start > s.End {
		return ""
	}
	return src[s.Start:s.End]
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	if o.Start < s.Start {
		s.Start = o.Start
	}
	if o.End > s.End {
		s.End = o.End
	}
	return s
}

// Token represents one token lexed from the input source code.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// Set is a set of token kinds, used to describe which terminals the parser
// can accept at a given point.
type Set uint64

// SetOf returns a set containing the given kinds.
func SetOf(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// With returns a copy of the set with the given kinds added.
func (s Set) With(kinds ...Kind) Set {
	return s | SetOf(kinds...)
}

// Without returns a copy of the set with the given kinds removed.
func (s Set) Without(kinds ...Kind) Set {
	return s &^ SetOf(kinds...)
}

func (s Set) String() string {
	var parts []string
	for k := Kind(0); k < kindCount; k++ {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Position points to a particular location in an input string.
type Position struct {
	Offset int // byte offset within the source
	Line   int // 0-indexed line number
	Column int // 0-indexed column, counted in runes
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// PositionOf converts a byte offset in src to a line and rune column.
// Offsets past the end of the input are clamped.
func PositionOf(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return Position{
		Offset: offset,
		Line:   strings.Count(src[:lineStart], "\n"),
		Column: utf8.RuneCountInString(src[lineStart:offset]),
	}
}
