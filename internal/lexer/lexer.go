// Package lexer classifies terminals for the parser.
//
// The lexer has no cursor of its own. The parser passes the offset to read
// from, the set of token kinds it could accept there, and the scope visible at
// that point; the lexer returns the longest valid token. Because the result is
// a pure function of those three inputs, the parser may peek and backtrack
// freely, and results are memoized.
//
// Bare words are ambiguous. A run like `readme.txt` is a file name unless
// `readme` is a bound name, in which case it is a property access. A run like
// `x` at the start of a statement is an assignment target if an `=` follows.
// These questions are answered here, using the acceptance set and the scope.
package lexer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shrimp-lang/shrimp/internal/token"
)

// Scope is the view of bound names the lexer needs.
type Scope interface {
	Has(name string) bool
	Hash() uint64
}

type cacheKey struct {
	pos    int
	accept token.Set
	scope  uint64
}

// Lexer tokenizes one source text.
type Lexer struct {
	src   string
	cache map[cacheKey]token.Token
	hits  int
}

// New returns a Lexer for the given source text.
func New(src string) *Lexer {
	return &Lexer{src: src, cache: map[cacheKey]token.Token{}}
}

// Source returns the text being tokenized.
func (l *Lexer) Source() string {
	return l.src
}

// CacheHits returns how many Next calls were answered from the memo.
func (l *Lexer) CacheHits() int {
	return l.hits
}

func (l *Lexer) runeAt(pos int) (rune, int) {
	if pos < 0 || pos >= len(l.src) {
		return eof, 0
	}
	return utf8.DecodeRuneInString(l.src[pos:])
}

func (l *Lexer) tok(kind token.Kind, start, end int) token.Token {
	return token.Token{Kind: kind, Text: l.src[start:end], Span: token.Span{Start: start, End: end}}
}

// SkipSpace returns the offset of the first character at or after pos that
// is not a space or tab. Newlines are skipped too unless they are
// significant.
func (l *Lexer) SkipSpace(pos int, newlines bool) int {
	for pos < len(l.src) {
		switch l.src[pos] {
		case ' ', '\t', '\r':
			pos++
		case '\n':
			if newlines {
				return pos
			}
			pos++
		default:
			return pos
		}
	}
	return pos
}

// Next returns the token starting at or after pos, given the kinds the
// parser can accept there and the scope in effect. sc may be nil.
func (l *Lexer) Next(pos int, accept token.Set, sc Scope) token.Token {
	var hash uint64
	if sc != nil {
		hash = sc.Hash()
	}
	key := cacheKey{pos: pos, accept: accept, scope: hash}
	if tok, ok := l.cache[key]; ok {
		l.hits++
		return tok
	}
	tok := l.next(pos, accept, sc)
	l.cache[key] = tok
	return tok
}

var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

func (l *Lexer) next(pos int, accept token.Set, sc Scope) token.Token {
	pos = l.SkipSpace(pos, accept.Has(token.Newline))
	if pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Span: token.Span{Start: len(l.src), End: len(l.src)}}
	}
	r, w := l.runeAt(pos)
	switch r {
	case '\n':
		return l.tok(token.Newline, pos, pos+1)
	case '(':
		return l.tok(token.LParen, pos, pos+1)
	case ')':
		return l.tok(token.RParen, pos, pos+1)
	case ';':
		return l.tok(token.Semicolon, pos, pos+1)
	case ':':
		return l.tok(token.Colon, pos, pos+1)
	case '\'', '"':
		return l.tok(token.Quote, pos, pos+1)
	case '.':
		if accept.Has(token.Dot) {
			return l.tok(token.Dot, pos, pos+1)
		}
	}
	if accept.Has(token.Regex) && strings.HasPrefix(l.src[pos:], "//") {
		if tok, ok := l.scanRegex(pos); ok {
			return tok
		}
	}

	canBeWord := accept.Has(token.Word)
	raw, _ := l.scanRun(pos, true, false, false, nil)
	text := l.src[pos:raw]
	if kind, ok := token.LookupOperator(text); ok && accept.Has(kind) {
		return l.tok(kind, pos, raw)
	}
	if numberPattern.MatchString(text) && accept.Has(token.Number) {
		return l.tok(token.Number, pos, raw)
	}
	if !canBeWord {
		// Where no word may start, an operator glued to its operand still
		// counts: `x*2` after a bound `x`.
		for n := min(2, len(text)); n > 0; n-- {
			if kind, ok := token.LookupOperator(text[:n]); ok && accept.Has(kind) {
				return l.tok(kind, pos, pos+n)
			}
		}
	}

	stopAtEq := accept.Has(token.NamedArgPrefix) || accept.Has(token.AssignableIdentifier)
	splitOps := !accept.Has(token.NamedArgPrefix)
	var bound Scope
	if accept.Has(token.IdentifierBeforeDot) {
		bound = sc
	}
	end, sh := l.scanRun(pos, canBeWord, stopAtEq, splitOps, bound)
	if end == pos {
		return l.tok(token.Illegal, pos, pos+w)
	}
	text = l.src[pos:end]

	switch sh {
	case shapeBeforeDot:
		return l.tok(token.IdentifierBeforeDot, pos, end)
	case shapeIdent:
		if kind, ok := token.LookupKeyword(text); ok {
			return l.tok(kind, pos, end)
		}
		if next, _ := l.runeAt(end); next == '=' {
			if accept.Has(token.NamedArgPrefix) {
				return l.tok(token.NamedArgPrefix, pos, end+1)
			}
		}
		if accept.Has(token.AssignableIdentifier) && l.assignFollows(end) {
			return l.tok(token.AssignableIdentifier, pos, end)
		}
		return l.tok(token.Identifier, pos, end)
	}
	if !canBeWord {
		return l.tok(token.Illegal, pos, end)
	}
	return l.tok(token.Word, pos, end)
}

type shape int

const (
	shapeIdent shape = iota
	shapeWord
	shapeBeforeDot
)

// scanRun consumes a run of word characters starting at pos and reports
// where it ends and how it is shaped. When sc is set, an identifier-shaped
// prefix that is bound in sc ends the run before a `.`, and before an
// operator character if splitOps is set.
func (l *Lexer) scanRun(pos int, canBeWord, stopAtEq, splitOps bool, sc Scope) (int, shape) {
	start := pos
	identShaped := true
	for pos < len(l.src) {
		r, w := l.runeAt(pos)
		if !isWordChar(r) {
			break
		}
		if r == '\\' {
			if !canBeWord {
				break
			}
			identShaped = false
			pos += w
			if _, ew := l.runeAt(pos); ew > 0 {
				pos += ew
			}
			continue
		}
		if r == ';' || r == ':' {
			next, _ := l.runeAt(pos + w)
			if !canBeWord || !isWordChar(next) {
				break
			}
		}
		if identShaped && pos > start {
			if r == '=' && stopAtEq {
				return pos, shapeIdent
			}
			if sc != nil && (r == '.' || (splitOps && isOpChar(r))) && sc.Has(l.src[start:pos]) {
				if r == '.' {
					return pos, shapeBeforeDot
				}
				return pos, shapeIdent
			}
		}
		if identShaped {
			ok := isIdentChar(r)
			if pos == start {
				ok = isIdentStart(r)
			}
			if !ok {
				if !canBeWord {
					break
				}
				identShaped = false
			}
		}
		pos += w
	}
	if !identShaped {
		return pos, shapeWord
	}
	return pos, shapeIdent
}

// assignFollows reports whether the next non-blank character after pos is a
// single `=`.
func (l *Lexer) assignFollows(pos int) bool {
	pos = l.SkipSpace(pos, true)
	if pos >= len(l.src) || l.src[pos] != '=' {
		return false
	}
	return pos+1 >= len(l.src) || l.src[pos+1] != '='
}

// scanRegex matches `//pattern//flags` at pos.
func (l *Lexer) scanRegex(pos int) (token.Token, bool) {
	body := pos + 2
	idx := strings.Index(l.src[body:], "//")
	if idx <= 0 {
		return token.Token{}, false
	}
	if strings.ContainsRune(l.src[body : body+idx], '\n') {
		return token.Token{}, false
	}
	end := body + idx + 2
	for end < len(l.src) && isLower(rune(l.src[end])) {
		end++
	}
	if r, w := l.runeAt(end); isWordChar(r) {
		// `;` and `:` still end the literal when nothing word-like follows.
		if r != ';' && r != ':' {
			return token.Token{}, false
		}
		if next, _ := l.runeAt(end + w); isWordChar(next) {
			return token.Token{}, false
		}
	}
	return l.tok(token.Regex, pos, end), true
}

// interp matches `$name` or `$(` at pos.
func (l *Lexer) interp(pos int) (token.Token, bool) {
	next, w := l.runeAt(pos + 1)
	if next == '(' {
		return l.tok(token.InterpOpen, pos, pos+2), true
	}
	if !isInterpStart(next) {
		return token.Token{}, false
	}
	end := pos + 1 + w
	for {
		r, rw := l.runeAt(end)
		if r == '-' {
			// A hyphen belongs to the name only when more name follows.
			if after, _ := l.runeAt(end + rw); isInterpChar(after) {
				end += rw
				continue
			}
			break
		}
		if !isInterpChar(r) {
			break
		}
		end += rw
	}
	return token.Token{
		Kind: token.InterpIdent,
		Text: l.src[pos+1 : end],
		Span: token.Span{Start: pos, End: end},
	}, true
}

func (l *Lexer) escape(pos int) token.Token {
	_, w := l.runeAt(pos + 1)
	return l.tok(token.EscapeSeq, pos, pos+1+w)
}

// WordFragment returns the next piece of a bare word starting at pos: a run
// of literal text, an escape, an interpolation opener, or FragmentEnd when
// the word is over.
func (l *Lexer) WordFragment(pos int) token.Token {
	r, w := l.runeAt(pos)
	if !isWordChar(r) {
		return token.Token{Kind: token.FragmentEnd, Span: token.Span{Start: pos, End: pos}}
	}
	if r == ';' || r == ':' {
		if next, _ := l.runeAt(pos + w); !isWordChar(next) {
			return token.Token{Kind: token.FragmentEnd, Span: token.Span{Start: pos, End: pos}}
		}
	}
	if r == '\\' && pos+w < len(l.src) {
		return l.escape(pos)
	}
	if r == '$' {
		if tok, ok := l.interp(pos); ok {
			return tok
		}
	}
	end := pos + w
	for end < len(l.src) {
		r, w := l.runeAt(end)
		if !isWordChar(r) || r == '\\' {
			break
		}
		if r == '$' {
			if _, ok := l.interp(end); ok {
				break
			}
		}
		if r == ';' || r == ':' {
			if next, _ := l.runeAt(end + w); !isWordChar(next) {
				break
			}
		}
		end += w
	}
	return l.tok(token.Fragment, pos, end)
}

// StringFragment returns the next piece of a quoted string starting at pos.
// It returns Quote at the closing quote and EOF if the string is
// unterminated.
func (l *Lexer) StringFragment(pos int, quote rune) token.Token {
	r, w := l.runeAt(pos)
	switch {
	case r == eof:
		return token.Token{Kind: token.EOF, Span: token.Span{Start: len(l.src), End: len(l.src)}}
	case r == quote:
		return l.tok(token.Quote, pos, pos+w)
	case r == '\\' && pos+w < len(l.src):
		return l.escape(pos)
	case r == '$':
		if tok, ok := l.interp(pos); ok {
			return tok
		}
	}
	end := pos + w
	for end < len(l.src) {
		r, w := l.runeAt(end)
		if r == quote || r == '\\' {
			break
		}
		if r == '$' {
			if _, ok := l.interp(end); ok {
				break
			}
		}
		end += w
	}
	return l.tok(token.Fragment, pos, end)
}

// Unescape decodes the text of an escape sequence such as `\n`. Escapes
// without a special meaning decode to the escaped character itself.
func Unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	switch seq[1:] {
	case "n":
		return "\n"
	case "t":
		return "\t"
	case "r":
		return "\r"
	}
	return seq[1:]
}
