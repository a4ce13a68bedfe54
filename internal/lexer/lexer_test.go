package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shrimp-lang/shrimp/internal/token"
)

type names map[string]bool

func (n names) Has(name string) bool { return n[name] }

func (n names) Hash() uint64 { return uint64(len(n)) }

var (
	statementStart = token.SetOf(token.Number, token.Boolean, token.Regex, token.Quote,
		token.Identifier, token.AssignableIdentifier, token.IdentifierBeforeDot,
		token.Word, token.LParen, token.Fn, token.If, token.Newline, token.Semicolon)
	argStart = token.SetOf(token.Number, token.Boolean, token.Regex, token.Quote,
		token.Identifier, token.IdentifierBeforeDot, token.NamedArgPrefix, token.Word,
		token.LParen, token.Fn, token.If, token.Pipe, token.Newline, token.Semicolon)
	operators = token.SetOf(token.Plus, token.Minus, token.Star, token.Slash,
		token.Eq, token.NotEq, token.Lt, token.Gt, token.LtEq, token.GtEq,
		token.And, token.Or, token.Pipe, token.Newline, token.Semicolon)
)

func TestNext(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		accept token.Set
		scope  names
		kind   token.Kind
		text   string
	}{
		{"identifier", "hello", statementStart, nil, token.Identifier, "hello"},
		{"emoji identifier", "🍤 ", statementStart, nil, token.Identifier, "🍤"},
		{"hyphenated identifier", "get-five", statementStart, nil, token.Identifier, "get-five"},
		{"unbound dotted word", "readme.txt", statementStart, nil, token.Word, "readme.txt"},
		{"bound dotted name", "obj.prop", statementStart, names{"obj": true}, token.IdentifierBeforeDot, "obj"},
		{"word with semicolon", "hello;world", statementStart, nil, token.Word, "hello;world"},
		{"semicolon separator", "hello; 2", statementStart, nil, token.Identifier, "hello"},
		{"path word", "./bin/run", statementStart, nil, token.Word, "./bin/run"},
		{"number", "42", statementStart, nil, token.Number, "42"},
		{"negative number", "-5", statementStart, nil, token.Number, "-5"},
		{"decimal number", "3.14", statementStart, nil, token.Number, "3.14"},
		{"boolean", "true", statementStart, nil, token.Boolean, "true"},
		{"keyword", "fn x: x end", statementStart, nil, token.Fn, "fn"},
		{"assignable", "x = 5", statementStart, nil, token.AssignableIdentifier, "x"},
		{"assignable without spaces", "x=5", statementStart, nil, token.AssignableIdentifier, "x"},
		{"comparison is not assignment", "x == 5", statementStart, nil, token.Identifier, "x"},
		{"named argument", "lines=5", argStart, nil, token.NamedArgPrefix, "lines="},
		{"flag word", "--force", argStart, nil, token.Word, "--force"},
		{"operator rejected in args", "+", argStart, nil, token.Word, "+"},
		{"pipe accepted in args", "| grep", argStart, nil, token.Pipe, "|"},
		{"operator", "+ 3", operators, nil, token.Plus, "+"},
		{"less or equal", "<= 3", operators, nil, token.LtEq, "<="},
		{"and keyword", "and b", operators, nil, token.And, "and"},
		{"regex", "//[a-z]+//gi", statementStart, nil, token.Regex, "//[a-z]+//gi"},
		{"regex before semicolon", "//hello//; p", statementStart, nil, token.Regex, "//hello//"},
		{"regex with flags before semicolon", "//a//i;", statementStart, nil, token.Regex, "//a//i"},
		{"regex escape before semicolon", `//\d+//;`, statementStart, nil, token.Regex, `//\d+//`},
		{"regex before colon", "//a//: x", statementStart, nil, token.Regex, "//a//"},
		{"regex glued to word", "//a//;b", statementStart, nil, token.Word, "//a//;b"},
		{"quote", "'hi'", statementStart, nil, token.Quote, "'"},
		{"paren", "(1)", statementStart, nil, token.LParen, "("},
		{"newline significant", "\nx", statementStart, nil, token.Newline, "\n"},
		{"newline skipped", "\n  x", token.SetOf(token.Identifier), nil, token.Identifier, "x"},
		{"eof", "   ", statementStart, nil, token.EOF, ""},
		{"operator glued to operand", "*2", operators, nil, token.Star, "*"},
		{"bound name before operator", "a+b", statementStart, names{"a": true}, token.Identifier, "a"},
		{"unbound name before operator", "a+b", statementStart, nil, token.Word, "a+b"},
		{"bound name in argument", "a+b", argStart, names{"a": true}, token.Word, "a+b"},
		{"illegal in params", "X:", token.SetOf(token.Identifier, token.Colon), nil, token.Illegal, "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			var sc Scope
			if tt.scope != nil {
				sc = tt.scope
			}
			tok := l.Next(0, tt.accept, sc)
			require.Equal(t, tt.kind, tok.Kind, "got %s %q", tok.Kind, tok.Text)
			require.Equal(t, tt.text, tok.Text)
		})
	}
}

func TestNextMemo(t *testing.T) {
	l := New("hello world")
	first := l.Next(0, statementStart, nil)
	second := l.Next(0, statementStart, nil)
	require.Equal(t, first, second)
	require.Equal(t, 1, l.CacheHits())

	// A different scope is a different question.
	l.Next(0, statementStart, names{"hello": true})
	require.Equal(t, 1, l.CacheHits())
}

func TestWordFragments(t *testing.T) {
	l := New(`out-$name\ x.txt rest`)
	var got []token.Kind
	var texts []string
	pos := 0
	for {
		tok := l.WordFragment(pos)
		got = append(got, tok.Kind)
		texts = append(texts, tok.Text)
		if tok.Kind == token.FragmentEnd {
			break
		}
		pos = tok.Span.End
	}
	require.Equal(t, []token.Kind{
		token.Fragment, token.InterpIdent, token.EscapeSeq, token.Fragment, token.FragmentEnd,
	}, got)
	require.Equal(t, []string{"out-", "name", `\ `, "x.txt", ""}, texts)
}

func TestInterpolationHyphen(t *testing.T) {
	l := New(`$var-\$end`)
	tok := l.WordFragment(0)
	require.Equal(t, token.InterpIdent, tok.Kind)
	require.Equal(t, "var", tok.Text)

	tok = l.WordFragment(tok.Span.End)
	require.Equal(t, token.Fragment, tok.Kind)
	require.Equal(t, "-", tok.Text)

	tok = l.WordFragment(tok.Span.End)
	require.Equal(t, token.EscapeSeq, tok.Kind)
	require.Equal(t, `\$`, tok.Text)
}

func TestStringFragments(t *testing.T) {
	src := `'a $b $(c) \n'`
	l := New(src)
	pos := 1
	var got []token.Kind
	for {
		tok := l.StringFragment(pos, '\'')
		got = append(got, tok.Kind)
		if tok.Kind == token.Quote || tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.InterpOpen {
			// skip the expression and its closing paren
			pos = tok.Span.End + 2
			continue
		}
		pos = tok.Span.End
	}
	require.Equal(t, []token.Kind{
		token.Fragment, token.InterpIdent, token.Fragment, token.InterpOpen,
		token.Fragment, token.EscapeSeq, token.Quote,
	}, got)

	unterminated := New(`'abc`)
	tok := unterminated.StringFragment(1, '\'')
	require.Equal(t, token.Fragment, tok.Kind)
	require.Equal(t, token.EOF, unterminated.StringFragment(tok.Span.End, '\'').Kind)
}

func TestUnescape(t *testing.T) {
	require.Equal(t, "\n", Unescape(`\n`))
	require.Equal(t, "\t", Unescape(`\t`))
	require.Equal(t, "$", Unescape(`\$`))
	require.Equal(t, " ", Unescape(`\ `))
	require.Equal(t, "x", Unescape("x"))
}

func TestIsIdentifier(t *testing.T) {
	require.True(t, IsIdentifier("get-five"))
	require.True(t, IsIdentifier("a1"))
	require.False(t, IsIdentifier("1a"))
	require.False(t, IsIdentifier("Upper"))
	require.False(t, IsIdentifier(""))
}
