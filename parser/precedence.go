package parser

import "github.com/shrimp-lang/shrimp/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	COND    // and, or
	EQUALS  // = != < > <= >=
	SUM     // + -
	PRODUCT // * /
)

// Precedences for each binary operator
var precedences = map[token.Kind]int{
	token.And:   COND,
	token.Or:    COND,
	token.Eq:    EQUALS,
	token.NotEq: EQUALS,
	token.Lt:    EQUALS,
	token.Gt:    EQUALS,
	token.LtEq:  EQUALS,
	token.GtEq:  EQUALS,
	token.Plus:  SUM,
	token.Minus: SUM,
	token.Star:  PRODUCT,
	token.Slash: PRODUCT,
}

// Acceptance sets handed to the lexer.
var (
	// exprStart holds the tokens that can begin an expression.
	exprStart = token.SetOf(
		token.Number, token.Boolean, token.Regex, token.Quote,
		token.Identifier, token.IdentifierBeforeDot, token.Word,
		token.LParen, token.Fn, token.If,
	)

	// stmtStart adds assignment targets.
	stmtStart = exprStart.With(token.AssignableIdentifier)

	// argStart adds named argument prefixes.
	argStart = exprStart.With(token.NamedArgPrefix)

	binaryOps = token.SetOf(
		token.Plus, token.Minus, token.Star, token.Slash,
		token.Eq, token.NotEq, token.Lt, token.Gt, token.LtEq, token.GtEq,
		token.And, token.Or,
	)

	separators = token.SetOf(token.Newline, token.Semicolon)

	// closers end a block or an inline body.
	fnClosers = token.SetOf(token.End)
	ifClosers = token.SetOf(token.Elsif, token.Else, token.End)
)

// boundary reports whether tok cannot start or continue an expression, so
// that a missing operand should be reported without consuming it.
func boundary(tok token.Token) bool {
	switch tok.Kind {
	case token.EOF, token.Newline, token.Semicolon, token.RParen, token.Colon,
		token.Pipe, token.End, token.Elsif, token.Else:
		return true
	}
	return false
}
