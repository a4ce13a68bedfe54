// Package parser builds the concrete syntax tree for a Shrimp program.
//
// The parser is a recursive descent parser that drives the lexer directly:
// at every step it tells the lexer which token kinds it can accept and which
// names are in scope, and the lexer resolves ambiguous runs of text
// accordingly. The parser never fails. Input it cannot fit into the grammar
// becomes Error nodes in the tree and is reported through Err.
package parser

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/lexer"
	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/registry"
	"github.com/shrimp-lang/shrimp/scope"
)

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Commands is the command lookup the parser consults to recognize a bare
// command name as a call. *registry.Registry implements it.
type Commands interface {
	Lookup(prefix string) registry.Match
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in syntax errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithCommands makes a bare, unbound name that is exactly a known command
// parse as a call with no arguments instead of a FunctionCallOrIdentifier.
func WithCommands(c Commands) Option {
	return func(p *Parser) {
		p.commands = c
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = logger
	}
}

// Parser object. A Parser is used for a single parse.
type Parser struct {
	ctx      context.Context
	src      string
	l        *lexer.Lexer
	commands Commands
	log      zerolog.Logger
	filename string

	// pos is the offset just past the last consumed token.
	pos int

	// sc tracks bound names; it is replaced, never mutated.
	sc scope.Context

	// parens counts the enclosing parentheses. Newlines inside them do not
	// end statements.
	parens int

	depth    int
	maxDepth int

	errs   []*errors.SyntaxError
	halted bool

	trace []token.Token
}

// New returns a Parser for input.
func New(input string, options ...Option) *Parser {
	p := &Parser{
		src:      input,
		l:        lexer.New(input),
		log:      zerolog.Nop(),
		maxDepth: DefaultMaxDepth,
		sc:       scope.NewContext(scope.NewArena()),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Parse the provided input as Shrimp source code. The tree is always
// returned; the error aggregates every syntax error found in it.
func Parse(ctx context.Context, input string, options ...Option) (*cst.Node, error) {
	p := New(input, options...)
	tree := p.Parse(ctx)
	return tree, p.Err()
}

// Parse parses the whole input and returns its tree.
func (p *Parser) Parse(ctx context.Context) *cst.Node {
	p.ctx = ctx
	prog := &cst.Node{Kind: cst.Program, Span: token.Span{Start: 0, End: len(p.src)}}
	prog.Children = p.parseStatements(0)
	if p.halted {
		if rest := p.l.SkipSpace(p.pos, false); rest < len(p.src) {
			span := token.Span{Start: rest, End: len(p.src)}
			prog.Children = append(prog.Children, cst.NewError(errors.E1010, span, span.Text(p.src), "parsing stopped"))
			p.pos = len(p.src)
		}
	}
	p.log.Debug().
		Int("statements", len(prog.Children)).
		Int("errors", len(p.errs)).
		Int("cache_hits", p.l.CacheHits()).
		Msg("parsed")
	return prog
}

// Err returns the syntax errors found by Parse, aggregated, or nil.
func (p *Parser) Err() error {
	errs := make([]error, len(p.errs))
	for i, e := range p.errs {
		errs[i] = e
	}
	return errors.Aggregate(errs...)
}

// Errors returns the syntax errors found by Parse.
func (p *Parser) Errors() []*errors.SyntaxError {
	return p.errs
}

// Tokens returns the terminals consumed by Parse, in order, including the
// fragments of strings and words.
func (p *Parser) Tokens() []token.Token {
	return p.trace
}

// Scope returns the scope context at the end of the parse.
func (p *Parser) Scope() scope.Context {
	return p.sc
}

// peek returns the next token without consuming it.
func (p *Parser) peek(accept token.Set) token.Token {
	if p.parens > 0 {
		accept = accept.Without(token.Newline)
	}
	return p.l.Next(p.pos, accept, p.sc)
}

// shift consumes tok and lets the scope tracker see it.
func (p *Parser) shift(tok token.Token) token.Token {
	p.pos = tok.Span.End
	p.sc = p.sc.Shift(tok.Kind, tok.Text)
	p.trace = append(p.trace, tok)
	return tok
}

// advance consumes a string or word fragment.
func (p *Parser) advance(tok token.Token) {
	p.pos = tok.Span.End
	p.trace = append(p.trace, tok)
}

// reduce lets the scope tracker see a completed production.
func (p *Parser) reduce(n *cst.Node) *cst.Node {
	p.sc = p.sc.Reduce(n.Kind)
	return n
}

type state struct {
	pos    int
	sc     scope.Context
	errs   int
	trace  int
	halted bool
}

func (p *Parser) save() state {
	return state{pos: p.pos, sc: p.sc, errs: len(p.errs), trace: len(p.trace), halted: p.halted}
}

func (p *Parser) restore(s state) {
	p.pos = s.pos
	p.sc = s.sc
	p.errs = p.errs[:s.errs]
	p.trace = p.trace[:s.trace]
	p.halted = s.halted
}

// errorAt records a syntax error and returns the error node for it.
func (p *Parser) errorAt(code errors.ErrorCode, span token.Span, message string) *cst.Node {
	if len(p.errs) < MaxErrors {
		err := errors.NewSyntaxError(code, message, span, p.src)
		err.Filename = p.filename
		p.errs = append(p.errs, err)
		p.log.Debug().Str("code", string(code)).Int("offset", span.Start).Msg(message)
	}
	if len(p.errs) >= MaxErrors {
		p.halted = true
	}
	return cst.NewError(code, span, span.Text(p.src), message)
}

// missing records an error for something absent at the current position.
func (p *Parser) missing(code errors.ErrorCode, message string) *cst.Node {
	at := p.l.SkipSpace(p.pos, p.parens == 0)
	return p.errorAt(code, token.Span{Start: at, End: at}, message)
}

// unexpected consumes tok as an error node.
func (p *Parser) unexpected(tok token.Token) *cst.Node {
	p.pos = tok.Span.End
	return p.errorAt(errors.E1001, tok.Span, "unexpected "+describe(tok))
}

// skipStatement consumes input up to the next statement boundary and
// returns it as a single error node.
func (p *Parser) skipStatement(code errors.ErrorCode, message string) *cst.Node {
	start := p.l.SkipSpace(p.pos, p.parens == 0)
	end := start
	depth := 0
scan:
	for end < len(p.src) {
		switch p.src[end] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			} else if p.parens > 0 {
				break scan
			}
		case ';':
			if depth == 0 {
				break scan
			}
		case '\n':
			if depth == 0 && p.parens == 0 {
				break scan
			}
		}
		end++
	}
	if end == start && end < len(p.src) {
		_, w := utf8.DecodeRuneInString(p.src[end:])
		end += w
	}
	for end > start && (p.src[end-1] == ' ' || p.src[end-1] == '\t' || p.src[end-1] == '\r') {
		end--
	}
	p.pos = end
	return p.errorAt(code, token.Span{Start: start, End: end}, message)
}

// cancelled checks if the parsing context has been cancelled.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		if !p.halted {
			at := p.l.SkipSpace(p.pos, false)
			p.errorAt("", token.Span{Start: at, End: at}, p.ctx.Err().Error())
			p.halted = true
		}
		return true
	default:
		return false
	}
}

func (p *Parser) enter() bool {
	p.depth++
	return p.depth <= p.maxDepth
}

func (p *Parser) leave() {
	p.depth--
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Newline:
		return "newline"
	}
	if tok.Kind.IsKeyword() {
		return fmt.Sprintf("keyword %q", tok.Text)
	}
	return strconv.Quote(tok.Text)
}
