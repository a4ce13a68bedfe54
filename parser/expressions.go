package parser

import (
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/token"
)

// parseExpression parses an expression in value position: a pipe chain of
// stages, where each stage may be a call.
func (p *Parser) parseExpression() *cst.Node {
	left := p.parseBinary(LOWEST, true)
	tok := p.peek(separators.With(token.Pipe))
	if tok.Kind != token.Pipe {
		return left
	}
	pipe := cst.NewNode(cst.PipeExpr, left)
	for tok.Kind == token.Pipe {
		pipe.Append(cst.NewLeaf(cst.Operator, p.shift(tok)))
		pipe.Append(p.parseBinary(LOWEST, true))
		tok = p.peek(separators.With(token.Pipe))
	}
	return pipe
}

// parseBinary parses operators binding at least as tightly as minPrec. If
// callable is set, a leading identifier may be a call, and a lone
// identifier becomes a FunctionCallOrIdentifier.
func (p *Parser) parseBinary(minPrec int, callable bool) *cst.Node {
	left := p.parseOperand(callable)
	lone := callable && left.Kind == cst.Identifier
	for {
		tok := p.peek(binaryOps | separators)
		prec := precedences[tok.Kind]
		if prec == 0 || prec < minPrec {
			break
		}
		op := cst.NewLeaf(cst.Operator, p.shift(tok))
		right := p.parseBinary(prec+1, false)
		kind := cst.BinOp
		if prec <= EQUALS {
			kind = cst.ConditionalOp
		}
		left = cst.NewNode(kind, left, op, right)
		lone = false
	}
	if lone {
		return p.callOrIdentifier(left)
	}
	return left
}

// callOrIdentifier wraps a lone identifier. Whether it names a function to
// call or a value to load is decided when the program runs, except for
// unbound names of known commands, which are calls.
func (p *Parser) callOrIdentifier(id *cst.Node) *cst.Node {
	if p.commands != nil && !p.sc.Has(id.Text) && p.commands.Lookup(id.Text).Exact != nil {
		return cst.NewNode(cst.FunctionCall, id)
	}
	return cst.NewNode(cst.FunctionCallOrIdentifier, id)
}

func (p *Parser) parseOperand(callable bool) *cst.Node {
	return p.operand(p.peek(exprStart), callable)
}

// operand parses the operand starting with tok.
func (p *Parser) operand(tok token.Token, callable bool) *cst.Node {
	if !p.enter() {
		p.leave()
		return p.skipStatement(errors.E1009, "maximum nesting depth exceeded")
	}
	defer p.leave()

	switch tok.Kind {
	case token.Number:
		return cst.NewLeaf(cst.Number, p.shift(tok))
	case token.Boolean:
		return cst.NewLeaf(cst.Boolean, p.shift(tok))
	case token.Regex:
		return cst.NewLeaf(cst.Regex, p.shift(tok))
	case token.Quote:
		return p.parseString(tok)
	case token.Word:
		return p.parseWord(tok)
	case token.Identifier:
		id := cst.NewLeaf(cst.Identifier, p.shift(tok))
		if callable {
			return p.parseCall(id)
		}
		return id
	case token.IdentifierBeforeDot:
		return p.parseDotGet(tok)
	case token.LParen:
		return p.parseParen(tok)
	case token.Fn:
		return p.parseFunctionDef(tok)
	case token.If:
		return p.parseIf(tok)
	}
	if boundary(tok) {
		return p.missing(errors.E1003, "expected expression")
	}
	return p.unexpected(tok)
}

// parseCall parses the arguments following the callee id, if any. It
// returns id itself when no argument follows.
func (p *Parser) parseCall(id *cst.Node) *cst.Node {
	// Arguments are separated from the callee by whitespace.
	if end := id.Span.End; end < len(p.src) {
		switch p.src[end] {
		case ' ', '\t', '\r', '\n':
		default:
			return id
		}
	}
	// An operator right after the callee makes it an operand instead.
	tok := p.peek(argStart | binaryOps | separators.With(token.Pipe))
	if !argStart.Has(tok.Kind) {
		return id
	}
	call := cst.NewNode(cst.FunctionCall, id)
	for argStart.Has(tok.Kind) {
		call.Append(p.parseArg(tok))
		tok = p.peek(argStart | separators.With(token.Pipe))
	}
	return call
}

func (p *Parser) parseArg(tok token.Token) *cst.Node {
	if tok.Kind != token.NamedArgPrefix {
		return cst.NewNode(cst.PositionalArg, p.operand(tok, false))
	}
	arg := cst.NewNode(cst.NamedArg, cst.NewLeaf(cst.NamedArgPrefix, p.shift(tok)))
	value := p.peek(argStart | separators.With(token.Pipe))
	switch {
	case value.Span.Start != p.pos || !exprStart.Has(value.Kind):
		// `lines=` followed by a space or nothing has no value.
		arg.Append(p.missing(errors.E1008, "expected a value for "+tok.Text))
	default:
		arg.Append(p.operand(value, false))
	}
	return arg
}

func (p *Parser) parseDotGet(tok token.Token) *cst.Node {
	node := cst.NewNode(cst.DotGet, cst.NewLeaf(cst.Identifier, p.shift(tok)))
	if dot := p.peek(token.SetOf(token.Dot)); dot.Kind == token.Dot {
		p.shift(dot)
	}
	if prop := p.peek(token.SetOf(token.Identifier)); prop.Kind == token.Identifier && prop.Span.Start == p.pos {
		node.Append(cst.NewLeaf(cst.Identifier, p.shift(prop)))
	} else {
		node.Append(p.missing(errors.E1007, "expected a property name after '.'"))
	}
	return node
}

func (p *Parser) parseParen(tok token.Token) *cst.Node {
	p.shift(tok)
	return p.parenBody(tok.Span)
}

// parenBody parses what follows an opening parenthesis covering open, up
// to and including the closing parenthesis.
func (p *Parser) parenBody(open token.Span) *cst.Node {
	p.parens++
	node := &cst.Node{Kind: cst.ParenExpr, Span: open}
	tok := p.peek(token.SetOf(token.RParen))
	if tok.Kind != token.RParen {
		node.Append(p.parseExpression())
		for {
			tok = p.peek(token.SetOf(token.RParen))
			if tok.Kind == token.RParen || tok.Kind == token.EOF || p.halted {
				break
			}
			node.Append(p.skipStatement(errors.E1001, "unexpected "+describe(tok)))
		}
	}
	if tok.Kind == token.RParen {
		p.shift(tok)
		node.Span.End = tok.Span.End
	} else {
		node.Append(p.missing(errors.E1006, "expected ')'"))
	}
	p.parens--
	return node
}
