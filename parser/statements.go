package parser

import (
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/token"
)

// parseStatements parses newline or semicolon separated statements until
// end of input or one of the stop keywords, which is left unconsumed.
func (p *Parser) parseStatements(stop token.Set) []*cst.Node {
	var stmts []*cst.Node
	for !p.halted && !p.cancelled() {
		tok := p.peek(stmtStart | separators | stop)
		switch {
		case tok.Kind == token.EOF || stop.Has(tok.Kind):
			return stmts
		case tok.Kind == token.Newline || tok.Kind == token.Semicolon:
			p.shift(tok)
			continue
		}
		stmts = append(stmts, p.parseStatement())
		if err := p.endStatement(stop); err != nil {
			stmts = append(stmts, err)
		}
	}
	return stmts
}

// endStatement checks that a statement is followed by a boundary. Anything
// else up to the next boundary is returned as an error node.
func (p *Parser) endStatement(stop token.Set) *cst.Node {
	tok := p.peek(separators | stop)
	switch {
	case tok.Kind == token.EOF, tok.Kind == token.Newline, tok.Kind == token.Semicolon, stop.Has(tok.Kind):
		return nil
	case tok.Kind == token.RParen && p.parens > 0:
		return nil
	}
	return p.skipStatement(errors.E1001, "unexpected "+describe(tok))
}

func (p *Parser) parseStatement() *cst.Node {
	tok := p.peek(stmtStart)
	switch {
	case tok.Kind == token.AssignableIdentifier:
		return p.parseAssign(tok)
	case !stmtStart.Has(tok.Kind):
		return p.skipStatement(errors.E1001, "unexpected "+describe(tok))
	}
	return p.parseExpression()
}

func (p *Parser) parseAssign(tok token.Token) *cst.Node {
	node := cst.NewNode(cst.Assign, cst.NewLeaf(cst.AssignableIdentifier, p.shift(tok)))
	if eq := p.peek(token.SetOf(token.Eq)); eq.Kind == token.Eq {
		node.Append(cst.NewLeaf(cst.Operator, p.shift(eq)))
	} else {
		node.Append(p.missing(errors.E1001, "expected '='"))
	}
	node.Append(p.parseExpression())
	// Reduced even when the value is broken, so the name stays bound.
	return p.reduce(node)
}

// colon consumes the colon that introduces a body.
func (p *Parser) colon() *cst.Node {
	tok := p.peek(token.SetOf(token.Colon, token.Newline))
	if tok.Kind == token.Colon {
		return cst.NewLeaf(cst.Colon, p.shift(tok))
	}
	return p.missing(errors.E1004, "expected ':'")
}

// parseBody parses the statements following a colon. If the colon ends its
// line, the body is a block of statements that runs up to one of closers.
// Otherwise it is an inline body on the same line.
func (p *Parser) parseBody(closers token.Set) (stmts []*cst.Node, block bool) {
	saved := p.parens
	p.parens = 0
	defer func() { p.parens = saved }()

	tok := p.peek(stmtStart | separators | closers)
	switch {
	case tok.Kind == token.Newline:
		return p.parseStatements(closers), true
	case tok.Kind == token.EOF || closers.Has(tok.Kind):
		return nil, false
	}
	return p.parseInline(closers), false
}

// parseInline parses an inline body: either a single statement, or several
// statements separated by semicolons that are closed on the same line.
func (p *Parser) parseInline(closers token.Set) []*cst.Node {
	stmts := []*cst.Node{p.parseStatement()}
	mark := p.save()
	for {
		tok := p.peek(separators | closers)
		if closers.Has(tok.Kind) {
			return stmts
		}
		if tok.Kind != token.Semicolon {
			break
		}
		p.shift(tok)
		next := p.peek(stmtStart | separators | closers)
		if closers.Has(next.Kind) {
			return stmts
		}
		if !stmtStart.Has(next.Kind) {
			break
		}
		stmts = append(stmts, p.parseStatement())
	}
	// Nothing closed the body on this line, so the statements after the
	// first belong to the enclosing block.
	p.restore(mark)
	return stmts[:1]
}

// closeBody consumes the `end` keyword of a construct. It is required after
// a block body and optional after an inline one.
func (p *Parser) closeBody(node *cst.Node, block bool) {
	accept := token.SetOf(token.End)
	if !block {
		accept = accept.With(token.Newline, token.Semicolon)
	}
	if tok := p.peek(accept); tok.Kind == token.End {
		node.Append(cst.NewLeaf(cst.Keyword, p.shift(tok)))
	} else if block {
		node.Append(p.missing(errors.E1005, "expected 'end'"))
	}
}

func (p *Parser) parseFunctionDef(tok token.Token) *cst.Node {
	node := cst.NewNode(cst.FunctionDef, cst.NewLeaf(cst.Keyword, p.shift(tok)))

	params := &cst.Node{Kind: cst.Params}
	for {
		t := p.peek(token.SetOf(token.Identifier, token.Colon, token.Newline))
		if t.Kind == token.Identifier {
			params.Append(cst.NewLeaf(cst.Identifier, p.shift(t)))
			continue
		}
		if t.Kind == token.Illegal {
			params.Append(p.errorAt(errors.E1001, t.Span, "invalid parameter name "+describe(t)))
			p.pos = t.Span.End
			continue
		}
		break
	}
	if len(params.Children) == 0 {
		params.Span = token.Span{Start: p.pos, End: p.pos}
	}
	// Params must reduce before the body so parameters are in scope there.
	node.Append(p.reduce(params))
	node.Append(p.colon())

	body, block := p.parseBody(fnClosers)
	node.Append(body...)
	p.closeBody(node, block)
	return p.reduce(node)
}

func (p *Parser) parseIf(tok token.Token) *cst.Node {
	node := cst.NewNode(cst.IfExpr, cst.NewLeaf(cst.Keyword, p.shift(tok)))
	node.Append(p.parseCondition())
	node.Append(p.colon())
	body, block := p.parseBody(ifClosers)
	node.Append(p.thenBlock(body))

	seenElse := false
	for {
		accept := token.SetOf(token.End)
		if !seenElse {
			accept = accept.With(token.Elsif, token.Else)
		}
		if !block {
			// An inline branch may be the whole conditional.
			accept = accept.With(token.Newline, token.Semicolon)
		}
		t := p.peek(accept)
		switch t.Kind {
		case token.Elsif:
			branch := cst.NewNode(cst.ElsifExpr, cst.NewLeaf(cst.Keyword, p.shift(t)))
			branch.Append(p.parseCondition())
			branch.Append(p.colon())
			body, b := p.parseBody(ifClosers)
			branch.Append(p.thenBlock(body))
			node.Append(branch)
			block = block || b
		case token.Else:
			seenElse = true
			branch := cst.NewNode(cst.ElseExpr, cst.NewLeaf(cst.Keyword, p.shift(t)))
			branch.Append(p.colon())
			body, b := p.parseBody(fnClosers)
			branch.Append(p.thenBlock(body))
			node.Append(branch)
			block = block || b
		default:
			p.closeBody(node, block)
			return node
		}
	}
}

func (p *Parser) parseCondition() *cst.Node {
	return p.parseBinary(LOWEST, false)
}

func (p *Parser) thenBlock(stmts []*cst.Node) *cst.Node {
	if len(stmts) == 0 {
		return &cst.Node{Kind: cst.ThenBlock, Span: token.Span{Start: p.pos, End: p.pos}}
	}
	return cst.NewNode(cst.ThenBlock, stmts...)
}
