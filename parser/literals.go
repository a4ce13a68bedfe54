package parser

import (
	"unicode/utf8"

	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/token"
)

func (p *Parser) parseString(tok token.Token) *cst.Node {
	quote, _ := utf8.DecodeRuneInString(tok.Text)
	p.shift(tok)
	node := &cst.Node{Kind: cst.String, Span: tok.Span}
	for {
		f := p.l.StringFragment(p.pos, quote)
		switch f.Kind {
		case token.Quote:
			p.advance(f)
			node.Span.End = f.Span.End
			return node
		case token.EOF:
			node.Append(p.errorAt(errors.E1002, token.Span{Start: len(p.src), End: len(p.src)}, "unterminated string"))
			p.pos = len(p.src)
			return node
		case token.Fragment:
			p.advance(f)
			node.Append(cst.NewLeaf(cst.StringFragment, f))
		default:
			node.Append(p.fragment(f))
		}
	}
}

// parseWord parses a bare word. The lexer only classifies the start of the
// word; its extent is found here fragment by fragment, since an
// interpolated expression may contain spaces.
func (p *Parser) parseWord(tok token.Token) *cst.Node {
	p.pos = tok.Span.Start
	node := &cst.Node{Kind: cst.Word, Span: token.Span{Start: tok.Span.Start, End: tok.Span.Start}}
	for {
		f := p.l.WordFragment(p.pos)
		switch f.Kind {
		case token.FragmentEnd:
			return node
		case token.Fragment:
			p.advance(f)
			node.Append(cst.NewLeaf(cst.WordFragment, f))
		default:
			node.Append(p.fragment(f))
		}
	}
}

// fragment parses an escape sequence or an interpolation inside a string
// or word.
func (p *Parser) fragment(f token.Token) *cst.Node {
	p.advance(f)
	switch f.Kind {
	case token.EscapeSeq:
		return cst.NewLeaf(cst.EscapeSeq, f)
	case token.InterpIdent:
		id := &cst.Node{
			Kind: cst.Identifier,
			Span: token.Span{Start: f.Span.Start + 1, End: f.Span.End},
			Text: f.Text,
		}
		return &cst.Node{Kind: cst.Interpolation, Span: f.Span, Children: []*cst.Node{id}}
	case token.InterpOpen:
		paren := p.parenBody(token.Span{Start: f.Span.Start + 1, End: f.Span.End})
		return &cst.Node{
			Kind:     cst.Interpolation,
			Span:     token.Span{Start: f.Span.Start, End: paren.Span.End},
			Children: []*cst.Node{paren},
		}
	}
	return p.errorAt(errors.E1001, f.Span, "unexpected "+describe(f))
}
