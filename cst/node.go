// Package cst defines the concrete syntax tree produced by the parser.
//
// Unlike an abstract syntax tree, the CST keeps keywords, operators and
// colons as leaves, and it can hold Error nodes wherever the parser found no
// legal continuation. A tree is immutable once the parser returns it.
package cst

import (
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/token"
)

// Node is one node of the tree. Leaves carry their source text; interior
// nodes carry their children in source order.
type Node struct {
	Kind     Kind             `json:"kind"`
	Span     token.Span       `json:"span"`
	Text     string           `json:"text,omitempty"`
	Code     errors.ErrorCode `json:"code,omitempty"`    // set on Error nodes
	Message  string           `json:"message,omitempty"` // set on Error nodes
	Children []*Node          `json:"children,omitempty"`
}

// NewLeaf returns a leaf node for the given token.
func NewLeaf(kind Kind, tok token.Token) *Node {
	return &Node{Kind: kind, Span: tok.Span, Text: tok.Text}
}

// NewNode returns an interior node spanning its children. With no children
// the span is empty and starts at zero; callers set it explicitly.
func NewNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children}
	if len(children) > 0 {
		n.Span = token.Span{Start: children[0].Span.Start, End: children[len(children)-1].Span.End}
	}
	return n
}

// NewError returns an error node covering span and holding the source text
// found there.
func NewError(code errors.ErrorCode, span token.Span, text, message string) *Node {
	return &Node{Kind: Error, Span: span, Text: text, Code: code, Message: message}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// First returns the first child of the given kind, or nil.
func (n *Node) First(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// All returns every direct child of the given kind.
func (n *Node) All(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Significant returns the children that are not punctuation leaves.
func (n *Node) Significant() []*Node {
	var out []*Node
	for _, c := range n.Children {
		switch c.Kind {
		case Keyword, Colon:
			continue
		}
		out = append(out, c)
	}
	return out
}

// Append adds children and widens the span to cover them.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if len(n.Children) == 0 && n.Span == (token.Span{}) {
			n.Span = c.Span
		} else {
			n.Span = n.Span.Cover(c.Span)
		}
		n.Children = append(n.Children, c)
	}
	return n
}
