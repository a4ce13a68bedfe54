package scope

import (
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/internal/token"
)

// Context pairs the current scope with the names that were shifted but whose
// role is not yet known, because the production that would commit them (an
// assignment or a parameter list) has not been reduced.
//
// Context is a value. Shift and Reduce return updated copies and never modify
// the receiver, so a parser may keep an old Context around to backtrack.
type Context struct {
	arena      *Arena
	scope      ID
	pending    []string
	paramStart int // index into pending where the current parameter list began, or -1
}

// NewContext returns a Context positioned at the root scope of a.
func NewContext(a *Arena) Context {
	return Context{arena: a, scope: Root, paramStart: -1}
}

// Arena returns the arena backing the context.
func (c Context) Arena() *Arena {
	return c.arena
}

// Scope returns the ID of the current scope.
func (c Context) Scope() ID {
	return c.scope
}

// Has reports whether name is bound in the current scope chain.
func (c Context) Has(name string) bool {
	return c.arena.Has(c.scope, name)
}

// Pending returns a copy of the names awaiting a reduction.
func (c Context) Pending() []string {
	out := make([]string, len(c.pending))
	copy(out, c.pending)
	return out
}

// InParams reports whether identifiers are currently captured as parameters.
func (c Context) InParams() bool {
	return c.paramStart >= 0
}

// Hash hashes the scope only. Pending names are transient and do not make two
// parser states different.
func (c Context) Hash() uint64 {
	return c.arena.Hash(c.scope)
}

func (c Context) withPending(name string) Context {
	// Full slice expression forces a copy so earlier contexts are unaffected.
	c.pending = append(c.pending[:len(c.pending):len(c.pending)], name)
	return c
}

// Shift records a shifted terminal.
func (c Context) Shift(kind token.Kind, text string) Context {
	switch kind {
	case token.Fn:
		c.paramStart = len(c.pending)
	case token.Identifier:
		if c.InParams() {
			return c.withPending(text)
		}
	case token.AssignableIdentifier:
		return c.withPending(text)
	}
	return c
}

// Reduce records the completion of a grammar production.
func (c Context) Reduce(kind cst.Kind) Context {
	switch kind {
	case cst.Assign:
		if n := len(c.pending); n > 0 {
			c.scope = c.arena.Add(c.scope, c.pending[n-1])
			c.pending = c.pending[: n-1 : n-1]
		}
	case cst.Params:
		start := c.paramStart
		if start < 0 {
			start = len(c.pending)
		}
		c.scope = c.arena.Add(c.arena.Push(c.scope), c.pending[start:]...)
		c.pending = c.pending[:start:start]
		c.paramStart = -1
	case cst.FunctionDef:
		c.scope = c.arena.Pop(c.scope)
	}
	return c
}
