package cst

import (
	"iter"
	"strings"
)

// Inspect traverses a tree in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// children of node.
func Inspect(node *Node, f func(*Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, c := range node.Children {
		Inspect(c, f)
	}
}

// Preorder returns an iterator over all the nodes of the tree rooted at node
// in depth-first preorder.
func Preorder(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var visit func(*Node) bool
		visit = func(n *Node) bool {
			if !yield(n) {
				return false
			}
			for _, c := range n.Children {
				if !visit(c) {
					return false
				}
			}
			return true
		}
		if root != nil {
			visit(root)
		}
	}
}

// Errors returns every error node in the tree, in source order.
func Errors(root *Node) []*Node {
	var errs []*Node
	for n := range Preorder(root) {
		if n.Kind == Error {
			errs = append(errs, n)
		}
	}
	return errs
}

// HasErrors reports whether the tree contains at least one error node.
func HasErrors(root *Node) bool {
	for n := range Preorder(root) {
		if n.Kind == Error {
			return true
		}
	}
	return false
}

// Dump renders the tree one node per line, indenting children by two
// spaces. Leaves print as "Kind text". The Program wrapper is omitted so its
// statements start at column zero.
func Dump(root *Node) string {
	var lines []string
	var add func(n *Node, depth int)
	add = func(n *Node, depth int) {
		indent := strings.Repeat("  ", depth)
		if n.IsLeaf() {
			lines = append(lines, strings.TrimRight(indent+n.Kind.String()+" "+n.Text, " "))
			return
		}
		lines = append(lines, indent+n.Kind.String())
		for _, c := range n.Children {
			add(c, depth+1)
		}
	}
	if root == nil {
		return ""
	}
	if root.Kind == Program {
		for _, c := range root.Children {
			add(c, 0)
		}
	} else {
		add(root, 0)
	}
	return strings.Join(lines, "\n")
}
