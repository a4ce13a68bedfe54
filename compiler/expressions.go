package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/lexer"
	"github.com/shrimp-lang/shrimp/op"
)

var arithmetic = map[string]op.Code{
	"+": op.Add,
	"-": op.Sub,
	"*": op.Mul,
	"/": op.Div,
}

var comparisons = map[string]op.Code{
	"=":  op.Eq,
	"!=": op.Neq,
	"<":  op.Lt,
	">":  op.Gt,
	"<=": op.Lte,
	">=": op.Gte,
}

func (c *Compiler) compileNumber(node *cst.Node) error {
	n, err := strconv.ParseFloat(node.Text, 64)
	if err != nil {
		ce := c.errorAt(errors.E2003, node, fmt.Sprintf("invalid number %q", node.Text))
		ce.Err = err
		return ce
	}
	c.push(bytecode.Number(n))
	return nil
}

// regexFlags maps the flags Go's regexp understands to inline flags. The
// others are kept on the value only.
var regexFlags = map[rune]bool{'i': true, 'm': true, 's': true, 'g': false, 'u': false, 'y': false}

func (c *Compiler) compileRegex(node *cst.Node) error {
	body := strings.TrimPrefix(node.Text, "//")
	idx := strings.LastIndex(body, "//")
	if idx < 0 {
		c.fail(node, fmt.Sprintf("malformed regex literal %q", node.Text))
	}
	pattern, flags := body[:idx], body[idx+2:]
	var inline string
	for _, f := range flags {
		goFlag, ok := regexFlags[f]
		if !ok {
			return c.errorAt(errors.E2002, node, fmt.Sprintf("unknown regex flag %q", f))
		}
		if goFlag && !strings.ContainsRune(inline, f) {
			inline += string(f)
		}
	}
	expr := pattern
	if inline != "" {
		expr = "(?" + inline + ")" + pattern
	}
	if _, err := regexp.Compile(expr); err != nil {
		ce := c.errorAt(errors.E2002, node, fmt.Sprintf("invalid regex %s: %v", node.Text, err))
		ce.Err = err
		return ce
	}
	c.push(bytecode.Regex(pattern, flags))
	return nil
}

// literalText returns the text of a string or word made only of literal
// fragments.
func literalText(node *cst.Node) (string, bool) {
	var b strings.Builder
	for _, part := range node.Children {
		if part.Kind != cst.StringFragment && part.Kind != cst.WordFragment {
			return "", false
		}
		b.WriteString(part.Text)
	}
	return b.String(), true
}

// compileFragments compiles a String or Word. Literal text is pushed as is;
// otherwise every fragment is pushed in order and joined by STR_CONCAT.
func (c *Compiler) compileFragments(node *cst.Node) error {
	if text, ok := literalText(node); ok {
		c.push(bytecode.String(text))
		return nil
	}
	for _, part := range node.Children {
		switch part.Kind {
		case cst.StringFragment, cst.WordFragment:
			c.push(bytecode.String(part.Text))
		case cst.EscapeSeq:
			c.push(bytecode.String(lexer.Unescape(part.Text)))
		case cst.Interpolation:
			inner := part.Child(0)
			if inner == nil || len(part.Children) != 1 {
				c.fail(part, "interpolation must hold exactly one expression")
			}
			if err := c.compile(inner); err != nil {
				return err
			}
		default:
			c.fail(part, fmt.Sprintf("unexpected %s in %s", part.Kind, node.Kind))
		}
	}
	c.emit(bytecode.Instruction{Op: op.StrConcat, Count: len(node.Children)})
	return nil
}

func (c *Compiler) compileDotGet(node *cst.Node) error {
	base, field := node.Child(0), node.Child(1)
	if base == nil || field == nil || base.Kind != cst.Identifier || field.Kind != cst.Identifier {
		c.fail(node, "property access needs a name and a field")
	}
	c.emit(bytecode.Instruction{Op: op.TryLoad, Name: base.Text})
	c.emit(bytecode.Instruction{Op: op.DotGet, Name: field.Text})
	return nil
}

// binaryParts returns the operands and operator text of a BinOp or
// ConditionalOp.
func (c *Compiler) binaryParts(node *cst.Node) (left, right *cst.Node, operator string) {
	if len(node.Children) != 3 || node.Children[1].Kind != cst.Operator {
		c.fail(node, fmt.Sprintf("malformed %s", node.Kind))
	}
	return node.Children[0], node.Children[2], node.Children[1].Text
}

func (c *Compiler) compileBinOp(node *cst.Node) error {
	left, right, operator := c.binaryParts(node)
	code, ok := arithmetic[operator]
	if !ok {
		c.fail(node.Children[1], fmt.Sprintf("unsupported binary operator %q", operator))
	}
	if err := c.compile(left); err != nil {
		return err
	}
	if err := c.compile(right); err != nil {
		return err
	}
	c.emit(bytecode.Instruction{Op: code})
	return nil
}

func (c *Compiler) compileConditionalOp(node *cst.Node) error {
	left, right, operator := c.binaryParts(node)
	switch operator {
	case "and":
		return c.compileShortCircuit(left, right, op.JumpIfFalse)
	case "or":
		return c.compileShortCircuit(left, right, op.JumpIfTrue)
	}
	code, ok := comparisons[operator]
	if !ok {
		c.fail(node.Children[1], fmt.Sprintf("unsupported conditional operator %q", operator))
	}
	if err := c.compile(left); err != nil {
		return err
	}
	if err := c.compile(right); err != nil {
		return err
	}
	c.emit(bytecode.Instruction{Op: code})
	return nil
}

// compileShortCircuit leaves the left value as the result when jump fires
// on it, and the right value otherwise.
func (c *Compiler) compileShortCircuit(left, right *cst.Node, jump op.Code) error {
	if err := c.compile(left); err != nil {
		return err
	}
	c.emit(bytecode.Instruction{Op: op.Dup})
	pos := c.emitJump(jump)
	c.emit(bytecode.Instruction{Op: op.Pop})
	if err := c.compile(right); err != nil {
		return err
	}
	c.patchJump(pos)
	return nil
}

func (c *Compiler) compileAssign(node *cst.Node) error {
	name := node.First(cst.AssignableIdentifier)
	value := node.Child(2)
	if name == nil || value == nil {
		c.fail(node, "assignment needs a name and a value")
	}
	if err := c.compile(value); err != nil {
		return err
	}
	c.emit(bytecode.Instruction{Op: op.Store, Name: name.Text})
	return nil
}

func (c *Compiler) compileParen(node *cst.Node) error {
	switch len(node.Children) {
	case 0:
		c.push(bytecode.Null())
		return nil
	case 1:
		return c.compile(node.Children[0])
	}
	c.fail(node, "parentheses hold more than one expression")
	return nil
}

func (c *Compiler) compileIf(node *cst.Node) error {
	c.ifCount++
	end := fmt.Sprintf(".end_%d", c.ifCount)

	parts := node.Significant()
	if len(parts) < 2 || parts[1].Kind != cst.ThenBlock {
		c.fail(node, "if needs a condition and a block")
	}
	if err := c.compileBranch(parts[0], parts[1], end); err != nil {
		return err
	}
	var alternative *cst.Node
	for _, part := range parts[2:] {
		switch part.Kind {
		case cst.ElsifExpr:
			branch := part.Significant()
			if len(branch) != 2 {
				c.fail(part, "elsif needs a condition and a block")
			}
			if err := c.compileBranch(branch[0], branch[1], end); err != nil {
				return err
			}
		case cst.ElseExpr:
			alternative = part.First(cst.ThenBlock)
		default:
			c.fail(part, fmt.Sprintf("unexpected %s in if", part.Kind))
		}
	}
	if alternative != nil {
		if err := c.compile(alternative); err != nil {
			return err
		}
	} else {
		c.push(bytecode.Null())
	}
	c.emit(bytecode.Instruction{Op: op.Label, Name: end})
	return nil
}

// compileBranch compiles one conditional block. When the condition holds,
// the block runs and jumps to end; otherwise it is skipped.
func (c *Compiler) compileBranch(cond, block *cst.Node, end string) error {
	if err := c.compile(cond); err != nil {
		return err
	}
	pos := c.emitJump(op.JumpIfFalse)
	if err := c.compile(block); err != nil {
		return err
	}
	c.emit(bytecode.Instruction{Op: op.Jump, Mode: bytecode.LabelTarget, Label: end})
	c.patchJump(pos)
	return nil
}
