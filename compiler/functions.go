package compiler

import (
	"fmt"
	"strings"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/op"
)

// compileFunctionDef emits MAKE_FUNCTION at the definition site and compiles
// the body into its own labelled block, placed after HALT by Compile.
func (c *Compiler) compileFunctionDef(node *cst.Node) error {
	parts := node.Significant()
	if len(parts) == 0 || parts[0].Kind != cst.Params {
		c.fail(node, "function literal without parameter list")
	}
	var params []string
	for _, p := range parts[0].Children {
		if p.Kind != cst.Identifier {
			c.fail(p, fmt.Sprintf("unexpected %s in parameter list", p.Kind))
		}
		params = append(params, p.Text)
	}

	fn := &function{label: fmt.Sprintf(".func_%d", len(c.functions))}
	c.functions = append(c.functions, fn)
	c.log.Debug().Str("label", fn.label).Strs("params", params).Msg("function literal")

	c.emit(bytecode.Instruction{
		Op:     op.MakeFunction,
		Params: params,
		Mode:   bytecode.LabelTarget,
		Label:  fn.label,
	})

	saved := c.current
	c.current = &fn.body
	defer func() { c.current = saved }()
	if err := c.compileStatements(parts[1:]); err != nil {
		return err
	}
	c.emit(bytecode.Instruction{Op: op.Return})
	return nil
}

// callee returns the name being called by a FunctionCall or
// FunctionCallOrIdentifier node.
func (c *Compiler) callee(node *cst.Node) *cst.Node {
	name := node.Child(0)
	if name == nil || name.Kind != cst.Identifier {
		c.fail(node, fmt.Sprintf("%s without a callee", node.Kind))
	}
	return name
}

func (c *Compiler) compileCall(node *cst.Node) error {
	c.emit(bytecode.Instruction{Op: op.TryLoad, Name: c.callee(node).Text})
	return c.compileArgs(node, node.Children[1:], "")
}

// isPlaceholder reports whether an argument value is the bare `_` word.
func isPlaceholder(value *cst.Node) bool {
	return value != nil && value.Kind == cst.Word && len(value.Children) == 1 &&
		value.Children[0].Kind == cst.WordFragment && value.Children[0].Text == pipeArg
}

// argValue returns the expression of a PositionalArg or NamedArg.
func argValue(arg *cst.Node) *cst.Node {
	if arg.Kind == cst.NamedArg {
		return arg.Child(1)
	}
	return arg.Child(0)
}

// compileArgs emits the arguments of a call followed by the counts and CALL.
// Positional values come first, then a name and value pair for each named
// argument. When piped names a pipe temporary, a `_` argument loads it; with
// no `_` the temporary becomes the first positional argument.
func (c *Compiler) compileArgs(call *cst.Node, args []*cst.Node, piped string) error {
	var positional, named []*cst.Node
	implicit := piped != ""
	for _, arg := range args {
		switch arg.Kind {
		case cst.PositionalArg:
			positional = append(positional, arg)
		case cst.NamedArg:
			named = append(named, arg)
		default:
			c.fail(arg, fmt.Sprintf("unexpected %s in call", arg.Kind))
		}
		if piped != "" && isPlaceholder(argValue(arg)) {
			implicit = false
		}
	}

	npos := len(positional)
	if implicit {
		c.emit(bytecode.Instruction{Op: op.TryLoad, Name: piped})
		npos++
	}
	for _, arg := range positional {
		if err := c.compileArg(argValue(arg), piped); err != nil {
			return err
		}
	}
	for _, arg := range named {
		prefix := arg.First(cst.NamedArgPrefix)
		if prefix == nil {
			c.fail(arg, "named argument without a name")
		}
		c.push(bytecode.String(strings.TrimSuffix(prefix.Text, "=")))
		if err := c.compileArg(argValue(arg), piped); err != nil {
			return err
		}
	}

	prev := c.node
	c.node = call
	c.push(bytecode.Number(float64(npos)))
	c.push(bytecode.Number(float64(len(named))))
	c.emit(bytecode.Instruction{Op: op.Call})
	c.node = prev
	return nil
}

func (c *Compiler) compileArg(value *cst.Node, piped string) error {
	if value == nil {
		c.fail(c.node, "argument without a value")
	}
	if piped != "" && isPlaceholder(value) {
		prev := c.node
		c.node = value
		c.emit(bytecode.Instruction{Op: op.TryLoad, Name: piped})
		c.node = prev
		return nil
	}
	return c.compile(value)
}

// compilePipe threads the value of each stage into the next through a
// temporary variable that is unique to this pipe expression.
func (c *Compiler) compilePipe(node *cst.Node) error {
	var stages []*cst.Node
	for _, child := range node.Children {
		if child.Kind != cst.Operator {
			stages = append(stages, child)
		}
	}
	if len(stages) < 2 {
		c.fail(node, "pipe with fewer than two stages")
	}
	if err := c.compile(stages[0]); err != nil {
		return err
	}

	c.pipeCount++
	tmp := fmt.Sprintf("%s%d", PipeTemp, c.pipeCount)
	c.log.Debug().Str("temp", tmp).Int("stages", len(stages)).Msg("pipe")

	for _, stage := range stages[1:] {
		c.emit(bytecode.Instruction{Op: op.Store, Name: tmp})
		c.emit(bytecode.Instruction{Op: op.Pop})

		var args []*cst.Node
		switch stage.Kind {
		case cst.FunctionCall:
			args = stage.Children[1:]
		case cst.FunctionCallOrIdentifier:
		default:
			return c.errorAt(errors.E2004, stage,
				fmt.Sprintf("cannot pipe into %s, expected a function call", describe(stage)))
		}
		prev := c.node
		c.node = stage
		c.emit(bytecode.Instruction{Op: op.TryLoad, Name: c.callee(stage).Text})
		c.node = prev
		if err := c.compileArgs(stage, args, tmp); err != nil {
			return err
		}
	}
	return nil
}

var descriptions = map[cst.Kind]string{
	cst.Number:      "a number",
	cst.Boolean:     "a boolean",
	cst.Regex:       "a regex",
	cst.String:      "a string",
	cst.Word:        "a word",
	cst.Identifier:  "a name",
	cst.DotGet:      "a property access",
	cst.BinOp:       "an arithmetic expression",
	cst.ParenExpr:   "a parenthesized expression",
	cst.FunctionDef: "a function literal",
	cst.IfExpr:      "an if expression",
}

func describe(node *cst.Node) string {
	if d, ok := descriptions[node.Kind]; ok {
		return d
	}
	return strings.ToLower(node.Kind.String())
}
