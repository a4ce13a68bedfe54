// Package compiler lowers a Shrimp concrete syntax tree into a symbolic
// bytecode program.
//
// # Output layout
//
// The main statements are compiled first and end with HALT. The body of
// every function literal follows, in the order the literals were met, each
// introduced by a LABEL and ending in RETURN. A function literal's definition
// site only emits MAKE_FUNCTION naming that label.
//
// # Jumps
//
// Conditional jumps are emitted with a placeholder and patched once the
// block they skip has been compiled, so they carry a relative instruction
// count. The point where the branches of an if expression converge is only
// known after every branch is compiled, so branches jump to a named label
// instead. Program.Link resolves both forms to absolute indexes.
//
// # Failures
//
// A tree with error nodes is refused. A node shape the compiler does not know
// is a defect in the parser or the compiler; it aborts compilation with an
// E2001 error instead of producing a partial program.
package compiler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/op"
)

// Placeholder is written as the target of a conditional jump until the
// block it skips has been compiled.
const Placeholder = -1

// PipeTemp is the prefix of the names that hold intermediate pipe results.
const PipeTemp = bytecode.TempPrefix

// Placeholder argument replaced by the piped value.
const pipeArg = "_"

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used for error messages.
	Filename string

	// Source is the text the tree was parsed from, used for error messages.
	Source string

	// Logger receives debug tracing. Nil disables logging.
	Logger *zerolog.Logger
}

type function struct {
	label string
	body  []bytecode.Instruction
}

// Compiler is used to compile a syntax tree into a Program. A Compiler is
// used for a single compilation.
type Compiler struct {
	filename string
	source   string
	log      zerolog.Logger

	// The instructions being written: the main program, or a function body.
	current *[]bytecode.Instruction
	main    []bytecode.Instruction

	// Function bodies in label allocation order.
	functions []*function

	ifCount   int
	pipeCount int

	// Node being compiled, used for instruction spans.
	node *cst.Node
}

// internalError aborts compilation from deep inside the tree walk.
type internalError struct {
	node    *cst.Node
	message string
}

// Compile compiles the given tree and returns a symbolic program. Pass nil
// for cfg to use default settings.
func Compile(tree *cst.Node, cfg *Config) (*bytecode.Program, error) {
	return New(cfg).Compile(tree)
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	c := &Compiler{log: zerolog.Nop()}
	if cfg != nil {
		c.filename = cfg.Filename
		c.source = cfg.Source
		if cfg.Logger != nil {
			c.log = *cfg.Logger
		}
	}
	c.current = &c.main
	return c
}

// Compile compiles tree, which must be a Program node.
func (c *Compiler) Compile(tree *cst.Node) (prog *bytecode.Program, err error) {
	if tree == nil || tree.Kind != cst.Program {
		return nil, c.errorAt(errors.E2001, tree, "expected a program node")
	}
	if errs := cst.Errors(tree); len(errs) > 0 {
		return nil, c.syntaxErrors(errs)
	}
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			prog, err = nil, c.errorAt(errors.E2001, ie.node, ie.message)
		}
	}()

	if err := c.compileStatements(tree.Children); err != nil {
		return nil, err
	}
	c.emit(bytecode.Instruction{Op: op.Halt})

	instrs := c.main
	labels := make([]string, len(c.functions))
	for i, fn := range c.functions {
		labels[i] = fn.label
		instrs = append(instrs, bytecode.Instruction{Op: op.Label, Name: fn.label})
		instrs = append(instrs, fn.body...)
	}
	c.log.Debug().
		Int("instructions", len(instrs)).
		Int("functions", len(labels)).
		Msg("compiled program")
	return bytecode.NewProgram(bytecode.ProgramParams{
		Instructions: instrs,
		Functions:    labels,
		Source:       c.source,
		Filename:     c.filename,
	}), nil
}

// compile the given node and all its children.
func (c *Compiler) compile(node *cst.Node) error {
	prev := c.node
	c.node = node
	defer func() { c.node = prev }()

	switch node.Kind {
	case cst.Number:
		return c.compileNumber(node)
	case cst.Boolean:
		c.push(bytecode.Bool(node.Text == "true"))
	case cst.Regex:
		return c.compileRegex(node)
	case cst.String, cst.Word:
		return c.compileFragments(node)
	case cst.Identifier:
		c.emit(bytecode.Instruction{Op: op.TryLoad, Name: node.Text})
	case cst.DotGet:
		return c.compileDotGet(node)
	case cst.BinOp:
		return c.compileBinOp(node)
	case cst.ConditionalOp:
		return c.compileConditionalOp(node)
	case cst.Assign:
		return c.compileAssign(node)
	case cst.ParenExpr:
		return c.compileParen(node)
	case cst.PipeExpr:
		return c.compilePipe(node)
	case cst.FunctionDef:
		return c.compileFunctionDef(node)
	case cst.FunctionCall:
		return c.compileCall(node)
	case cst.FunctionCallOrIdentifier:
		c.emit(bytecode.Instruction{Op: op.TryCall, Name: c.callee(node).Text})
	case cst.IfExpr:
		return c.compileIf(node)
	case cst.ThenBlock:
		return c.compileStatements(node.Children)
	default:
		c.fail(node, fmt.Sprintf("unrecognized syntax node %s", node.Kind))
	}
	return nil
}

// compileStatements compiles a sequence of statements whose value is the
// value of the last one. Each earlier value is popped. An empty sequence
// evaluates to null.
func (c *Compiler) compileStatements(stmts []*cst.Node) error {
	if len(stmts) == 0 {
		c.push(bytecode.Null())
		return nil
	}
	for i, stmt := range stmts {
		if i > 0 {
			c.emit(bytecode.Instruction{Op: op.Pop})
		}
		if err := c.compile(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) emit(instr bytecode.Instruction) int {
	if c.node != nil {
		instr.Span = c.node.Span
	}
	pos := len(*c.current)
	*c.current = append(*c.current, instr)
	return pos
}

func (c *Compiler) push(v bytecode.Value) {
	c.emit(bytecode.Instruction{Op: op.Push, Value: v})
}

// emitJump emits a conditional jump with a placeholder target.
func (c *Compiler) emitJump(code op.Code) int {
	return c.emit(bytecode.Instruction{Op: code, Mode: bytecode.RelativeTarget, Target: Placeholder})
}

// patchJump makes the jump at pos skip everything emitted after it.
func (c *Compiler) patchJump(pos int) {
	(*c.current)[pos].Target = bytecode.Size((*c.current)[pos+1:])
}

// fail aborts compilation. It is recovered in Compile.
func (c *Compiler) fail(node *cst.Node, message string) {
	panic(internalError{node: node, message: message})
}

func (c *Compiler) errorAt(code errors.ErrorCode, node *cst.Node, message string) *errors.CompileError {
	var span token.Span
	if node != nil {
		span = node.Span
	}
	err := errors.NewCompileError(code, message, span, c.source)
	err.Filename = c.filename
	return err
}

func (c *Compiler) syntaxErrors(nodes []*cst.Node) error {
	errs := make([]error, len(nodes))
	for i, n := range nodes {
		code := n.Code
		if code == "" {
			code = errors.E1001
		}
		err := errors.NewSyntaxError(code, n.Message, n.Span, c.source)
		err.Filename = c.filename
		errs[i] = err
	}
	return errors.Aggregate(errs...)
}
