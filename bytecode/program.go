package bytecode

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/shrimp-lang/shrimp/errors"
)

// TempPrefix starts the names the compiler stores intermediate values
// under. It cannot start an identifier, so the names never collide with
// user names, and engines hide them from callers.
const TempPrefix = "_pipe_"

// IsTemp reports whether name is a compiler temporary.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, TempPrefix)
}

// Program is a compiled unit: the main instructions ending in HALT,
// followed by the body of every function literal in allocation order.
// It is immutable after creation and safe for concurrent use.
type Program struct {
	instructions []Instruction
	functions    []string
	source       string
	filename     string
	linked       bool
}

// ProgramParams contains parameters for creating a new Program.
type ProgramParams struct {
	Instructions []Instruction
	Functions    []string // labels of function bodies, in allocation order
	Source       string
	Filename     string
	Linked       bool
}

// NewProgram creates a new immutable Program. Input slices are copied.
func NewProgram(params ProgramParams) *Program {
	instrs := make([]Instruction, len(params.Instructions))
	for i, instr := range params.Instructions {
		instr.Params = slices.Clone(instr.Params)
		instrs[i] = instr
	}
	return &Program{
		instructions: instrs,
		functions:    slices.Clone(params.Functions),
		source:       params.Source,
		filename:     params.Filename,
		linked:       params.Linked,
	}
}

// Len returns the number of instructions, labels included.
func (p *Program) Len() int {
	return len(p.instructions)
}

// InstructionAt returns the instruction at index.
func (p *Program) InstructionAt(index int) Instruction {
	instr := p.instructions[index]
	instr.Params = slices.Clone(instr.Params)
	return instr
}

// All iterates over the instructions with their indexes.
func (p *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(int, Instruction) bool) {
		for i := range p.instructions {
			if !yield(i, p.InstructionAt(i)) {
				return
			}
		}
	}
}

// FunctionCount returns the number of function bodies.
func (p *Program) FunctionCount() int {
	return len(p.functions)
}

// FunctionAt returns the label of the function body at index.
func (p *Program) FunctionAt(index int) string {
	return p.functions[index]
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the name of the file the program was compiled from.
func (p *Program) Filename() string {
	return p.filename
}

// Linked reports whether all targets are absolute instruction indexes.
func (p *Program) Linked() bool {
	return p.linked
}

// String returns the program listing, one instruction per line. Labels end
// with a colon and instructions inside function bodies are indented.
func (p *Program) String() string {
	var b strings.Builder
	inFunc := false
	for _, instr := range p.instructions {
		if instr.IsLabel() {
			if slices.Contains(p.functions, instr.Name) {
				inFunc = true
			}
			b.WriteString(instr.String())
			b.WriteString("\n")
			continue
		}
		if inFunc {
			b.WriteString("  ")
		}
		b.WriteString(instr.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Link resolves every label and relative target to an absolute instruction
// index and drops the LABEL pseudo-instructions. Linking a linked program
// returns it unchanged.
func (p *Program) Link() (*Program, error) {
	if p.linked {
		return p, nil
	}
	// positions maps each symbolic index to its index in the linked program.
	positions := make([]int, len(p.instructions)+1)
	labels := map[string]int{}
	n := 0
	for i, instr := range p.instructions {
		positions[i] = n
		if instr.IsLabel() {
			if _, dup := labels[instr.Name]; dup {
				return nil, p.linkError(instr, fmt.Sprintf("duplicate label %q", instr.Name))
			}
			labels[instr.Name] = n
			continue
		}
		n++
	}
	positions[len(p.instructions)] = n

	linked := make([]Instruction, 0, n)
	for i, instr := range p.instructions {
		if instr.IsLabel() {
			continue
		}
		switch instr.Mode {
		case LabelTarget:
			target, ok := labels[instr.Label]
			if !ok {
				return nil, p.linkError(instr, fmt.Sprintf("unresolved label %q", instr.Label))
			}
			instr.Target = target
		case RelativeTarget:
			target := positions[i] + 1 + instr.Target
			if instr.Target < 0 || target > n {
				return nil, p.linkError(instr, fmt.Sprintf("jump target #%d out of range", instr.Target))
			}
			instr.Target = target
		}
		if instr.Mode != NoTarget {
			instr.Mode = AbsoluteTarget
		}
		instr.Params = slices.Clone(instr.Params)
		linked = append(linked, instr)
	}
	return &Program{
		instructions: linked,
		functions:    slices.Clone(p.functions),
		source:       p.source,
		filename:     p.filename,
		linked:       true,
	}, nil
}

func (p *Program) linkError(instr Instruction, message string) error {
	err := errors.NewCompileError(errors.E2005, message, instr.Span, p.source)
	err.Filename = p.filename
	return err
}

// Equal reports whether two programs hold the same instructions.
func (p *Program) Equal(other *Program) bool {
	if p.linked != other.linked || !slices.Equal(p.functions, other.functions) {
		return false
	}
	return slices.EqualFunc(p.instructions, other.instructions, func(a, b Instruction) bool {
		return a.Op == b.Op && a.Value == b.Value && a.Name == b.Name &&
			slices.Equal(a.Params, b.Params) && a.Label == b.Label &&
			a.Mode == b.Mode && a.Target == b.Target && a.Count == b.Count && a.Span == b.Span
	})
}
