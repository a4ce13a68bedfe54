package bytecode

import (
	"fmt"
	"strings"

	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/op"
)

// TargetMode says how a jump or MAKE_FUNCTION instruction names its target.
type TargetMode uint8

const (
	// NoTarget is used by instructions that do not transfer control.
	NoTarget TargetMode = iota
	// LabelTarget targets the LABEL named by Label.
	LabelTarget
	// RelativeTarget skips Target instructions following this one. LABEL
	// pseudo-instructions are not counted.
	RelativeTarget
	// AbsoluteTarget targets the instruction at index Target.
	AbsoluteTarget
)

// Instruction is a single operation. Which operand fields are meaningful
// depends on Op; see op.GetInfo.
type Instruction struct {
	Op     op.Code
	Value  Value      // PUSH
	Name   string     // TRY_LOAD, TRY_CALL, STORE, DOT_GET, LABEL
	Params []string   // MAKE_FUNCTION
	Label  string     // JUMP, MAKE_FUNCTION in symbolic programs
	Mode   TargetMode // JUMP*, MAKE_FUNCTION
	Target int
	Count  int        // STR_CONCAT
	Span   token.Span // source text the instruction was compiled from
}

// IsLabel reports whether the instruction is a LABEL pseudo-instruction.
func (i Instruction) IsLabel() bool {
	return i.Op == op.Label
}

func (i Instruction) target() string {
	switch i.Mode {
	case LabelTarget:
		return i.Label
	case RelativeTarget:
		return fmt.Sprintf("#%d", i.Target)
	case AbsoluteTarget:
		return fmt.Sprintf("@%d", i.Target)
	}
	return "?"
}

// String renders the instruction as one line of a listing.
func (i Instruction) String() string {
	info := op.GetInfo(i.Op)
	switch info.Operand {
	case op.ValueOperand:
		return info.Name + " " + i.Value.String()
	case op.NameOperand:
		if i.Op == op.Label {
			return i.Name + ":"
		}
		return info.Name + " " + i.Name
	case op.TargetOperand:
		return info.Name + " " + i.target()
	case op.FunctionOperand:
		return fmt.Sprintf("%s (%s) %s", info.Name, strings.Join(i.Params, " "), i.target())
	case op.CountOperand:
		return fmt.Sprintf("%s %d", info.Name, i.Count)
	}
	return i.Op.String()
}

// Size returns the number of executable instructions in instrs, not
// counting labels.
func Size(instrs []Instruction) int {
	n := 0
	for _, instr := range instrs {
		if !instr.IsLabel() {
			n++
		}
	}
	return n
}
