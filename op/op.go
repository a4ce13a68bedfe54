// Package op defines the instruction vocabulary shared by the Shrimp compiler
// and the machines that execute its output.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Execution
	Halt         Code = 1
	Call         Code = 2
	TryCall      Code = 3
	Return       Code = 4
	MakeFunction Code = 5

	// Jump
	Jump        Code = 10
	JumpIfFalse Code = 11
	JumpIfTrue  Code = 12

	// Load and store
	Push    Code = 20
	TryLoad Code = 21
	Store   Code = 22
	DotGet  Code = 23

	// Arithmetic
	Add Code = 30
	Sub Code = 31
	Mul Code = 32
	Div Code = 33

	// Comparison
	Eq  Code = 40
	Neq Code = 41
	Lt  Code = 42
	Gt  Code = 43
	Lte Code = 44
	Gte Code = 45

	// Stack
	Dup Code = 50
	Pop Code = 51

	// Build
	StrConcat Code = 60

	// Label marks a position in a symbolic listing. It is removed when a
	// program is linked and never executed.
	Label Code = 255
)

// Operand describes what an opcode's operand holds.
type Operand uint8

const (
	// NoOperand is used by opcodes that take their inputs from the stack.
	NoOperand Operand = iota
	// ValueOperand is a literal value (PUSH).
	ValueOperand
	// NameOperand is a variable, field or label name.
	NameOperand
	// TargetOperand is a jump target: a label, or a relative instruction
	// count before linking and an absolute index after.
	TargetOperand
	// FunctionOperand is a parameter list plus the label of the body.
	FunctionOperand
	// CountOperand is a number of stack entries.
	CountOperand
)

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Operand Operand
}

var infos = make([]Info, 256)

var names = map[string]Code{}

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand Operand
	}
	ops := []opInfo{
		{Add, "ADD", NoOperand},
		{Call, "CALL", NoOperand},
		{Div, "DIV", NoOperand},
		{DotGet, "DOT_GET", NameOperand},
		{Dup, "DUP", NoOperand},
		{Eq, "EQ", NoOperand},
		{Gt, "GT", NoOperand},
		{Gte, "GTE", NoOperand},
		{Halt, "HALT", NoOperand},
		{Jump, "JUMP", TargetOperand},
		{JumpIfFalse, "JUMP_IF_FALSE", TargetOperand},
		{JumpIfTrue, "JUMP_IF_TRUE", TargetOperand},
		{Label, "LABEL", NameOperand},
		{Lt, "LT", NoOperand},
		{Lte, "LTE", NoOperand},
		{MakeFunction, "MAKE_FUNCTION", FunctionOperand},
		{Mul, "MUL", NoOperand},
		{Neq, "NEQ", NoOperand},
		{Pop, "POP", NoOperand},
		{Push, "PUSH", ValueOperand},
		{Return, "RETURN", NoOperand},
		{Store, "STORE", NameOperand},
		{StrConcat, "STR_CONCAT", CountOperand},
		{Sub, "SUB", NoOperand},
		{TryCall, "TRY_CALL", NameOperand},
		{TryLoad, "TRY_LOAD", NameOperand},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Operand: o.operand,
		}
		names[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (Code, bool) {
	code, ok := names[name]
	return code, ok
}

// String returns the opcode's mnemonic.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}

// IsJump reports whether the opcode transfers control to a target.
func (c Code) IsJump() bool {
	return infos[c].Operand == TargetOperand
}
