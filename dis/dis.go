// Package dis supports analysis of Shrimp bytecode by disassembling it.
// Programs are linked first, so offsets and jump targets are absolute
// instruction indexes.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/internal/table"
	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/op"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operand    string
	Annotation string
	Position   string // line:col of the source text, when known
	Constant   *bytecode.Value
}

// Disassemble returns a parsed representation of the given program.
func Disassemble(prog *bytecode.Program) ([]Instruction, error) {
	linked, err := prog.Link()
	if err != nil {
		return nil, err
	}
	source := linked.Source()
	var instructions []Instruction
	for offset, instr := range linked.All() {
		info := op.GetInfo(instr.Op)
		out := Instruction{
			Offset: offset,
			Name:   info.Name,
			Opcode: instr.Op,
		}
		switch info.Operand {
		case op.ValueOperand:
			value := instr.Value
			out.Constant = &value
			out.Annotation = value.String()
		case op.NameOperand:
			out.Operand = instr.Name
		case op.TargetOperand:
			out.Operand = strconv.Itoa(instr.Target)
		case op.FunctionOperand:
			out.Operand = strconv.Itoa(instr.Target)
			out.Annotation = fmt.Sprintf("%s (%s)", instr.Label, strings.Join(instr.Params, " "))
		case op.CountOperand:
			out.Operand = strconv.Itoa(instr.Count)
		}
		if source != "" {
			pos := token.PositionOf(source, instr.Span.Start)
			out.Position = fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber())
		}
		instructions = append(instructions, out)
	}
	return instructions, nil
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

func formatConstant(v bytecode.Value) string {
	switch v.Kind {
	case bytecode.NumberKind:
		return yellow(v.String())
	case bytecode.StringKind:
		s := v.Str
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return green(strconv.Quote(s))
	case bytecode.RegexKind:
		return magenta(v.String())
	}
	return bold(v.String())
}

// Print a string representation of the given instructions to the given
// writer. A LINE column is included when any instruction has a position.
func Print(instructions []Instruction, writer io.Writer) {
	withPosition := false
	for _, instr := range instructions {
		if instr.Position != "" {
			withPosition = true
			break
		}
	}
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, strconv.Itoa(instr.Offset))
		values = append(values, bold(instr.Name))
		values = append(values, instr.Operand)
		switch {
		case instr.Constant != nil:
			values = append(values, formatConstant(*instr.Constant))
		case instr.Opcode == op.MakeFunction:
			values = append(values, magenta(instr.Annotation))
		case instr.Annotation != "":
			values = append(values, cyan(instr.Annotation))
		default:
			values = append(values, "")
		}
		if withPosition {
			values = append(values, faint(instr.Position))
		}
		lines = append(lines, values)
	}

	header := []string{"OFFSET", "OPCODE", "OPERAND", "INFO"}
	columns := []table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft}
	if withPosition {
		header = append(header, "LINE")
		columns = append(columns, table.AlignLeft)
	}
	headerAlignment := make([]table.Alignment, len(header))
	for i := range headerAlignment {
		headerAlignment[i] = table.AlignCenter
	}
	table.NewTable(writer).
		WithHeader(header).
		WithColumnAlignment(columns).
		WithHeaderAlignment(headerAlignment).
		WithRows(lines).
		Render()
}
