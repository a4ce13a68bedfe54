package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/xxh3"

	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/op"
)

// FormatVersion is the version of the serialized program format.
const FormatVersion = 1

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Serialization types

type valueDef struct {
	Kind   Kind    `cbor:"1,keyasint"`
	Bool   bool    `cbor:"2,keyasint,omitempty"`
	Number float64 `cbor:"3,keyasint,omitempty"`
	Str    string  `cbor:"4,keyasint,omitempty"`
	Flags  string  `cbor:"5,keyasint,omitempty"`
}

type instructionDef struct {
	Op     op.Code    `cbor:"1,keyasint"`
	Value  *valueDef  `cbor:"2,keyasint,omitempty"`
	Name   string     `cbor:"3,keyasint,omitempty"`
	Params []string   `cbor:"4,keyasint,omitempty"`
	Label  string     `cbor:"5,keyasint,omitempty"`
	Mode   TargetMode `cbor:"6,keyasint,omitempty"`
	Target int        `cbor:"7,keyasint,omitempty"`
	Count  int        `cbor:"8,keyasint,omitempty"`
	Span   [2]int     `cbor:"9,keyasint"`
}

type programDef struct {
	Version      int              `cbor:"1,keyasint"`
	Filename     string           `cbor:"2,keyasint,omitempty"`
	Source       string           `cbor:"3,keyasint,omitempty"`
	Linked       bool             `cbor:"4,keyasint,omitempty"`
	Functions    []string         `cbor:"5,keyasint,omitempty"`
	Instructions []instructionDef `cbor:"6,keyasint"`
}

// Marshal converts a Program into its canonical CBOR representation.
func Marshal(p *Program) ([]byte, error) {
	def := programDef{
		Version:      FormatVersion,
		Filename:     p.filename,
		Source:       p.source,
		Linked:       p.linked,
		Functions:    p.functions,
		Instructions: make([]instructionDef, len(p.instructions)),
	}
	for i, instr := range p.instructions {
		d := instructionDef{
			Op:     instr.Op,
			Name:   instr.Name,
			Params: instr.Params,
			Label:  instr.Label,
			Mode:   instr.Mode,
			Target: instr.Target,
			Count:  instr.Count,
			Span:   [2]int{instr.Span.Start, instr.Span.End},
		}
		if instr.Op == op.Push {
			v := valueDef(instr.Value)
			d.Value = &v
		}
		def.Instructions[i] = d
	}
	data, err := encMode.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal program: %w", err)
	}
	return data, nil
}

// Unmarshal converts a CBOR representation into a Program.
func Unmarshal(data []byte) (*Program, error) {
	var def programDef
	if err := cbor.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if def.Version != FormatVersion {
		return nil, fmt.Errorf("bytecode: unsupported format version %d", def.Version)
	}
	instrs := make([]Instruction, len(def.Instructions))
	for i, d := range def.Instructions {
		if op.GetInfo(d.Op).Name == "" {
			return nil, fmt.Errorf("bytecode: invalid opcode %d at %d", d.Op, i)
		}
		instr := Instruction{
			Op:     d.Op,
			Name:   d.Name,
			Params: d.Params,
			Label:  d.Label,
			Mode:   d.Mode,
			Target: d.Target,
			Count:  d.Count,
			Span:   token.Span{Start: d.Span[0], End: d.Span[1]},
		}
		if d.Value != nil {
			instr.Value = Value(*d.Value)
		}
		instrs[i] = instr
	}
	return NewProgram(ProgramParams{
		Instructions: instrs,
		Functions:    def.Functions,
		Source:       def.Source,
		Filename:     def.Filename,
		Linked:       def.Linked,
	}), nil
}

// Hash returns a fingerprint of the program's serialized form. Programs
// compiled from the same text hash equally.
func Hash(p *Program) (uint64, error) {
	data, err := Marshal(p)
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(data), nil
}
