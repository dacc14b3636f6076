// Package instr defines the netlist instruction set: a tagged variant
// with one case per opcode, each carrying an output register index,
// its input register indices, and any per-opcode literal fields.
package instr

import (
	"fmt"

	"github.com/CPUlm/Netlist-Simulator-sub000/memblock"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// Opcode identifies one of the 16 instruction cases.
type Opcode int

const (
	Const Opcode = iota
	Load
	Not
	And
	Or
	Nand
	Nor
	Xor
	Xnor
	Mux
	Reg
	Concat
	Select
	Slice
	RomOp
	RamOp
)

var opcodeNames = map[Opcode]string{
	Const:  "CONST",
	Load:   "LOAD",
	Not:    "NOT",
	And:    "AND",
	Or:     "OR",
	Nand:   "NAND",
	Nor:    "NOR",
	Xor:    "XOR",
	Xnor:   "XNOR",
	Mux:    "MUX",
	Reg:    "REG",
	Concat: "CONCAT",
	Select: "SELECT",
	Slice:  "SLICE",
	RomOp:  "ROM",
	RamOp:  "RAM",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Instruction is a tagged variant: Op selects which fields are
// meaningful. This mirrors the 16-opcode table of the operand fields
// documented on each constructor below rather than a class hierarchy,
// so a single switch in the evaluator and scheduler can dispatch on Op.
type Instruction struct {
	Op     Opcode
	Output register.Index

	// CONST
	Value uint64

	// LOAD, NOT, REG: Input
	// AND/OR/NAND/NOR/XOR/XNOR: Lhs, Rhs
	// MUX: Sel, A, B
	// CONCAT: Lhs, Rhs (Lhs is the high part)
	// SELECT: Bit, Input
	// SLICE: First, Last, Input
	Input register.Index
	Lhs   register.Index
	Rhs   register.Index
	Sel   register.Index
	A     register.Index
	B     register.Index
	Bit   int
	First int
	Last  int

	// ROM: Block, ReadAddr
	// RAM: Block, ReadAddr, WriteEnable, WriteAddr, WriteData
	Block       memblock.Index
	ReadAddr    register.Index
	WriteEnable register.Index
	WriteAddr   register.Index
	WriteData   register.Index
}

// WidthMismatchError reports an operand whose width violates the
// per-opcode invariant of spec §3.
type WidthMismatchError struct {
	Op      Opcode
	Field   string
	Got     int
	Want    int
	Message string
}

func (e WidthMismatchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: operand %q has width %d, want %d", e.Op, e.Field, e.Got, e.Want)
}

// widthOf resolves the width of any register index an instruction
// refers to, given the owning register table. Callers
// (program.Builder) use this to check the width invariants below
// before the instruction is ever appended.
type widthOf func(register.Index) int

// CheckWidths validates the per-opcode width invariants of spec §3
// against the widths reported by width. It does not touch any table;
// it is pure, and program.Builder runs it at construction time.
func CheckWidths(in Instruction, width widthOf) error {
	outW := width(in.Output)
	switch in.Op {
	case Const:
		return nil
	case Load, Not, Reg:
		if w := width(in.Input); w != outW {
			return WidthMismatchError{Op: in.Op, Field: "input", Got: w, Want: outW}
		}
	case And, Or, Nand, Nor, Xor, Xnor:
		if w := width(in.Lhs); w != outW {
			return WidthMismatchError{Op: in.Op, Field: "lhs", Got: w, Want: outW}
		}
		if w := width(in.Rhs); w != outW {
			return WidthMismatchError{Op: in.Op, Field: "rhs", Got: w, Want: outW}
		}
	case Mux:
		if w := width(in.Sel); w != 1 {
			return WidthMismatchError{Op: in.Op, Field: "sel", Got: w, Want: 1}
		}
		if w := width(in.A); w != outW {
			return WidthMismatchError{Op: in.Op, Field: "a", Got: w, Want: outW}
		}
		if w := width(in.B); w != outW {
			return WidthMismatchError{Op: in.Op, Field: "b", Got: w, Want: outW}
		}
	case Concat:
		wl, wr := width(in.Lhs), width(in.Rhs)
		if wl+wr != outW {
			return WidthMismatchError{Op: in.Op, Message: fmt.Sprintf("lhs+rhs width %d+%d != output width %d", wl, wr, outW)}
		}
	case Select:
		if outW != 1 {
			return WidthMismatchError{Op: in.Op, Field: "output", Got: outW, Want: 1}
		}
		if in.Bit >= width(in.Input) {
			return WidthMismatchError{Op: in.Op, Message: fmt.Sprintf("select index %d >= input width %d", in.Bit, width(in.Input))}
		}
	case Slice:
		if in.First > in.Last {
			return WidthMismatchError{Op: in.Op, Message: fmt.Sprintf("slice first %d > end %d", in.First, in.Last)}
		}
		if in.Last >= width(in.Input) {
			return WidthMismatchError{Op: in.Op, Message: fmt.Sprintf("slice end %d >= input width %d", in.Last, width(in.Input))}
		}
		if want := in.Last - in.First + 1; outW != want {
			return WidthMismatchError{Op: in.Op, Field: "output", Got: outW, Want: want}
		}
	case RomOp:
		// addr width is implicit in ReadAddr's own width; callers
		// check ReadAddr against the block's declared address width.
	case RamOp:
		if w := width(in.WriteEnable); w != 1 {
			return WidthMismatchError{Op: in.Op, Field: "write_en", Got: w, Want: 1}
		}
		if w := width(in.WriteData); w != outW {
			return WidthMismatchError{Op: in.Op, Field: "write_data", Got: w, Want: outW}
		}
		if w := width(in.ReadAddr); w != width(in.WriteAddr) {
			return WidthMismatchError{Op: in.Op, Message: fmt.Sprintf("read_addr width %d != write_addr width %d", w, width(in.WriteAddr))}
		}
	default:
		return fmt.Errorf("instr: unknown opcode %v", in.Op)
	}
	return nil
}
