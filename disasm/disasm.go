// Package disasm prints a program.Program back out in the same
// netlist source syntax netlang.Parse accepts, so that
// netlang.Parse(Disassemble(p)) reconstructs a schedule-equivalent
// program. Grounded on the original project's disassembler.cpp
// (per-opcode "output = OPCODE args..." line printer, register names
// resolved through the program's own name table) and
// program_printer.cpp (the INPUT/OUTPUT/VAR/IN header shape).
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/CPUlm/Netlist-Simulator-sub000/instr"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// Disassemble writes p to w as netlist source text: an INPUT line, an
// OUTPUT line, a VAR line declaring every register (with an explicit
// ":width" for any register wider than 1 bit), an IN line, then one
// equation per scheduled instruction. Anonymous registers are named
// "__rN", matching register.Table.DisplayName.
func Disassemble(w io.Writer, p *program.Program) error {
	name := func(idx register.Index) string { return p.Registers.DisplayName(idx) }

	var inputs, outputs, decls []string
	for _, idx := range p.Registers.Indices() {
		reg := p.Registers.Get(idx)
		if reg.IsInput() {
			inputs = append(inputs, name(idx))
		}
		if reg.IsOutput() {
			outputs = append(outputs, name(idx))
		}
		if reg.Width > 1 {
			decls = append(decls, fmt.Sprintf("%s:%d", name(idx), reg.Width))
		} else {
			decls = append(decls, name(idx))
		}
	}

	fmt.Fprintf(w, "INPUT %s\n", strings.Join(inputs, ", "))
	fmt.Fprintf(w, "OUTPUT %s\n", strings.Join(outputs, ", "))
	fmt.Fprintf(w, "VAR %s\n", strings.Join(decls, ", "))
	fmt.Fprintln(w, "IN")

	for _, in := range p.Instructions {
		line, err := formatEquation(p, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func formatEquation(p *program.Program, in instr.Instruction) (string, error) {
	name := func(idx register.Index) string { return p.Registers.DisplayName(idx) }
	output := name(in.Output)

	switch in.Op {
	case instr.Const:
		width := p.Registers.Get(in.Output).Width
		return fmt.Sprintf("%s = %0*b", output, width, in.Value), nil
	case instr.Load:
		return fmt.Sprintf("%s = %s", output, name(in.Input)), nil
	case instr.Not:
		return fmt.Sprintf("%s = NOT %s", output, name(in.Input)), nil
	case instr.And, instr.Or, instr.Nand, instr.Nor, instr.Xor, instr.Xnor:
		return fmt.Sprintf("%s = %s %s %s", output, in.Op, name(in.Lhs), name(in.Rhs)), nil
	case instr.Mux:
		return fmt.Sprintf("%s = MUX %s %s %s", output, name(in.Sel), name(in.A), name(in.B)), nil
	case instr.Reg:
		return fmt.Sprintf("%s = REG %s", output, name(in.Input)), nil
	case instr.Concat:
		return fmt.Sprintf("%s = CONCAT %s %s", output, name(in.Lhs), name(in.Rhs)), nil
	case instr.Select:
		return fmt.Sprintf("%s = SELECT %d %s", output, in.Bit, name(in.Input)), nil
	case instr.Slice:
		return fmt.Sprintf("%s = SLICE %d %d %s", output, in.First, in.Last, name(in.Input)), nil
	case instr.RomOp:
		blk := p.MemoryBlocks.Get(in.Block)
		return fmt.Sprintf("%s = ROM %d %d %s", output, blk.AddrWidth, blk.WordWidth, name(in.ReadAddr)), nil
	case instr.RamOp:
		blk := p.MemoryBlocks.Get(in.Block)
		return fmt.Sprintf("%s = RAM %d %d %s %s %s %s", output, blk.AddrWidth, blk.WordWidth,
			name(in.ReadAddr), name(in.WriteEnable), name(in.WriteAddr), name(in.WriteData)), nil
	default:
		return "", fmt.Errorf("disasm: unknown opcode %v", in.Op)
	}
}
