// Package dotgraph renders a program's dependency graph as Graphviz
// DOT, one node per register and one edge per instruction operand.
// It mirrors the original project's DotPrinter: a node per variable
// labeled with its name, bit width and defining equation, OUTPUT
// registers drawn as rectangles, and REG-broken edges (the
// dependency that spec §4.2 omits from scheduling, because a REG
// read observes the previous cycle) drawn dashed so the graph stays
// readable even though it is not scheduling-relevant.
package dotgraph

import (
	"fmt"
	"io"

	"github.com/CPUlm/Netlist-Simulator-sub000/instr"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// Write renders p's dependency structure as a DOT digraph to w.
func Write(w io.Writer, p *program.Program) error {
	fmt.Fprintln(w, "digraph {")

	for _, idx := range p.Registers.Indices() {
		reg := p.Registers.Get(idx)
		label := equationLabel(p, idx)
		shape := ""
		if reg.IsOutput() {
			shape = ", shape=rect"
		}
		fmt.Fprintf(w, "\t%d [label=<<b>%s</b><br/><i>size</i>: %d%s>%s]\n",
			idx, displayName(p, idx), reg.Width, label, shape)
	}

	for _, idx := range p.Registers.Indices() {
		pos := p.DefiningInstruction(idx)
		if pos < 0 {
			continue
		}
		in := p.Instructions[pos]
		for _, e := range edges(in) {
			style := ""
			if e.broken {
				style = " [style=dashed]"
			}
			fmt.Fprintf(w, "\t%d -> %d%s\n", e.from, idx, style)
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}

func displayName(p *program.Program, idx register.Index) string {
	return p.Registers.DisplayName(idx)
}

func equationLabel(p *program.Program, idx register.Index) string {
	pos := p.DefiningInstruction(idx)
	if pos < 0 {
		return ""
	}
	return fmt.Sprintf("<br/><i>eq</i>: %s", equationText(p, p.Instructions[pos]))
}

func equationText(p *program.Program, in instr.Instruction) string {
	name := func(idx register.Index) string { return displayName(p, idx) }
	switch in.Op {
	case instr.Const:
		return fmt.Sprintf("%#b", in.Value)
	case instr.Load:
		return name(in.Input)
	case instr.Not:
		return "NOT " + name(in.Input)
	case instr.And:
		return fmt.Sprintf("AND (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Or:
		return fmt.Sprintf("OR (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Nand:
		return fmt.Sprintf("NAND (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Nor:
		return fmt.Sprintf("NOR (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Xor:
		return fmt.Sprintf("XOR (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Xnor:
		return fmt.Sprintf("XNOR (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Mux:
		return fmt.Sprintf("MUX (%s, %s, %s)", name(in.Sel), name(in.A), name(in.B))
	case instr.Reg:
		return fmt.Sprintf("REG(%s)", name(in.Input))
	case instr.Concat:
		return fmt.Sprintf("CONCAT (%s, %s)", name(in.Lhs), name(in.Rhs))
	case instr.Select:
		return fmt.Sprintf("SELECT (%d, %s)", in.Bit, name(in.Input))
	case instr.Slice:
		return fmt.Sprintf("SLICE (%d, %d, %s)", in.First, in.Last, name(in.Input))
	case instr.RomOp:
		return fmt.Sprintf("ROM (%s)", name(in.ReadAddr))
	case instr.RamOp:
		return fmt.Sprintf("RAM (%s, %s, %s, %s)", name(in.ReadAddr), name(in.WriteEnable), name(in.WriteAddr), name(in.WriteData))
	default:
		return "?"
	}
}

type edge struct {
	from   register.Index
	broken bool
}

// edges lists every operand of in as a graph edge into in.Output,
// marking the ones spec §4.2 excludes from scheduling (a REG read, or
// a RAM write_en/write_addr/write_data operand) as "broken": still
// drawn, since they are real data dependencies a reader wants to see,
// but dashed because they do not constrain the same-cycle schedule.
func edges(in instr.Instruction) []edge {
	switch in.Op {
	case instr.Const:
		return nil
	case instr.Load, instr.Not:
		return []edge{{from: in.Input}}
	case instr.And, instr.Or, instr.Nand, instr.Nor, instr.Xor, instr.Xnor:
		return []edge{{from: in.Lhs}, {from: in.Rhs}}
	case instr.Mux:
		return []edge{{from: in.Sel}, {from: in.A}, {from: in.B}}
	case instr.Reg:
		return []edge{{from: in.Input, broken: true}}
	case instr.Concat:
		return []edge{{from: in.Lhs}, {from: in.Rhs}}
	case instr.Select, instr.Slice:
		return []edge{{from: in.Input}}
	case instr.RomOp:
		return []edge{{from: in.ReadAddr}}
	case instr.RamOp:
		return []edge{
			{from: in.ReadAddr},
			{from: in.WriteEnable, broken: true},
			{from: in.WriteAddr, broken: true},
			{from: in.WriteData, broken: true},
		}
	default:
		return nil
	}
}
