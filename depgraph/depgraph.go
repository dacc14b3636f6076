// Package depgraph computes the same-cycle dependency graph between
// the registers of a program, answers reachability queries over it,
// and produces the linear evaluation order ("schedule") a simulator
// must follow within one cycle.
//
// The graph deliberately omits edges that the circuit semantics of
// spec §4.2 promise never create a same-cycle dependency: a REG
// read (it observes the previous cycle), a RAM write_en / write_addr
// / write_data operand (committed at end of cycle), and any operand
// that is itself an INPUT register (set before the cycle begins).
package depgraph

import (
	"fmt"

	"github.com/CPUlm/Netlist-Simulator-sub000/instr"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// CycleError reports a directed cycle found while scheduling, naming
// one register on the cycle.
type CycleError struct {
	Register string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("scheduling cycle detected involving register %q", e.Register)
}

// Graph is the same-cycle dependency adjacency list of a Program,
// keyed by register index: deps[r] lists the registers r's defining
// instruction consumes in the same cycle.
type Graph struct {
	prog *program.Program
	deps [][]register.Index
	// definedBy[r] is the position in prog.Instructions of the
	// instruction defining register r, or -1 if r is an INPUT.
	definedBy []int
}

// Build constructs the dependency graph of p. Building is
// O(instructions + operands), one pass over p.Instructions.
func Build(p *program.Program) *Graph {
	n := p.Registers.Len()
	g := &Graph{
		prog:      p,
		deps:      make([][]register.Index, n),
		definedBy: make([]int, n),
	}
	for i := range g.definedBy {
		g.definedBy[i] = -1
	}

	for pos, in := range p.Instructions {
		g.definedBy[in.Output] = pos
		for _, operand := range sameCycleOperands(in) {
			if p.Registers.Get(operand).IsInput() {
				continue
			}
			g.deps[in.Output] = append(g.deps[in.Output], operand)
		}
	}
	return g
}

// sameCycleOperands returns the operand register indices of in that
// create a same-cycle dependency edge, per the exceptions in spec §4.2.
func sameCycleOperands(in instr.Instruction) []register.Index {
	switch in.Op {
	case instr.Const:
		return nil
	case instr.Load, instr.Not:
		return []register.Index{in.Input}
	case instr.And, instr.Or, instr.Nand, instr.Nor, instr.Xor, instr.Xnor:
		return []register.Index{in.Lhs, in.Rhs}
	case instr.Mux:
		return []register.Index{in.Sel, in.A, in.B}
	case instr.Reg:
		// The read is from the previous cycle: no same-cycle dependency.
		return nil
	case instr.Concat:
		return []register.Index{in.Lhs, in.Rhs}
	case instr.Select, instr.Slice:
		return []register.Index{in.Input}
	case instr.RomOp:
		return []register.Index{in.ReadAddr}
	case instr.RamOp:
		// write_en/write_addr/write_data are committed at end of
		// cycle and introduce no same-cycle edge; only read_addr does.
		return []register.Index{in.ReadAddr}
	default:
		return nil
	}
}

// Depends reports whether b must be evaluated before a: that is,
// whether a is reachable from b by forward (producer -> consumer)
// edges.
func (g *Graph) Depends(a, b register.Index) bool {
	visited := make([]bool, len(g.deps))
	var walk func(register.Index) bool
	walk = func(x register.Index) bool {
		if x == b {
			return true
		}
		if visited[x] {
			return false
		}
		visited[x] = true
		for _, d := range g.deps[x] {
			if walk(d) {
				return true
			}
		}
		return false
	}
	return walk(a)
}

type mark int

const (
	unvisited mark = iota
	inProgress
	visited
)

// order computes the dependency-respecting register visitation order
// via a three-color depth-first traversal, iterating root registers
// in index order so that two programs differing only in instruction
// insertion order (same register declaration order) produce the same
// result. It returns CycleError on the first back-edge found.
func (g *Graph) order() ([]register.Index, error) {
	n := len(g.deps)
	marks := make([]mark, n)
	result := make([]register.Index, 0, n)

	var visit func(register.Index) error
	visit = func(r register.Index) error {
		switch marks[r] {
		case visited:
			return nil
		case inProgress:
			return CycleError{Register: g.prog.Registers.DisplayName(r)}
		}
		marks[r] = inProgress
		for _, dep := range g.deps[r] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[r] = visited
		result = append(result, r)
		return nil
	}

	for _, r := range g.prog.Registers.Indices() {
		if err := visit(r); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Schedule reorders p.Instructions in place into a valid topological
// order: every instruction precedes every instruction that consumes
// its output in the same cycle. It reports a CycleError if and only
// if the dependency graph contains a directed cycle. Calling Schedule
// again on an already-scheduled program is a no-op, since the order
// is a deterministic function of the register table and instruction
// definitions, not of the current instruction order.
func Schedule(p *program.Program) error {
	g := Build(p)
	order, err := g.order()
	if err != nil {
		return err
	}

	scheduled := make([]instr.Instruction, 0, len(p.Instructions))
	for _, r := range order {
		if pos := g.definedBy[r]; pos >= 0 {
			scheduled = append(scheduled, p.Instructions[pos])
		}
	}
	p.Instructions = scheduled
	return nil
}
