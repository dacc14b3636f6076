// Package program owns the register table, the memory-block table,
// and the ordered instruction sequence that together make up a
// netlist program. A Builder enforces every width invariant of
// spec §3 at insertion time and every structural invariant of
// spec §4.1 at Build time.
package program

import (
	"fmt"

	"github.com/CPUlm/Netlist-Simulator-sub000/instr"
	"github.com/CPUlm/Netlist-Simulator-sub000/memblock"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// Program is an ordered sequence of instructions together with the
// register and memory-block tables they refer to. A Program is
// immutable once returned from Builder.Build, except that the
// scheduler is permitted to reorder Instructions in place.
type Program struct {
	Registers    *register.Table
	MemoryBlocks *memblock.Table
	Instructions []instr.Instruction
}

// DefiningInstruction returns the index into Instructions that defines
// reg, or -1 if reg has no defining instruction (it is an INPUT).
func (p *Program) DefiningInstruction(reg register.Index) int {
	for i, in := range p.Instructions {
		if in.Output == reg {
			return i
		}
	}
	return -1
}

// UndefinedRegisterError reports an instruction referring to a
// register index outside the table's range.
type UndefinedRegisterError struct {
	Index register.Index
}

func (e UndefinedRegisterError) Error() string {
	return fmt.Sprintf("undefined register index %d", e.Index)
}

// DuplicateEquationError reports a register with more than one
// defining instruction.
type DuplicateEquationError struct {
	Name string
}

func (e DuplicateEquationError) Error() string {
	return fmt.Sprintf("register %q already has a defining equation", e.Name)
}

// MissingEquationError reports a non-INPUT register with no defining
// instruction.
type MissingEquationError struct {
	Name string
}

func (e MissingEquationError) Error() string {
	return fmt.Sprintf("register %q has no defining equation", e.Name)
}

// InputHasEquationError reports an INPUT register that was also given
// a defining instruction, which spec §4.1 forbids.
type InputHasEquationError struct {
	Name string
}

func (e InputHasEquationError) Error() string {
	return fmt.Sprintf("INPUT register %q must not have a defining equation", e.Name)
}

// Builder accumulates registers, memory blocks and instructions,
// checking every width invariant as each is added. A failed check is
// recorded, not panicked on; Build reports the first recorded failure.
type Builder struct {
	regs  *register.Table
	mem   *memblock.Table
	insts []instr.Instruction
	err   error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{regs: register.NewTable(), mem: memblock.NewTable()}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first construction error recorded so far, or nil.
func (b *Builder) Err() error {
	return b.err
}

// AddRegister allocates a register of the given width, optional name
// and flags, returning its index. On a width or duplicate-name error
// the failure is recorded on the Builder and Index -1 is returned;
// callers may keep building (later uses of the bad index will simply
// also fail) but Build will surface the recorded error.
func (b *Builder) AddRegister(width int, name string, flags register.Flag) register.Index {
	idx, err := b.regs.Add(width, name, flags)
	if err != nil {
		b.fail(err)
		return -1
	}
	return idx
}

func (b *Builder) width(idx register.Index) int {
	if idx < 0 || int(idx) >= b.regs.Len() {
		b.fail(UndefinedRegisterError{Index: idx})
		return 0
	}
	return b.regs.Get(idx).Width
}

func (b *Builder) add(in instr.Instruction) {
	if err := instr.CheckWidths(in, b.width); err != nil {
		b.fail(err)
		return
	}
	b.insts = append(b.insts, in)
}

// AddConst appends `output <- value & mask(width(output))`.
func (b *Builder) AddConst(output register.Index, value uint64) {
	b.add(instr.Instruction{Op: instr.Const, Output: output, Value: value})
}

// AddLoad appends `output <- input`.
func (b *Builder) AddLoad(output, input register.Index) {
	b.add(instr.Instruction{Op: instr.Load, Output: output, Input: input})
}

// AddNot appends `output <- ~input`.
func (b *Builder) AddNot(output, input register.Index) {
	b.add(instr.Instruction{Op: instr.Not, Output: output, Input: input})
}

func (b *Builder) addBinop(op instr.Opcode, output, lhs, rhs register.Index) {
	b.add(instr.Instruction{Op: op, Output: output, Lhs: lhs, Rhs: rhs})
}

// AddAnd appends a bitwise AND instruction.
func (b *Builder) AddAnd(output, lhs, rhs register.Index) { b.addBinop(instr.And, output, lhs, rhs) }

// AddOr appends a bitwise OR instruction.
func (b *Builder) AddOr(output, lhs, rhs register.Index) { b.addBinop(instr.Or, output, lhs, rhs) }

// AddNand appends a bitwise NAND instruction.
func (b *Builder) AddNand(output, lhs, rhs register.Index) {
	b.addBinop(instr.Nand, output, lhs, rhs)
}

// AddNor appends a bitwise NOR instruction.
func (b *Builder) AddNor(output, lhs, rhs register.Index) { b.addBinop(instr.Nor, output, lhs, rhs) }

// AddXor appends a bitwise XOR instruction.
func (b *Builder) AddXor(output, lhs, rhs register.Index) { b.addBinop(instr.Xor, output, lhs, rhs) }

// AddXnor appends a bitwise XNOR instruction.
func (b *Builder) AddXnor(output, lhs, rhs register.Index) {
	b.addBinop(instr.Xnor, output, lhs, rhs)
}

// AddMux appends `output <- sel ? a : b`.
func (b *Builder) AddMux(output, sel, a, bOperand register.Index) {
	b.add(instr.Instruction{Op: instr.Mux, Output: output, Sel: sel, A: a, B: bOperand})
}

// AddReg appends a one-cycle-delayed read of input.
func (b *Builder) AddReg(output, input register.Index) {
	b.add(instr.Instruction{Op: instr.Reg, Output: output, Input: input})
}

// AddConcat appends `output <- (lhs << width(rhs)) | rhs`.
func (b *Builder) AddConcat(output, lhs, rhs register.Index) {
	b.add(instr.Instruction{Op: instr.Concat, Output: output, Lhs: lhs, Rhs: rhs})
}

// AddSelect appends `output <- bit i of input`.
func (b *Builder) AddSelect(output register.Index, i int, input register.Index) {
	b.add(instr.Instruction{Op: instr.Select, Output: output, Bit: i, Input: input})
}

// AddSlice appends `output <- bits [first..end] of input`.
func (b *Builder) AddSlice(output register.Index, first, end int, input register.Index) {
	b.add(instr.Instruction{Op: instr.Slice, Output: output, First: first, Last: end, Input: input})
}

// AddRom allocates a ROM memory block of the given address/word widths
// and appends the ROM read instruction, returning the block's index.
func (b *Builder) AddRom(output register.Index, addrWidth, wordWidth int, readAddr register.Index) memblock.Index {
	blk, err := b.mem.Add(addrWidth, wordWidth, memblock.ROM, int(output))
	if err != nil {
		b.fail(err)
		return -1
	}
	if w := b.width(output); w != wordWidth {
		b.fail(instr.WidthMismatchError{Op: instr.RomOp, Field: "output", Got: w, Want: wordWidth})
		return blk
	}
	if w := b.width(readAddr); w != addrWidth {
		b.fail(instr.WidthMismatchError{Op: instr.RomOp, Field: "read_addr", Got: w, Want: addrWidth})
		return blk
	}
	b.insts = append(b.insts, instr.Instruction{Op: instr.RomOp, Output: output, Block: blk, ReadAddr: readAddr})
	return blk
}

// AddRam allocates a RAM memory block of the given address/word widths
// and appends the RAM read/write instruction, returning the block's
// index.
func (b *Builder) AddRam(output register.Index, addrWidth, wordWidth int, readAddr, writeEnable, writeAddr, writeData register.Index) memblock.Index {
	blk, err := b.mem.Add(addrWidth, wordWidth, memblock.RAM, int(output))
	if err != nil {
		b.fail(err)
		return -1
	}
	if w := b.width(output); w != wordWidth {
		b.fail(instr.WidthMismatchError{Op: instr.RamOp, Field: "output", Got: w, Want: wordWidth})
		return blk
	}
	for field, idx := range map[string]register.Index{"read_addr": readAddr, "write_addr": writeAddr} {
		if w := b.width(idx); w != addrWidth {
			b.fail(instr.WidthMismatchError{Op: instr.RamOp, Field: field, Got: w, Want: addrWidth})
			return blk
		}
	}
	if w := b.width(writeEnable); w != 1 {
		b.fail(instr.WidthMismatchError{Op: instr.RamOp, Field: "write_en", Got: w, Want: 1})
		return blk
	}
	if w := b.width(writeData); w != wordWidth {
		b.fail(instr.WidthMismatchError{Op: instr.RamOp, Field: "write_data", Got: w, Want: wordWidth})
		return blk
	}
	b.insts = append(b.insts, instr.Instruction{
		Op: instr.RamOp, Output: output, Block: blk,
		ReadAddr: readAddr, WriteEnable: writeEnable, WriteAddr: writeAddr, WriteData: writeData,
	})
	return blk
}

// Build validates the structural invariants of spec §4.1 (every
// non-INPUT register has exactly one defining instruction, no INPUT
// register has one) and returns the finished Program. It fails if any
// error was recorded during construction, or if a structural
// invariant is violated.
func (b *Builder) Build() (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}

	defCount := make([]int, b.regs.Len())
	for _, in := range b.insts {
		defCount[in.Output]++
	}

	for _, idx := range b.regs.Indices() {
		reg := b.regs.Get(idx)
		n := defCount[idx]
		switch {
		case reg.IsInput() && n > 0:
			return nil, InputHasEquationError{Name: b.regs.DisplayName(idx)}
		case reg.IsInput():
			// n == 0, as required.
		case n == 0:
			return nil, MissingEquationError{Name: b.regs.DisplayName(idx)}
		case n > 1:
			return nil, DuplicateEquationError{Name: b.regs.DisplayName(idx)}
		}
	}

	return &Program{Registers: b.regs, MemoryBlocks: b.mem, Instructions: b.insts}, nil
}
