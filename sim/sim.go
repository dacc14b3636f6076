// Package sim implements the cycle-accurate simulator: it owns the
// per-session register state (curr/prev), the RAM/ROM memory banks,
// and evaluates a scheduled Program one cycle at a time.
package sim

import (
	"fmt"

	"github.com/CPUlm/Netlist-Simulator-sub000/instr"
	"github.com/CPUlm/Netlist-Simulator-sub000/memblock"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// pendingWrite is a queued RAM write, sampled against curr at the
// instruction's position in the schedule and committed only at the
// end of the cycle.
type pendingWrite struct {
	block     memblock.Index
	addr      uint64
	data      uint64
}

// Simulator owns everything that changes across a simulation session:
// current and previous register values, RAM/ROM contents, and the
// queue of RAM writes collected during the in-flight cycle. It borrows
// its Program by reference and never mutates it (other than what the
// caller does via depgraph.Schedule beforehand).
type Simulator struct {
	prog *program.Program

	curr []uint64
	prev []uint64

	mem     [][]uint64 // indexed by memblock.Index, each 2^a words
	loaded  []bool     // whether LoadImage was called for this block
	pending []pendingWrite

	cycleCount int
}

// New creates a Simulator over an already-scheduled Program. All
// registers start at 0; RAM blocks start all-zero; ROM blocks start
// all-zero until LoadImage is called (simulating with an unloaded ROM
// is a UnloadedROMError, raised on the first cycle that reads it).
func New(p *program.Program) *Simulator {
	s := &Simulator{
		prog:   p,
		curr:   make([]uint64, p.Registers.Len()),
		prev:   make([]uint64, p.Registers.Len()),
		mem:    make([][]uint64, p.MemoryBlocks.Len()),
		loaded: make([]bool, p.MemoryBlocks.Len()),
	}
	for i := 0; i < p.MemoryBlocks.Len(); i++ {
		blk := p.MemoryBlocks.Get(memblock.Index(i))
		s.mem[i] = make([]uint64, blk.Size())
	}
	return s
}

// SetInput sets the current-cycle value of an INPUT register. It must
// be called for every INPUT register before Cycle. Values are masked
// to the register's declared width.
func (s *Simulator) SetInput(r register.Index, value uint64) {
	w := s.prog.Registers.Get(r).Width
	s.curr[r] = value & register.Mask(w)
}

// Value returns the current-cycle value of register r.
func (s *Simulator) Value(r register.Index) uint64 {
	return s.curr[r]
}

// LoadImage installs a word image into the memory block whose output
// register is r. len(words) must equal the block's Size(); each word
// must fit in the block's word width. This does not touch any file;
// reading the image from disk is the external driver's job (see the
// memimage package for the text-format parser).
func (s *Simulator) LoadImage(r register.Index, words []uint64) error {
	idx, ok := s.blockForOutput(r)
	if !ok {
		return fmt.Errorf("sim: register %q is not a memory block output", s.prog.Registers.DisplayName(r))
	}
	blk := s.prog.MemoryBlocks.Get(idx)
	if uint64(len(words)) != blk.Size() {
		return ImageLengthError{Register: s.prog.Registers.DisplayName(r), Got: len(words), Want: blk.Size()}
	}
	mask := register.Mask(blk.WordWidth)
	out := make([]uint64, len(words))
	for i, w := range words {
		if w & ^mask != 0 {
			return ImageWordTooWideError{Register: s.prog.Registers.DisplayName(r), Index: i, Value: w, WordWidth: blk.WordWidth}
		}
		out[i] = w
	}
	s.mem[idx] = out
	s.loaded[idx] = true
	return nil
}

func (s *Simulator) blockForOutput(r register.Index) (memblock.Index, bool) {
	for i := 0; i < s.prog.MemoryBlocks.Len(); i++ {
		if s.prog.MemoryBlocks.Get(memblock.Index(i)).Output == int(r) {
			return memblock.Index(i), true
		}
	}
	return 0, false
}

// ImageLengthError reports a memory image whose word count does not
// match the block's 2^a size.
type ImageLengthError struct {
	Register string
	Got      int
	Want     uint64
}

func (e ImageLengthError) Error() string {
	return fmt.Sprintf("memory image for %q has %d words, want %d", e.Register, e.Got, e.Want)
}

// ImageWordTooWideError reports a memory image word exceeding 2^w - 1.
type ImageWordTooWideError struct {
	Register  string
	Index     int
	Value     uint64
	WordWidth int
}

func (e ImageWordTooWideError) Error() string {
	return fmt.Sprintf("memory image for %q: word %d (value %d) exceeds %d-bit word width", e.Register, e.Index, e.Value, e.WordWidth)
}

// Cycle executes every instruction in scheduled order, then commits
// queued RAM writes and copies curr into prev. The caller must have
// set curr for every INPUT register beforehand (via SetInput). Cycle
// returns the first runtime error encountered (currently only unloaded
// ROM reads), aborting the remainder of the cycle's evaluation.
func (s *Simulator) Cycle() error {
	s.pending = s.pending[:0]

	for _, in := range s.prog.Instructions {
		val, err := s.eval(in)
		if err != nil {
			return err
		}
		w := s.prog.Registers.Get(in.Output).Width
		s.curr[in.Output] = val & register.Mask(w)
	}

	for _, pw := range s.pending {
		s.mem[pw.block][pw.addr] = pw.data
	}
	copy(s.prev, s.curr)
	s.cycleCount++
	return nil
}

// Simulate runs n cycles back to back without stopping for external
// input collection ("fast mode"), intended for programs with no
// INPUT registers. Every cycle still performs the full protocol of
// Cycle.
func (s *Simulator) Simulate(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// CycleCount returns the number of cycles executed so far.
func (s *Simulator) CycleCount() int { return s.cycleCount }

// UnloadedROMError reports a ROM block that was never given an image
// via LoadImage.
type UnloadedROMError struct {
	Register string
}

func (e UnloadedROMError) Error() string {
	return fmt.Sprintf("ROM %q read before being loaded", e.Register)
}

// CheckROMsLoaded returns an UnloadedROMError for the first ROM block
// that has no image, or nil if every ROM block was loaded. Per spec
// §4.4 this is fatal and should be checked once before a simulation
// session begins; RAM blocks need no such check since an unloaded RAM
// defaults to zeros.
func (s *Simulator) CheckROMsLoaded() error {
	for i := 0; i < s.prog.MemoryBlocks.Len(); i++ {
		blk := s.prog.MemoryBlocks.Get(memblock.Index(i))
		if blk.Kind == memblock.ROM && !s.loaded[i] {
			return UnloadedROMError{Register: s.prog.Registers.DisplayName(register.Index(blk.Output))}
		}
	}
	return nil
}

func (s *Simulator) eval(in instr.Instruction) (uint64, error) {
	switch in.Op {
	case instr.Const:
		return in.Value, nil
	case instr.Load:
		return s.curr[in.Input], nil
	case instr.Not:
		return ^s.curr[in.Input], nil
	case instr.And:
		return s.curr[in.Lhs] & s.curr[in.Rhs], nil
	case instr.Or:
		return s.curr[in.Lhs] | s.curr[in.Rhs], nil
	case instr.Nand:
		return ^(s.curr[in.Lhs] & s.curr[in.Rhs]), nil
	case instr.Nor:
		return ^(s.curr[in.Lhs] | s.curr[in.Rhs]), nil
	case instr.Xor:
		return s.curr[in.Lhs] ^ s.curr[in.Rhs], nil
	case instr.Xnor:
		return ^(s.curr[in.Lhs] ^ s.curr[in.Rhs]), nil
	case instr.Mux:
		if s.curr[in.Sel]&1 != 0 {
			return s.curr[in.A], nil
		}
		return s.curr[in.B], nil
	case instr.Reg:
		return s.prev[in.Input], nil
	case instr.Concat:
		rhsWidth := s.prog.Registers.Get(in.Rhs).Width
		return (s.curr[in.Lhs] << uint(rhsWidth)) | s.curr[in.Rhs], nil
	case instr.Select:
		return (s.curr[in.Input] >> uint(in.Bit)) & 1, nil
	case instr.Slice:
		return s.curr[in.Input] >> uint(in.First), nil
	case instr.RomOp:
		if !s.loaded[in.Block] {
			return 0, UnloadedROMError{Register: s.prog.Registers.DisplayName(in.Output)}
		}
		return s.mem[in.Block][s.curr[in.ReadAddr]], nil
	case instr.RamOp:
		val := s.mem[in.Block][s.curr[in.ReadAddr]]
		if s.curr[in.WriteEnable]&1 != 0 {
			s.pending = append(s.pending, pendingWrite{
				block: in.Block,
				addr:  s.curr[in.WriteAddr],
				data:  s.curr[in.WriteData],
			})
		}
		return val, nil
	default:
		return 0, fmt.Errorf("sim: unknown opcode %v", in.Op)
	}
}
