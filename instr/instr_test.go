package instr

import (
	"testing"

	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

func widthFn(w []int) widthOf {
	return func(idx register.Index) int { return w[idx] }
}

func TestCheckWidthsBinop(t *testing.T) {
	w := widthFn([]int{8, 8, 8})
	in := Instruction{Op: And, Output: 0, Lhs: 1, Rhs: 2}
	if err := CheckWidths(in, w); err != nil {
		t.Errorf("CheckWidths() = %v, want nil", err)
	}
}

func TestCheckWidthsMismatch(t *testing.T) {
	w := widthFn([]int{8, 4, 8})
	in := Instruction{Op: And, Output: 0, Lhs: 1, Rhs: 2}
	if err := CheckWidths(in, w); err == nil {
		t.Errorf("CheckWidths() = nil, want mismatch error")
	}
}

func TestCheckWidthsSlice(t *testing.T) {
	w := widthFn([]int{4, 8})
	in := Instruction{Op: Slice, Output: 0, First: 0, Last: 3, Input: 1}
	if err := CheckWidths(in, w); err != nil {
		t.Errorf("CheckWidths() = %v, want nil", err)
	}

	bad := Instruction{Op: Slice, Output: 0, First: 2, Last: 1, Input: 1}
	if err := CheckWidths(bad, w); err == nil {
		t.Errorf("CheckWidths(first>last) = nil, want error")
	}
}

func TestCheckWidthsSelect(t *testing.T) {
	w := widthFn([]int{1, 8})
	in := Instruction{Op: Select, Output: 0, Bit: 7, Input: 1}
	if err := CheckWidths(in, w); err != nil {
		t.Errorf("CheckWidths() = %v, want nil", err)
	}
	bad := Instruction{Op: Select, Output: 0, Bit: 8, Input: 1}
	if err := CheckWidths(bad, w); err == nil {
		t.Errorf("CheckWidths(bit out of range) = nil, want error")
	}
}

func TestCheckWidthsConcat(t *testing.T) {
	w := widthFn([]int{7, 4, 3})
	in := Instruction{Op: Concat, Output: 0, Lhs: 1, Rhs: 2}
	if err := CheckWidths(in, w); err != nil {
		t.Errorf("CheckWidths() = %v, want nil", err)
	}
}

func TestCheckWidthsMux(t *testing.T) {
	w := widthFn([]int{8, 1, 8, 8})
	in := Instruction{Op: Mux, Output: 0, Sel: 1, A: 2, B: 3}
	if err := CheckWidths(in, w); err != nil {
		t.Errorf("CheckWidths() = %v, want nil", err)
	}
	bad := Instruction{Op: Mux, Output: 0, Sel: 0, A: 2, B: 3}
	if err := CheckWidths(bad, w); err == nil {
		t.Errorf("CheckWidths(sel width != 1) = nil, want error")
	}
}

func TestCheckWidthsRam(t *testing.T) {
	// 0: output (word width 8), 1: read_addr (4), 2: write_en (1), 3: write_addr (4), 4: write_data (8)
	w := widthFn([]int{8, 4, 1, 4, 8})
	in := Instruction{Op: RamOp, Output: 0, ReadAddr: 1, WriteEnable: 2, WriteAddr: 3, WriteData: 4}
	if err := CheckWidths(in, w); err != nil {
		t.Errorf("CheckWidths() = %v, want nil", err)
	}
}

func TestOpcodeString(t *testing.T) {
	if got, want := And.String(), "AND"; got != want {
		t.Errorf("And.String() = %q, want %q", got, want)
	}
}
