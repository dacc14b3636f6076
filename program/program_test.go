package program

import (
	"testing"

	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

func TestBuildSimpleAnd(t *testing.T) {
	b := NewBuilder()
	a := b.AddRegister(1, "a", register.Input)
	bb := b.AddRegister(1, "b", register.Input)
	c := b.AddRegister(1, "c", register.Output)
	b.AddAnd(c, a, bb)

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if len(p.Instructions) != 1 {
		t.Fatalf("len(Instructions) = %d, want 1", len(p.Instructions))
	}
}

func TestBuildMissingEquation(t *testing.T) {
	b := NewBuilder()
	b.AddRegister(1, "a", 0)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() = nil, want MissingEquationError")
	} else if _, ok := err.(MissingEquationError); !ok {
		t.Fatalf("Build() error type = %T, want MissingEquationError", err)
	}
}

func TestBuildDuplicateEquation(t *testing.T) {
	b := NewBuilder()
	a := b.AddRegister(1, "a", register.Input)
	c := b.AddRegister(1, "c", 0)
	b.AddLoad(c, a)
	b.AddNot(c, a)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() = nil, want DuplicateEquationError")
	} else if _, ok := err.(DuplicateEquationError); !ok {
		t.Fatalf("Build() error type = %T, want DuplicateEquationError", err)
	}
}

func TestBuildInputWithEquation(t *testing.T) {
	b := NewBuilder()
	a := b.AddRegister(1, "a", register.Input)
	x := b.AddRegister(1, "x", register.Input)
	b.AddLoad(a, x)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() = nil, want InputHasEquationError")
	} else if _, ok := err.(InputHasEquationError); !ok {
		t.Fatalf("Build() error type = %T, want InputHasEquationError", err)
	}
}

func TestBuildWidthMismatchAborts(t *testing.T) {
	b := NewBuilder()
	a := b.AddRegister(4, "a", register.Input)
	c := b.AddRegister(1, "c", 0)
	b.AddLoad(c, a) // width mismatch: 1 != 4

	if b.Err() == nil {
		t.Fatalf("Err() = nil, want width mismatch error")
	}
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() = nil, want error")
	}
}

func TestAddRomAndRam(t *testing.T) {
	b := NewBuilder()
	addr := b.AddRegister(4, "addr", register.Input)
	romOut := b.AddRegister(8, "romOut", 0)
	b.AddRom(romOut, 4, 8, addr)

	we := b.AddRegister(1, "we", register.Input)
	wa := b.AddRegister(4, "wa", register.Input)
	wd := b.AddRegister(8, "wd", register.Input)
	ramOut := b.AddRegister(8, "ramOut", 0)
	b.AddRam(ramOut, 4, 8, addr, we, wa, wd)

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if p.MemoryBlocks.Len() != 2 {
		t.Fatalf("MemoryBlocks.Len() = %d, want 2", p.MemoryBlocks.Len())
	}
}

func TestAddRamAddrWidthMismatch(t *testing.T) {
	b := NewBuilder()
	addr := b.AddRegister(4, "addr", register.Input)
	badAddr := b.AddRegister(3, "badAddr", register.Input)
	we := b.AddRegister(1, "we", register.Input)
	wd := b.AddRegister(8, "wd", register.Input)
	out := b.AddRegister(8, "out", 0)
	b.AddRam(out, 4, 8, addr, we, badAddr, wd)

	if b.Err() == nil {
		t.Fatalf("Err() = nil, want write_addr width mismatch error")
	}
}

func TestDefiningInstruction(t *testing.T) {
	b := NewBuilder()
	a := b.AddRegister(1, "a", register.Input)
	c := b.AddRegister(1, "c", 0)
	b.AddLoad(c, a)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if idx := p.DefiningInstruction(c); idx != 0 {
		t.Errorf("DefiningInstruction(c) = %d, want 0", idx)
	}
	if idx := p.DefiningInstruction(a); idx != -1 {
		t.Errorf("DefiningInstruction(a) = %d, want -1", idx)
	}
}
