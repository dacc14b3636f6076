package disasm

import (
	"strings"
	"testing"

	"github.com/CPUlm/Netlist-Simulator-sub000/depgraph"
	"github.com/CPUlm/Netlist-Simulator-sub000/netlang"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

func TestDisassembleBasic(t *testing.T) {
	b := program.NewBuilder()
	a := b.AddRegister(1, "a", register.Input)
	c := b.AddRegister(1, "c", register.Output)
	b.AddNot(c, a)
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := depgraph.Schedule(prog); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	var sb strings.Builder
	if err := Disassemble(&sb, prog); err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "c = NOT a") {
		t.Errorf("output %q missing NOT equation", out)
	}
	if !strings.Contains(out, "INPUT a") {
		t.Errorf("output %q missing INPUT line", out)
	}
	if !strings.Contains(out, "OUTPUT c") {
		t.Errorf("output %q missing OUTPUT line", out)
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	const src = `
INPUT a, b
OUTPUT whole
VAR a:4, b:4, whole:8
IN
whole = CONCAT a b
`
	prog, err := netlang.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := depgraph.Schedule(prog); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	var sb strings.Builder
	if err := Disassemble(&sb, prog); err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}

	reparsed, err := netlang.Parse(sb.String())
	if err != nil {
		t.Fatalf("re-Parse() of disassembly error = %v: %q", err, sb.String())
	}
	if err := depgraph.Schedule(reparsed); err != nil {
		t.Fatalf("Schedule() of reparsed program error = %v", err)
	}
	if len(reparsed.Instructions) != len(prog.Instructions) {
		t.Errorf("reparsed has %d instructions, want %d", len(reparsed.Instructions), len(prog.Instructions))
	}
}

func TestDisassembleRomRam(t *testing.T) {
	b := program.NewBuilder()
	addr := b.AddRegister(2, "addr", register.Input)
	romOut := b.AddRegister(4, "romout", register.Output)
	b.AddRom(romOut, 2, 4, addr)

	we := b.AddRegister(1, "we", register.Input)
	wd := b.AddRegister(4, "wd", register.Input)
	ramOut := b.AddRegister(4, "ramout", register.Output)
	b.AddRam(ramOut, 2, 4, addr, we, addr, wd)

	prog, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := depgraph.Schedule(prog); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	var sb strings.Builder
	if err := Disassemble(&sb, prog); err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "= ROM 2 4 addr") {
		t.Errorf("output %q missing ROM equation", out)
	}
	if !strings.Contains(out, "= RAM 2 4 addr we addr wd") {
		t.Errorf("output %q missing RAM equation", out)
	}
}

func TestDisassembleAnonymousConstant(t *testing.T) {
	const src = `
INPUT
OUTPUT o
VAR o:4
IN
o = 0b1010:4
`
	prog, err := netlang.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := depgraph.Schedule(prog); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	var sb strings.Builder
	if err := Disassemble(&sb, prog); err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "__r") {
		t.Errorf("output %q missing anonymous constant register", out)
	}
	if !strings.Contains(out, "o = __r") {
		t.Errorf("output %q missing load of the constant into o", out)
	}
}
