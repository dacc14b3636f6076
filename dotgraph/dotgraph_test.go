package dotgraph

import (
	"strings"
	"testing"

	"github.com/CPUlm/Netlist-Simulator-sub000/depgraph"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

func TestWriteBasic(t *testing.T) {
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
	if err := Write(&sb, prog); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "digraph {") {
		t.Errorf("output does not start with digraph header: %q", out)
	}
	if !strings.Contains(out, "shape=rect") {
		t.Errorf("output %q missing rect shape for OUTPUT register", out)
	}
	if !strings.Contains(out, "0 -> 1") {
		t.Errorf("output %q missing edge from a to c", out)
	}
}

func TestWriteRegEdgeIsDashed(t *testing.T) {
	b := program.NewBuilder()
	x := b.AddRegister(1, "x", 0)
	b.AddReg(x, x)
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := depgraph.Schedule(prog); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	var sb strings.Builder
	if err := Write(&sb, prog); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "0 -> 0 [style=dashed]") {
		t.Errorf("output %q missing dashed self-loop for REG feedback", out)
	}
}
