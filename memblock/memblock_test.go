package memblock

import "testing"

func TestAddAndSize(t *testing.T) {
	tbl := NewTable()
	idx, err := tbl.Add(4, 8, RAM, 3)
	if err != nil {
		t.Fatalf("Add: unexpected error %v", err)
	}
	blk := tbl.Get(idx)
	if got, want := blk.Size(), uint64(16); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
	if blk.Kind != RAM {
		t.Errorf("Kind = %v, want RAM", blk.Kind)
	}
}

func TestAddInvalidWidths(t *testing.T) {
	tests := []struct {
		name      string
		addrWidth int
		wordWidth int
	}{
		{"zero addr width", 0, 8},
		{"addr width too large", 65, 8},
		{"zero word width", 4, 0},
		{"word width too large", 4, 65},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tbl := NewTable()
			if _, err := tbl.Add(test.addrWidth, test.wordWidth, ROM, 0); err == nil {
				t.Errorf("Add(%d, %d) = nil error, want error", test.addrWidth, test.wordWidth)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if got, want := ROM.String(), "ROM"; got != want {
		t.Errorf("ROM.String() = %q, want %q", got, want)
	}
	if got, want := RAM.String(), "RAM"; got != want {
		t.Errorf("RAM.String() = %q, want %q", got, want)
	}
}
