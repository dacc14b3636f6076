// Package register defines the register table for a netlist program:
// fixed-width bit-vector storage cells identified by dense integer
// indices, each carrying an optional name and an INPUT/OUTPUT flag set.
package register

import "fmt"

// MaxWidth is the widest bit vector a register may declare.
const MaxWidth = 64

// Flag is a bitset of register roles.
type Flag uint8

const (
	// Input marks a register whose value is supplied by the external
	// driver before each cycle. An Input register has no defining
	// instruction.
	Input Flag = 1 << iota
	// Output marks a register whose value is reported to the external
	// driver after each cycle.
	Output
)

// Index is an opaque reference to a register in a Table. Indices are
// stable for the lifetime of the Table they were allocated from.
type Index int

// Register is a typed bit-vector storage cell. Width and flags are
// immutable after creation; Table.Add is the only constructor.
type Register struct {
	Width int
	Name  string
	Flags Flag
}

// IsInput reports whether r is an INPUT register.
func (r Register) IsInput() bool { return r.Flags&Input != 0 }

// IsOutput reports whether r is an OUTPUT register.
func (r Register) IsOutput() bool { return r.Flags&Output != 0 }

// Mask returns the bitmask that keeps exactly the low w bits of a
// 64-bit word, treating w == 64 as "no mask needed".
func Mask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}

// WidthError reports a register width outside [1, MaxWidth].
type WidthError struct {
	Width int
}

func (e WidthError) Error() string {
	return fmt.Sprintf("register width %d out of range [1, %d]", e.Width, MaxWidth)
}

// DuplicateNameError reports an attempt to declare two registers with
// the same non-empty name.
type DuplicateNameError struct {
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate register name %q", e.Name)
}

// Table owns the set of registers allocated for one Program. Indices
// returned by Add are dense (0, 1, 2, ...) and stable for the Table's
// lifetime; the Table never reuses or renumbers them.
type Table struct {
	regs   []Register
	byName map[string]Index
}

// NewTable returns an empty register table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Index)}
}

// Add allocates a new register of the given width, optional name (pass
// "" for anonymous) and flags, returning its stable index. It is an
// error for width to fall outside [1, MaxWidth] or for name to collide
// with a previously added name.
func (t *Table) Add(width int, name string, flags Flag) (Index, error) {
	if width < 1 || width > MaxWidth {
		return -1, WidthError{Width: width}
	}
	if name != "" {
		if _, ok := t.byName[name]; ok {
			return -1, DuplicateNameError{Name: name}
		}
	}
	idx := Index(len(t.regs))
	t.regs = append(t.regs, Register{Width: width, Name: name, Flags: flags})
	if name != "" {
		t.byName[name] = idx
	}
	return idx, nil
}

// Get returns the Register stored at idx. It panics if idx is out of
// range, the same contract a flat array index has.
func (t *Table) Get(idx Index) Register {
	return t.regs[idx]
}

// Len returns the number of registers in the table.
func (t *Table) Len() int {
	return len(t.regs)
}

// Lookup returns the index of the register with the given name, or
// (-1, false) if no such register exists.
func (t *Table) Lookup(name string) (Index, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return -1, false
	}
	return idx, true
}

// DisplayName returns the register's name, or the auto-generated
// "__rN" form (N being the index) when the register is anonymous.
// This naming is used by the disassembler only; it is never recognized
// on the way back in by the parser.
func (t *Table) DisplayName(idx Index) string {
	r := t.regs[idx]
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("__r%d", idx)
}

// Indices returns every register index in allocation order.
func (t *Table) Indices() []Index {
	out := make([]Index, len(t.regs))
	for i := range t.regs {
		out[i] = Index(i)
	}
	return out
}
