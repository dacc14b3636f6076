// Package memblock defines the memory-block table for ROM and RAM
// instructions: address width, word width, kind, and the 2^a-word
// image backing each block.
package memblock

import "fmt"

// Kind distinguishes read-only from read/write memory blocks.
type Kind int

const (
	// ROM blocks must be preloaded with a word image before
	// simulation; an unloaded ROM is a fatal error at simulation
	// start.
	ROM Kind = iota
	// RAM blocks default to an all-zero image when not preloaded.
	RAM
)

func (k Kind) String() string {
	switch k {
	case ROM:
		return "ROM"
	case RAM:
		return "RAM"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Index is an opaque reference to a memory block in a Table.
type Index int

// Block describes one ROM or RAM bank. Size() is 2^AddrWidth words of
// WordWidth bits each.
type Block struct {
	AddrWidth int
	WordWidth int
	Kind      Kind
	// Output is the register index the block's read port writes to.
	// Declared as an opaque int so this package has no dependency on
	// the register package; program.Program stitches the two
	// together.
	Output int
}

// Size returns the number of addressable words in the block (2^AddrWidth).
func (b Block) Size() uint64 {
	return uint64(1) << uint(b.AddrWidth)
}

// AddrWidthError reports an address or word width outside [1, 64].
type AddrWidthError struct {
	Field string
	Width int
}

func (e AddrWidthError) Error() string {
	return fmt.Sprintf("%s width %d out of range [1, 64]", e.Field, e.Width)
}

// Table owns every memory block declared for one Program.
type Table struct {
	blocks []Block
}

// NewTable returns an empty memory-block table.
func NewTable() *Table {
	return &Table{}
}

// Add allocates a new memory block, returning its stable index. It is
// an error for addrWidth or wordWidth to fall outside [1, 64].
func (t *Table) Add(addrWidth, wordWidth int, kind Kind, output int) (Index, error) {
	if addrWidth < 1 || addrWidth > 64 {
		return -1, AddrWidthError{Field: "address", Width: addrWidth}
	}
	if wordWidth < 1 || wordWidth > 64 {
		return -1, AddrWidthError{Field: "word", Width: wordWidth}
	}
	idx := Index(len(t.blocks))
	t.blocks = append(t.blocks, Block{AddrWidth: addrWidth, WordWidth: wordWidth, Kind: kind, Output: output})
	return idx, nil
}

// Get returns the Block stored at idx.
func (t *Table) Get(idx Index) Block {
	return t.blocks[idx]
}

// Len returns the number of memory blocks in the table.
func (t *Table) Len() int {
	return len(t.blocks)
}
