// Package memimage parses the textual memory-image format of spec
// §6.2 (a whitespace-separated sequence of binary words, optionally
// preceded by "addr:word" headers) and validates it against a memory
// block's declared shape per spec §4.4. Reading the image off disk is
// left to the caller (the CLI); this package only ever sees an
// io.Reader, keeping the validation logic testable without touching a
// filesystem.
package memimage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ImageError reports a malformed memory image: wrong word count or a
// word too wide for the block it targets.
type ImageError struct {
	Message string
}

func (e ImageError) Error() string { return e.Message }

// Parse reads a whitespace-separated sequence of binary words from r,
// each optionally prefixed with an "addr:" header (the address is
// recorded but not validated against position - later headers simply
// reposition where subsequent words land). It returns exactly
// size words, or an ImageError if the input doesn't produce exactly
// that many, or any word exceeds maxWordWidth bits.
func Parse(r io.Reader, size uint64, maxWordWidth int) ([]uint64, error) {
	words := make([]uint64, size)
	seen := make([]bool, size)
	mask := uint64(0)
	if maxWordWidth >= 64 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1) << uint(maxWordWidth)) - 1
	}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var addr uint64
	count := uint64(0)
	for sc.Scan() {
		tok := sc.Text()
		if tok == "" {
			continue
		}
		if idx := strings.IndexByte(tok, ':'); idx >= 0 {
			a, err := strconv.ParseUint(tok[:idx], 10, 64)
			if err != nil {
				return nil, ImageError{Message: fmt.Sprintf("invalid address header %q", tok)}
			}
			addr = a
			tok = tok[idx+1:]
			if tok == "" {
				continue
			}
		}
		val, err := strconv.ParseUint(tok, 2, 64)
		if err != nil {
			return nil, ImageError{Message: fmt.Sprintf("invalid binary word %q", tok)}
		}
		if val & ^mask != 0 {
			return nil, ImageError{Message: fmt.Sprintf("word %q at address %d exceeds %d-bit word width", tok, addr, maxWordWidth)}
		}
		if addr >= size {
			return nil, ImageError{Message: fmt.Sprintf("address %d out of range [0, %d)", addr, size)}
		}
		words[addr] = val
		seen[addr] = true
		addr++
		count++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("memimage: %w", err)
	}
	if count != size {
		return nil, ImageError{Message: fmt.Sprintf("image has %d words, want %d", count, size)}
	}
	for i, ok := range seen {
		if !ok {
			return nil, ImageError{Message: fmt.Sprintf("address %d never written by image", i)}
		}
	}
	return words, nil
}
