package memimage

import (
	"strings"
	"testing"
)

func TestParseBareWords(t *testing.T) {
	words, err := Parse(strings.NewReader("00001010 11111111 00000000 00000001"), 4, 8)
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	want := []uint64{0b00001010, 0b11111111, 0, 1}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("words[%d] = %d, want %d", i, words[i], w)
		}
	}
}

func TestParseWithAddressHeaders(t *testing.T) {
	words, err := Parse(strings.NewReader("2:101 3:110 0:001 1:010"), 4, 4)
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	want := []uint64{0b001, 0b010, 0b101, 0b110}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("words[%d] = %d, want %d", i, words[i], w)
		}
	}
}

func TestParseWrongLength(t *testing.T) {
	if _, err := Parse(strings.NewReader("1 0 1"), 4, 1); err == nil {
		t.Fatalf("Parse(3 words, size 4) = nil, want ImageError")
	}
}

func TestParseWordTooWide(t *testing.T) {
	if _, err := Parse(strings.NewReader("111"), 1, 2); err == nil {
		t.Fatalf("Parse(3-bit word into 2-bit block) = nil, want ImageError")
	}
}

func TestParseInvalidToken(t *testing.T) {
	if _, err := Parse(strings.NewReader("not-binary"), 1, 8); err == nil {
		t.Fatalf("Parse(invalid token) = nil, want error")
	}
}

func TestParseGapLeftUnwritten(t *testing.T) {
	// Two tokens fill the count but both land on address 0, leaving
	// address 1 unwritten.
	if _, err := Parse(strings.NewReader("0:1 0:0"), 2, 1); err == nil {
		t.Fatalf("Parse(gap) = nil, want ImageError")
	}
}
