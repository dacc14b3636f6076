package netlang

import (
	"fmt"
	"strconv"
	"strings"
)

// parseBareInteger parses a plain decimal count or index - the
// "integer" nonterminal used for VAR widths, SELECT/SLICE indices and
// ROM/RAM size parameters. These are never subject to the "implicit
// binary" literal rule below; that rule only governs constant
// arguments.
func parseBareInteger(tok Token) (int, error) {
	if strings.ContainsRune(tok.Text, ':') {
		return 0, SyntaxError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf("unexpected width suffix on integer %q", tok.Text)}
	}
	v, err := strconv.Atoi(tok.Text)
	if err != nil {
		return 0, SyntaxError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf("invalid integer %q", tok.Text)}
	}
	return v, nil
}

// parseConstantLiteral decodes a constant argument per spec §6.1:
//   - an unprefixed digit string is binary, with width equal to the
//     number of digits ("101" = value 5, width 3).
//   - "0d"/"0x" prefixed literals require an explicit ":width"
//     suffix; a "0b" literal without one takes the number of digits
//     after the prefix as its width.
//   - a value that doesn't fit in the resulting width is an error.
func parseConstantLiteral(tok Token) (value uint64, width int, err error) {
	text := tok.Text
	digits, widthPart, hasWidth := text, "", false
	if idx := strings.IndexByte(text, ':'); idx >= 0 {
		digits, widthPart, hasWidth = text[:idx], text[idx+1:], true
	}

	base := 2
	body := digits
	switch {
	case strings.HasPrefix(digits, "0b"):
		base, body = 2, digits[2:]
	case strings.HasPrefix(digits, "0d"):
		base, body = 10, digits[2:]
	case strings.HasPrefix(digits, "0x"):
		base, body = 16, digits[2:]
	}

	if base != 2 && !hasWidth {
		return 0, 0, SyntaxError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf("literal %q requires an explicit :width suffix", text)}
	}

	value, convErr := strconv.ParseUint(body, base, 64)
	if convErr != nil {
		return 0, 0, SyntaxError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf("invalid literal %q: %v", text, convErr)}
	}

	if hasWidth {
		w, werr := strconv.Atoi(widthPart)
		if werr != nil {
			return 0, 0, SyntaxError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf("invalid width suffix in %q", text)}
		}
		width = w
	} else {
		width = len(body)
	}

	if width < 64 && value >= (uint64(1)<<uint(width)) {
		return 0, 0, SyntaxError{Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf("literal %q (value %d) does not fit in %d bits", text, value, width)}
	}
	return value, width, nil
}
