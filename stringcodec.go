package jsontree

import (
	"fmt"
)

// parseStringAt decodes a JSON string literal starting at s[i] (s[i] ==
// '"'). It implements the two-pass algorithm from spec.md §4.3: the
// first pass scans from the opening quote, counting raw length and
// escape-introducer bytes (treating "\x" as an atomic two-byte unit so
// a trailing backslash can never appear to escape the terminator) to
// size the output; the second pass decodes, mapping the single-letter
// escapes and handling \uXXXX with surrogate-pair combination.
//
// The scratch buffer the slow path decodes into is drawn from alloc
// (per spec.md §4.1, the only heap traffic in this path); the fast path
// returns a direct subslice of s and never allocates.
func parseStringAt(s string, i int, alloc Allocator) (value string, end int, err error) {
	if i >= len(s) || s[i] != '"' {
		return "", i, fmt.Errorf("jsontree: expected '\"' at offset %d", i)
	}
	start := i
	i++ // skip opening quote

	n := len(s)
	escapes := 0
	scan := i
	for scan < n && s[scan] != '"' {
		if s[scan] == '\\' {
			if scan+1 >= n {
				return "", scan, fmt.Errorf("jsontree: unterminated escape sequence at offset %d", scan)
			}
			escapes++
			scan += 2
			continue
		}
		scan++
	}
	if scan >= n {
		return "", start, fmt.Errorf("jsontree: unterminated string starting at offset %d", start)
	}
	closeQuote := scan

	if escapes == 0 {
		// fast path: no escapes, the content is a direct subslice.
		return s[i:closeQuote], closeQuote + 1, nil
	}

	raw := alloc.Allocate((closeQuote - i) - escapes)
	buf := raw[:0]
	for i < closeQuote {
		c := s[i]
		if c != '\\' {
			buf = append(buf, c)
			i++
			continue
		}
		// escape sequence; s[i+1] is guaranteed present by the scan above
		switch s[i+1] {
		case '"':
			buf = append(buf, '"')
		case '\\':
			buf = append(buf, '\\')
		case '/':
			buf = append(buf, '/')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'u':
			r, consumed, uerr := decodeUnicodeEscape(s, i, closeQuote)
			if uerr != nil {
				return "", i, uerr
			}
			buf = appendUTF8(buf, r)
			i += consumed
			continue
		default:
			return "", i, fmt.Errorf("jsontree: invalid escape character %q at offset %d", s[i+1], i)
		}
		i += 2
	}
	value = string(buf)
	alloc.Free(raw)
	return value, closeQuote + 1, nil
}

// decodeUnicodeEscape decodes a \uXXXX escape at s[i] (s[i] == '\\',
// s[i+1] == 'u'), combining a high/low surrogate pair per spec.md §4.3:
//
//	codepoint = 0x10000 + ((hi & 0x3FF) << 10) | (lo & 0x3FF)
//
// An isolated low surrogate, or a high surrogate not immediately
// followed by "\u" + a low surrogate, is a syntax error. Returns the
// decoded rune and the number of bytes consumed starting at i (i.e.
// including the leading "\u").
func decodeUnicodeEscape(s string, i, limit int) (rune, int, error) {
	if i+6 > limit+1 {
		return 0, 0, fmt.Errorf("jsontree: truncated unicode escape at offset %d", i)
	}
	hi, err := parseFourHex(s, i+2)
	if err != nil {
		return 0, 0, err
	}
	if hi < 0xD800 || hi > 0xDFFF {
		return rune(hi), 6, nil
	}
	if hi > 0xDBFF {
		return 0, 0, fmt.Errorf("jsontree: isolated low surrogate at offset %d", i)
	}
	// high surrogate: require an immediately following \uXXXX low surrogate
	if i+12 > limit+1 || s[i+6] != '\\' || s[i+7] != 'u' {
		return 0, 0, fmt.Errorf("jsontree: unpaired high surrogate at offset %d", i)
	}
	lo, err := parseFourHex(s, i+8)
	if err != nil {
		return 0, 0, err
	}
	if lo < 0xDC00 || lo > 0xDFFF {
		return 0, 0, fmt.Errorf("jsontree: invalid low surrogate at offset %d", i)
	}
	cp := 0x10000 + ((hi & 0x3FF) << 10) | (lo & 0x3FF)
	return rune(cp), 12, nil
}

// parseFourHex parses exactly 4 hex digits at s[i:i+4]. A non-hex
// nibble in this position is a hard error, validated directly here
// rather than deferred to a separate caller-side range check.
func parseFourHex(s string, i int) (int, error) {
	if i+4 > len(s) {
		return 0, fmt.Errorf("jsontree: truncated unicode escape at offset %d", i)
	}
	v := 0
	for k := 0; k < 4; k++ {
		c := s[i+k]
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		default:
			return 0, fmt.Errorf("jsontree: invalid hex digit %q at offset %d", c, i+k)
		}
	}
	return v, nil
}

// appendUTF8 encodes r using the standard leading-byte masks
// (0x00/0xC0/0xE0/0xF0) from spec.md §4.3, avoiding a dependency on
// unicode/utf8 for this one hot path.
func appendUTF8(buf []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(buf, byte(r))
	case r < 0x800:
		return append(buf, byte(0xC0|(r>>6)), byte(0x80|(r&0x3F)))
	case r < 0x10000:
		return append(buf, byte(0xE0|(r>>12)), byte(0x80|((r>>6)&0x3F)), byte(0x80|(r&0x3F)))
	default:
		return append(buf,
			byte(0xF0|(r>>18)),
			byte(0x80|((r>>12)&0x3F)),
			byte(0x80|((r>>6)&0x3F)),
			byte(0x80|(r&0x3F)),
		)
	}
}
