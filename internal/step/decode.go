package step

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// DecodeString turns the raw body of a string token into text:
//
//	''            -> '
//	\\            -> \
//	\S\c          -> c + 128 (ISO 8859-1 upper half)
//	\X\hh         -> U+00hh
//	\X2\hhhh..\X0\ -> UTF-16 code units
//	\X4\hhhhhhhh..\X0\ -> UTF-32 code points
//	\Px\          -> code page switch, dropped
//
// Malformed escapes are kept literally.
func DecodeString(raw string) string {
	if !strings.ContainsAny(raw, `'\`) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '\'' && strings.HasPrefix(raw[i:], "''"):
			b.WriteByte('\'')
			i += 2
		case c != '\\':
			b.WriteByte(c)
			i++
		case strings.HasPrefix(raw[i:], `\\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(raw[i:], `\S\`) && i+3 < len(raw):
			b.WriteRune(rune(raw[i+3]) + 128)
			i += 4
		case strings.HasPrefix(raw[i:], `\X\`) && i+5 <= len(raw):
			if v, err := strconv.ParseUint(raw[i+3:i+5], 16, 8); err == nil {
				b.WriteRune(rune(v))
				i += 5
				continue
			}
			b.WriteByte(c)
			i++
		case strings.HasPrefix(raw[i:], `\X2\`):
			n, ok := decodeHexRun(raw[i+4:], 4, &b)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			i += 4 + n
		case strings.HasPrefix(raw[i:], `\X4\`):
			n, ok := decodeHexRun(raw[i+4:], 8, &b)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			i += 4 + n
		case strings.HasPrefix(raw[i:], `\P`) && i+3 < len(raw) && raw[i+3] == '\\':
			i += 4
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// decodeHexRun decodes groups of width hex digits up to the closing \X0\
// and returns the number of bytes consumed including the terminator.
func decodeHexRun(s string, width int, b *strings.Builder) (int, bool) {
	end := strings.Index(s, `\X0\`)
	if end < 0 || end%width != 0 {
		return 0, false
	}

	units := make([]uint32, 0, end/width)
	for j := 0; j < end; j += width {
		v, err := strconv.ParseUint(s[j:j+width], 16, 32)
		if err != nil {
			return 0, false
		}
		units = append(units, uint32(v))
	}

	if width == 4 {
		u16 := make([]uint16, len(units))
		for k, u := range units {
			u16[k] = uint16(u)
		}
		for _, r := range utf16.Decode(u16) {
			b.WriteRune(r)
		}
	} else {
		for _, u := range units {
			b.WriteRune(rune(u))
		}
	}
	return end + len(`\X0\`), true
}
