package helpers

import "strings"

// FourCC renders a 32-bit tag most significant byte first, replacing bytes outside the printable ASCII range with a
// space. 0x2a646972 renders as "*dir".
func FourCC(v uint32) string {
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	for i, c := range b {
		if c < 0x20 || c > 0x7E {
			b[i] = ' '
		}
	}
	return string(b[:])
}

// Printable replaces every non printable ASCII byte in s with '.', used when echoing raw on-disc names.
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7E {
			return '.'
		}
		return r
	}, s)
}
