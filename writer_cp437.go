package artengine

import "golang.org/x/text/encoding/charmap"

// writeCellByte appends ch (a CP437 code point 0-255 held in an
// AttributedChar.Char) to out: raw byte by default (legacy DOS text), or
// its Unicode translation encoded as UTF-8 when opts.ModernTerminalOutput
// is set. Using charmap.CodePage437's table rather than a hand-rolled
// translation array, per this engine's Domain: legacy encoding component.
func writeCellByte(out *[]byte, ch rune, opts SaveOptions) {
	b := byte(ch)
	if !opts.ModernTerminalOutput {
		*out = append(*out, b)
		return
	}
	r := charmap.CodePage437.DecodeByte(b)
	*out = append(*out, []byte(string(r))...)
}
