package artengine

import "image/color"

// RGB is a simple 8-bit-per-channel colour triple, the unit the Palette
// stores and the unit XBIN/IDF palette blocks are made of.
type RGB struct {
	R, G, B uint8
}

// Color returns the standard library colour representation of c, for
// callers that want to hand this off to image/color-aware code (matching
// the teacher engine's own use of color.RGBA as its colour carrier).
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// dos16Palette is the default 16-colour DOS/CGA palette, in standard
// attribute-byte order (0=black .. 15=bright white).
var dos16Palette = [16]RGB{
	{0x00, 0x00, 0x00}, {0x00, 0x00, 0xAA}, {0x00, 0xAA, 0x00}, {0x00, 0xAA, 0xAA},
	{0xAA, 0x00, 0x00}, {0xAA, 0x00, 0xAA}, {0xAA, 0x55, 0x00}, {0xAA, 0xAA, 0xAA},
	{0x55, 0x55, 0x55}, {0x55, 0x55, 0xFF}, {0x55, 0xFF, 0x55}, {0x55, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55}, {0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0x55}, {0xFF, 0xFF, 0xFF},
}

// Palette is an ordered table of RGB colours. Colour lookup during parsing
// appends new entries on demand (InsertColor) and is otherwise a linear scan
// by RGB triple, matching the reference implementation's own O(n) approach
// - palettes used by this engine are small (16 to a few hundred entries) so
// a map would only add bookkeeping without a measurable win.
type Palette struct {
	colors []RGB
}

// NewPalette returns the default 16-colour DOS palette.
func NewPalette() *Palette {
	p := &Palette{colors: make([]RGB, 16)}
	copy(p.colors, dos16Palette[:])
	return p
}

// NewPaletteFromVGA6Bit decodes a 48-byte (16 entries x RGB) table of 6-bit
// VGA colour components, as stored in XBIN/IDF palette blocks. Each
// component v (0-63) is expanded to 8 bits via v<<2 | v>>4.
func NewPaletteFromVGA6Bit(data []byte) *Palette {
	n := len(data) / 3
	p := &Palette{colors: make([]RGB, 0, n)}
	for i := 0; i < n; i++ {
		r := data[i*3]
		g := data[i*3+1]
		b := data[i*3+2]
		p.colors = append(p.colors, RGB{
			R: expand6to8(r),
			G: expand6to8(g),
			B: expand6to8(b),
		})
	}
	return p
}

func expand6to8(v byte) uint8 {
	v &= 0x3F
	return v<<2 | v>>4
}

func reduce8to6(v uint8) byte {
	return byte(v >> 2)
}

// Len returns the number of colours currently in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the colour stored at index i, or the zero RGB if out of range.
func (p *Palette) At(i int) RGB {
	if i < 0 || i >= len(p.colors) {
		return RGB{}
	}
	return p.colors[i]
}

// InsertColor returns the index of an existing entry equal to c, or appends
// c and returns its new index. Index allocation is append-only: once
// assigned, an index remains stable for the palette's lifetime.
func (p *Palette) InsertColor(c RGB) uint32 {
	for i, existing := range p.colors {
		if existing == c {
			return uint32(i)
		}
	}
	p.colors = append(p.colors, c)
	return uint32(len(p.colors) - 1)
}

// setAt replaces the colour at index i in place, growing the table with
// black entries first if i is past the current end.
func (p *Palette) setAt(i int, c RGB) {
	if i < 0 {
		return
	}
	for len(p.colors) <= i {
		p.colors = append(p.colors, RGB{})
	}
	p.colors[i] = c
}

// To16ColorVec writes the first 16 entries (padding with black if the
// palette is shorter) as 48 bytes of 6-bit VGA colour components, the
// trailer format used by XBIN and IDF files.
func (p *Palette) To16ColorVec() []byte {
	out := make([]byte, 0, 48)
	for i := 0; i < 16; i++ {
		c := p.At(i)
		out = append(out, reduce8to6(c.R), reduce8to6(c.G), reduce8to6(c.B))
	}
	return out
}
