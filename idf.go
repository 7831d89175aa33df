package artengine

import "bytes"

// IDF (IceDraw) header/body layout. http://fileformats.archiveteam.org/wiki/ICEDraw
const (
	idfHeaderSize  = 4 + 4*2
	idfFontSize    = 16 * 256 // 8x16 font, fixed for every IDF file
	idfPaletteSize = 3 * 16
	idfRleMarker   = 1
)

var (
	idfV13Header = []byte{0x04, '1', '.', '3'}
	idfV14Header = []byte{0x04, '1', '.', '4'}
)

// ReadIDF decodes an ICEDraw .idf file into a Buffer. IDF always carries an
// 8x16 font and a 16-colour palette trailer, and is always ice-colour
// (BufferTypeLegacyIce): there is no blink bit, only a full 4-bit background.
func ReadIDF(data []byte) (*Buffer, error) {
	if len(data) < idfHeaderSize+idfFontSize+idfPaletteSize {
		return nil, newEngineError(ErrTruncatedHeader, "IDF file too short: need at least %d bytes, got %d", idfHeaderSize+idfFontSize+idfPaletteSize, len(data))
	}
	version := data[0:4]
	if !bytes.Equal(version, idfV13Header) && !bytes.Equal(version, idfV14Header) {
		return nil, newEngineError(ErrInvalidMagic, "unsupported IDF version header")
	}

	o := 4
	x1 := int(data[o]) | int(data[o+1])<<8
	o += 2
	y1 := int(data[o]) | int(data[o+1])<<8
	o += 2
	x2 := int(data[o]) | int(data[o+1])<<8
	o += 2
	o += 2 // y2 is not needed: height is derived from where the data stream ends

	if x2 < x1 {
		return nil, newEngineError(ErrInvalidBounds, "IDF x2 (%d) precedes x1 (%d)", x2, x1)
	}

	width := x2 + 1
	buf := NewBuffer(width, y1+1, WithBufferType(BufferTypeLegacyIce), WithTerminalBuffer())
	dataSize := len(data) - idfFontSize - idfPaletteSize
	pos := Position{X: x1, Y: y1}

	for o+1 < dataSize {
		charCode := data[o]
		o++
		attr := data[o]
		o++
		rleCount := 1

		if charCode == idfRleMarker && attr == 0 {
			if o+1 >= dataSize {
				break
			}
			count := int(data[o]) | int(data[o+1])<<8
			if o+3 >= dataSize {
				break
			}
			o += 2
			charCode = data[o]
			o++
			attr = data[o]
			o++
			rleCount = count
		}

		for ; rleCount > 0; rleCount-- {
			ch := AttributedChar{Char: rune(charCode), Attr: FromDOSByte(attr, buf.BufferType)}
			buf.SetChar(0, pos, &ch)
			idfAdvancePos(x1, x2, &pos)
		}
	}

	font := NewBitFont("", 8, 16, append([]byte(nil), data[o:o+idfFontSize]...))
	o += idfFontSize
	buf.SetFont(0, font)
	buf.Palette = NewPaletteFromVGA6Bit(data[o : o+idfPaletteSize])

	finalHeight := pos.Y
	if pos.X != x1 {
		finalHeight++
	}
	if finalHeight > buf.Height {
		buf.Height = finalHeight
	}
	return buf, nil
}

func idfAdvancePos(x1, x2 int, pos *Position) {
	pos.X++
	if pos.X > x2 {
		pos.X = x1
		pos.Y++
	}
}

// WriteIDF encodes buf as an ICEDraw .idf file. Only 8x16 fonts are
// representable in this format.
func WriteIDF(buf *Buffer, opts SaveOptions) ([]byte, error) {
	font := buf.GetFont(0)
	if font == nil {
		font = DefaultFont()
	}
	if font.Width != 8 || font.Height != 16 {
		return nil, newEngineError(ErrUnsupportedFont, "IDF requires an 8x16 font, got %dx%d", font.Width, font.Height)
	}

	out := append([]byte(nil), idfV14Header...)
	out = append(out, 0, 0) // x1
	out = append(out, 0, 0) // y1

	width := buf.Width
	w := width - 1
	out = append(out, byte(w), byte(w>>8))

	height := buf.RealBufferHeight()
	h := height - 1
	out = append(out, byte(h), byte(h>>8))

	length := width * height
	x := 0
	for x < length {
		ch := xbinCellAt(buf, width, height, x)
		rleCount := 1
		for x+rleCount < length && rleCount < 0xFFFF {
			if xbinCellAt(buf, width, height, x+rleCount) != ch {
				break
			}
			rleCount++
		}
		if rleCount > 3 || ch.Char == idfRleMarker {
			out = append(out, idfRleMarker, 0, byte(rleCount), byte(rleCount>>8))
		} else {
			rleCount = 1
		}
		out = append(out, byte(ch.Char), encodeXBinAttr(ch, BufferTypeLegacyIce))
		x += rleCount
	}

	out = font.ConvertToU8Data(out)
	out = append(out, buf.Palette.To16ColorVec()...)
	return out, nil
}
