package artengine

// PETSCII foreground colour codes (Commodore 64/128 colour RAM values).
const (
	petsciiBlack      = 0x00
	petsciiWhite      = 0x01
	petsciiRed        = 0x02
	petsciiCyan       = 0x03
	petsciiPurple     = 0x04
	petsciiGreen      = 0x05
	petsciiBlue       = 0x06
	petsciiYellow     = 0x07
	petsciiOrange     = 0x08
	petsciiBrown      = 0x09
	petsciiPink       = 0x0a
	petsciiGrey1      = 0x0b
	petsciiGrey2      = 0x0c
	petsciiLightGreen = 0x0d
	petsciiLightBlue  = 0x0e
	petsciiGrey3      = 0x0f
)

// unicodeToPETSCII maps ASCII letters and a handful of line-drawing/accented
// characters back to their PETSCII codes, the reverse direction of the
// byte-to-glyph mapping done by petsciiGlyphCode below.
var unicodeToPETSCII = map[byte]byte{
	0x41: 0x61, 0x42: 0x62, 0x43: 0x63, 0x44: 0x64, 0x45: 0x65, 0x46: 0x66,
	0x47: 0x67, 0x48: 0x68, 0x49: 0x69, 0x4A: 0x6A, 0x4B: 0x6B, 0x4C: 0x6C,
	0x4D: 0x6D, 0x4E: 0x6E, 0x4F: 0x6F, 0x50: 0x70, 0x51: 0x71, 0x52: 0x72,
	0x53: 0x73, 0x54: 0x74, 0x55: 0x75, 0x56: 0x76, 0x57: 0x77, 0x58: 0x78,
	0x59: 0x79, 0x5A: 0x7A, 0x5C: 0x9C, 0x5E: 0x18, 0x5F: 0x1B, 0x60: 0xC4,
	0x61: 0x41, 0x62: 0x42, 0x63: 0x43, 0x64: 0x44, 0x65: 0x45, 0x66: 0x46,
	0x67: 0x47, 0x68: 0x48, 0x69: 0x49, 0x6A: 0x4A, 0x6B: 0x4B, 0x6C: 0x4C,
	0x6D: 0x4D, 0x6E: 0x4E, 0x6F: 0x4F, 0x70: 0x50, 0x71: 0x51, 0x72: 0x52,
	0x73: 0x53, 0x74: 0x54, 0x75: 0x55, 0x76: 0x56, 0x77: 0x57, 0x78: 0x58,
	0x79: 0x59, 0x7A: 0x5A, 0x7B: 0xC5, 0x7C: 0xB5, 0x7D: 0xB3, 0x7E: 0xB2,
	0x7F: 0xB0, 0xA0: 0xFF, 0xA1: 0xDD, 0xA2: 0xDC, 0xA3: 0x5E, 0xA4: 0x5F,
	0xA5: 0x7B, 0xA6: 0xB1, 0xA7: 0x7D, 0xA8: 0xD2, 0xA9: 0x1F, 0xAA: 0xF5,
	0xAB: 0xC3, 0xAC: 0xC9, 0xAD: 0xC0, 0xAE: 0xBF, 0xAF: 0xCD, 0xB0: 0xDA,
	0xB1: 0xC1, 0xB2: 0xC2, 0xB3: 0xB4, 0xB4: 0xF4, 0xB5: 0xB9, 0xB6: 0xDE,
	0xB7: 0xA9, 0xB8: 0xDF, 0xB9: 0x16, 0xBA: 0xFB, 0xBC: 0xC8, 0xBD: 0xD9,
	0xBE: 0xBC, 0xBF: 0xCE,
}

// PetsciiParser implements the Commodore 64/128 PETSCII control set: colour
// switch codes, cursor movement, shift-in/out between the upper/graphics
// font pages, reverse video (which sets the high bit of the printed code),
// and the C128 ESC-prefixed extended command set.
type PetsciiParser struct {
	underlineMode bool
	reverseMode   bool
	gotEsc        bool
	shiftMode     bool
	cShift        bool
}

// NewPetsciiParser returns a PETSCII parser in its power-on state: no
// reverse video, upper/graphics font page 0, no pending escape.
func NewPetsciiParser() *PetsciiParser { return &PetsciiParser{} }

// ConvertFromUnicode maps a Unicode letter/symbol back to its PETSCII code
// via unicodeToPETSCII, passing anything absent from the table through
// unchanged.
func (p *PetsciiParser) ConvertFromUnicode(ch rune) rune {
	if ch < 0 || ch > 0xFF {
		return ch
	}
	if tch, ok := unicodeToPETSCII[byte(ch)]; ok {
		return rune(tch)
	}
	return ch
}

// ConvertToUnicode falls back to the ASCII parser's identity mapping;
// PETSCII's own byte-to-glyph table is display-only (the font, not an
// encoding), so no inverse translation applies here.
func (p *PetsciiParser) ConvertToUnicode(ch rune) rune {
	return (&AsciiParser{}).ConvertToUnicode(ch)
}

func (p *PetsciiParser) handleReverseMode(ch byte) byte {
	if p.reverseMode {
		return ch + 0x80
	}
	return ch
}

func (p *PetsciiParser) updateShiftMode(buf *Buffer, shiftMode bool) {
	if p.shiftMode == shiftMode {
		return
	}
	p.shiftMode = shiftMode
	page := 0
	if shiftMode {
		page = 1
	}
	for y := 0; y < buf.RealBufferHeight(); y++ {
		for x := 0; x < buf.Width; x++ {
			ch, ok := buf.GetChar(Position{X: x, Y: y})
			if !ok {
				continue
			}
			ch.FontPage = page
			buf.SetChar(0, Position{X: x, Y: y}, &ch)
		}
	}
}

// PrintChar feeds one PETSCII byte through the control/graphics state
// machine.
func (p *PetsciiParser) PrintChar(buf *Buffer, caret *Caret, ch rune) (CallbackAction, error) {
	b := byte(ch)
	if p.gotEsc {
		return p.handleC128Escape(buf, caret, b)
	}

	switch b {
	case 0x02:
		p.underlineMode = true
	case 0x05:
		caret.Attr.Foreground = petsciiWhite
	case 0x07:
		return BeepCallback(), nil
	case 0x08:
		p.cShift = false
	case 0x09:
		p.cShift = true
	case 0x0A:
		caret.CR()
	case 0x0D, 0x8D:
		caret.LF(buf)
		p.reverseMode = false
	case 0x0E:
		p.updateShiftMode(buf, false)
	case 0x11:
		caret.Down(buf, 1)
	case 0x12:
		p.reverseMode = true
	case 0x13:
		caret.Home(buf)
	case 0x14:
		caret.BS(buf)
	case 0x1B:
		p.gotEsc = true
	case 0x1C:
		caret.Attr.Foreground = petsciiRed
	case 0x1D:
		caret.Right(buf, 1)
	case 0x1E:
		caret.Attr.Foreground = petsciiGreen
	case 0x1F:
		caret.Attr.Foreground = petsciiBlue
	case 0x81:
		caret.Attr.Foreground = petsciiOrange
	case 0x8E:
		p.updateShiftMode(buf, true)
	case 0x90:
		caret.Attr.Foreground = petsciiBlack
	case 0x91:
		caret.Up(buf, 1)
	case 0x92:
		p.reverseMode = false
	case 0x93:
		buf.ClearScreen()
	case 0x95:
		caret.Attr.Foreground = petsciiBrown
	case 0x96:
		caret.Attr.Foreground = petsciiPink
	case 0x97:
		caret.Attr.Foreground = petsciiGrey1
	case 0x98:
		caret.Attr.Foreground = petsciiGrey2
	case 0x99:
		caret.Attr.Foreground = petsciiLightGreen
	case 0x9A:
		caret.Attr.Foreground = petsciiLightBlue
	case 0x9B:
		caret.Attr.Foreground = petsciiGrey3
	case 0x9C:
		caret.Attr.Foreground = petsciiPurple
	case 0x9D:
		caret.Left(buf, 1)
	case 0x9E:
		caret.Attr.Foreground = petsciiYellow
	case 0x9F:
		caret.Attr.Foreground = petsciiCyan
	case 0xFF:
		p.printGlyph(buf, caret, 94)
	default:
		tch, err := petsciiGlyphCode(b)
		if err != nil {
			return NoCallback, err
		}
		p.printGlyph(buf, caret, p.handleReverseMode(tch))
	}
	return NoCallback, nil
}

func petsciiGlyphCode(ch byte) (byte, error) {
	switch {
	case ch >= 0x20 && ch <= 0x3F:
		return ch, nil
	case (ch >= 0x40 && ch <= 0x5F) || (ch >= 0xA0 && ch <= 0xBF):
		return ch - 0x40, nil
	case ch >= 0x60 && ch <= 0x7F:
		return ch - 0x20, nil
	case ch >= 0xC0 && ch <= 0xFE:
		return ch - 0x80, nil
	default:
		return 0, newEngineError(ErrUnsupportedControlCode, "unsupported PETSCII code 0x%02X", ch)
	}
}

// printGlyph writes glyph at the caret, stamped with the current shift-mode
// font page, and advances the caret.
func (p *PetsciiParser) printGlyph(buf *Buffer, caret *Caret, glyph byte) {
	pos := caret.Pos
	buf.PrintChar(caret, rune(glyph))
	page := 0
	if p.shiftMode {
		page = 1
	}
	cell, ok := buf.GetChar(pos)
	if ok {
		cell.FontPage = page
		buf.SetChar(0, pos, &cell)
	}
}

func (p *PetsciiParser) handleC128Escape(buf *Buffer, caret *Caret, ch byte) (CallbackAction, error) {
	p.gotEsc = false
	switch ch {
	case 'O': // cancel quote/insert mode
	case 'Q':
		buf.ClearLineEnd(caret.Pos.Y, caret.Pos.X)
	case 'P':
		buf.ClearLineStart(caret.Pos.Y, caret.Pos.X)
	case '@':
		buf.BufferDown(caret.Pos.Y)
	case 'J':
		caret.CR()
	case 'K':
		caret.EOL(buf)
	case 'D':
		buf.RemoveTerminalLine(caret.Pos.Y)
	case 'I':
		buf.InsertTerminalLine(caret.Pos.Y)
	case 'A', 'C', 'Y', 'Z', 'L', 'M', 'V', 'W', 'G', 'H', 'E', 'F', 'B', 'T', 'X', 'U', 'S', 'R', 'N':
		// Accepted C128 escapes this engine does not model state for
		// (auto-insert, tab-stop defaults, scroll enable, bell enable,
		// cursor style, screen window, column mode, screen-wide reverse):
		// consumed as a no-op rather than reported as an error.
	default:
		return NoCallback, newEngineError(ErrUnsupportedControlCode, "unknown C128 escape 0x%02X", ch)
	}
	return NoCallback, nil
}
