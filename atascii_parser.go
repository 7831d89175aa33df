package artengine

// AtasciiParser implements the Atari 8-bit ATASCII control set: clear
// screen, bell, arrow-key cursor movement, tab, delete/insert line or
// character, and a high bit that selects reverse video per character
// rather than toggling a mode.
type AtasciiParser struct{}

// NewAtasciiParser returns a ready-to-use ATASCII parser.
func NewAtasciiParser() *AtasciiParser { return &AtasciiParser{} }

// ConvertFromUnicode is the identity mapping; ATASCII's custom glyph shapes
// are a font concern, not a code-point remapping.
func (p *AtasciiParser) ConvertFromUnicode(ch rune) rune { return ch }

// ConvertToUnicode is the identity mapping; see ConvertFromUnicode.
func (p *AtasciiParser) ConvertToUnicode(ch rune) rune { return ch }

// ATASCII control codes.
const (
	atasciiClear      = 0x7D
	atasciiBell       = 0xFD
	atasciiTab        = 0x7F
	atasciiBackspace  = 0x7E
	atasciiUp         = 0x1C
	atasciiDown       = 0x1D
	atasciiLeft       = 0x1E
	atasciiRight      = 0x1F
	atasciiDeleteLine = 0x9C
	atasciiInsertLine = 0x9D
	atasciiDeleteChar = 0xFE
	atasciiInsertChar = 0xFF
	atasciiEOL        = 0x9B // end-of-line marker: ATASCII's newline
)

// PrintChar feeds one byte through the ATASCII control set. The high bit of
// any otherwise-printable byte selects reverse video for that cell alone
// (not a persisted mode), matching the real hardware's per-character
// inverse-video bit.
func (p *AtasciiParser) PrintChar(buf *Buffer, caret *Caret, ch rune) (CallbackAction, error) {
	b := byte(ch)
	switch b {
	case atasciiClear:
		buf.ClearScreen()
		caret.Home(buf)
	case atasciiBell:
		return BeepCallback(), nil
	case atasciiTab:
		if next, ok := buf.State.NextTabStop(caret.Pos.X); ok {
			caret.Pos.X = next
		}
	case atasciiBackspace:
		caret.BS(buf)
	case atasciiUp:
		caret.Up(buf, 1)
	case atasciiDown:
		caret.Down(buf, 1)
	case atasciiLeft:
		caret.Left(buf, 1)
	case atasciiRight:
		caret.Right(buf, 1)
	case atasciiDeleteLine:
		buf.RemoveTerminalLine(caret.Pos.Y)
	case atasciiInsertLine:
		buf.InsertTerminalLine(caret.Pos.Y)
	case atasciiDeleteChar:
		caret.Del(buf)
	case atasciiInsertChar:
		caret.Ins(buf)
	case atasciiEOL:
		caret.LF(buf)
	default:
		attr := caret.Attr
		if b&0x80 != 0 {
			attr = attr.Reversed()
		}
		cell := AttributedChar{Char: rune(b & 0x7F), Attr: attr}
		buf.SetChar(0, caret.Pos, &cell)
		caret.Pos.X++
		if caret.Pos.X >= buf.Width {
			if buf.State.AutoWrap == AutoWrapOn {
				caret.LF(buf)
			} else {
				caret.Pos.X = buf.Width - 1
			}
		}
	}
	return NoCallback, nil
}
