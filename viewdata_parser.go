package artengine

// Viewdata/Teletext foreground colour codes, selected by ESC A-G.
const (
	viewdataBlack = iota
	viewdataRed
	viewdataGreen
	viewdataYellow
	viewdataBlue
	viewdataMagenta
	viewdataCyan
	viewdataWhite
)

type viewdataGraphicsMode int

const (
	viewdataGraphicsContiguous viewdataGraphicsMode = iota
	viewdataGraphicsSeparated
)

// ViewdataParser implements the British Prestel/Teletext 7-bit control set:
// ESC-prefixed spacing attributes for colour, flash, height, conceal, and
// graphics mode, plus an immediate (non-spacing) background colour set/reset
// pair.
//
// Every spacing attribute takes effect on caret.Attr immediately, but still
// consumes a column the way real Teletext hardware's attribute byte does:
// the escape paints a blank at the caret's current position in the
// already-updated attribute and then advances the caret, so the glyph
// visible at the escape's own column is always blank even though the
// attribute change itself has no delay.
type ViewdataParser struct {
	gotEsc bool
	// holdGraphics and graphicsMode record the current hold/release and
	// contiguous/separated graphics selectors; glyph substitution for held
	// graphics characters is a font-table concern outside this parser.
	holdGraphics bool
	graphicsMode viewdataGraphicsMode
}

// NewViewdataParser returns a Viewdata parser with white-on-black defaults
// (the same defaults NewCaret's own attribute already carries).
func NewViewdataParser() *ViewdataParser {
	return &ViewdataParser{}
}

// ConvertFromUnicode is the identity mapping.
func (p *ViewdataParser) ConvertFromUnicode(ch rune) rune { return ch }

// ConvertToUnicode is the identity mapping.
func (p *ViewdataParser) ConvertToUnicode(ch rune) rune { return ch }

// PrintChar feeds one byte through the Viewdata control set.
func (p *ViewdataParser) PrintChar(buf *Buffer, caret *Caret, ch rune) (CallbackAction, error) {
	b := byte(ch)
	if p.gotEsc {
		p.gotEsc = false
		return p.handleEscape(buf, caret, b)
	}

	switch b {
	case 0x07:
		return BeepCallback(), nil
	case 0x08:
		p.backspace(buf, caret)
	case 0x09:
		p.tab(buf, caret)
	case 0x0A:
		caret.LF(buf)
	case 0x0C:
		caret.FF(buf)
	case 0x0D:
		caret.CR()
	case 0x1B:
		p.gotEsc = true
	case 0x1E:
		caret.Home(buf)
	default:
		buf.PrintChar(caret, rune(b))
	}
	return NoCallback, nil
}

// backspace moves the caret one column left; at column 0 it wraps to the
// last column of the row above (clamped at row 0), unlike the shared
// Caret.BS, which only clamps at column 0 and never changes row.
func (p *ViewdataParser) backspace(buf *Buffer, caret *Caret) {
	if caret.Pos.X > 0 {
		caret.Pos.X--
		return
	}
	caret.Pos.X = buf.Width - 1
	if caret.Pos.Y > 0 {
		caret.Pos.Y--
	}
}

// tab always moves the caret exactly one column right, wrapping to column 0
// of the next row at the right edge, rather than jumping to the shared
// TerminalState's 8-column ANSI tab stops.
func (p *ViewdataParser) tab(buf *Buffer, caret *Caret) {
	caret.Pos.X++
	if caret.Pos.X >= buf.Width {
		caret.Pos.X = 0
		caret.Pos.Y++
		buf.growActiveLayerTo(caret.Pos.Y)
	}
}

func (p *ViewdataParser) handleEscape(buf *Buffer, caret *Caret, ch byte) (CallbackAction, error) {
	switch ch {
	case 'A', 'B', 'C', 'D', 'E', 'F', 'G':
		caret.Attr.Foreground = uint32(ch-'A') + 1
	case ']':
		// background set: takes the current foreground colour, immediately.
		caret.Attr.Background = caret.Attr.Foreground
	case '\\':
		caret.Attr.Background = viewdataBlack
	case 'H':
		caret.Attr.SetBlink(true)
	case 'I':
		caret.Attr.SetBlink(false)
	case 'L':
		caret.Attr.SetDoubleHeight(false)
	case 'M':
		caret.Attr.SetDoubleHeight(true)
	case 'X':
		caret.Attr.SetConcealed(true)
	case '^':
		p.holdGraphics = true
	case '_':
		p.holdGraphics = false
	case 'Q':
		p.graphicsMode = viewdataGraphicsSeparated
	case 'R':
		p.graphicsMode = viewdataGraphicsContiguous
	default:
		return NoCallback, newEngineError(ErrUnsupportedControlCode, "unsupported Viewdata escape 0x%02X", ch)
	}
	buf.PrintChar(caret, ' ')
	return NoCallback, nil
}
