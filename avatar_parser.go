package artengine

// Avatar command introducers, per FSC-0025/FSC-0037.
const (
	avtCmd = 0x16 // ^V: starts a command
	avtClr = 0x0C // ^L: clear window, reset attribute
	avtRep = 0x19 // ^Y: repeat-char run
)

type avatarState int

const (
	avatarStateChars avatarState = iota
	avatarStateReadCommand
	avatarStateRepeatChars
	avatarStateMoveCursor
	avatarStateReadColor
)

// AvatarParser implements the Avatar/0+ bulletin-board control protocol: a
// thin command layer (cursor moves, colour reads, run-length character
// repeats) over the ANSI parser it falls back to for anything else.
type AvatarParser struct {
	ansi *AnsiParser

	state      avatarState
	step       int
	repeatChar rune
}

// NewAvatarParser returns an Avatar parser with a fresh backing ANSI parser.
func NewAvatarParser() *AvatarParser {
	return &AvatarParser{ansi: NewAnsiParser()}
}

// ConvertFromUnicode delegates to the backing ANSI parser.
func (p *AvatarParser) ConvertFromUnicode(ch rune) rune { return p.ansi.ConvertFromUnicode(ch) }

// ConvertToUnicode delegates to the backing ANSI parser.
func (p *AvatarParser) ConvertToUnicode(ch rune) rune { return p.ansi.ConvertToUnicode(ch) }

// PrintChar feeds one byte through the Avatar command state machine,
// falling back to the ANSI parser for anything it does not own.
func (p *AvatarParser) PrintChar(buf *Buffer, caret *Caret, ch rune) (CallbackAction, error) {
	switch p.state {
	case avatarStateChars:
		switch ch {
		case avtClr:
			caret.FF(buf)
		case avtRep:
			p.state = avatarStateRepeatChars
			p.step = 1
		case avtCmd:
			p.state = avatarStateReadCommand
		default:
			return p.ansi.PrintChar(buf, caret, ch)
		}
		return NoCallback, nil

	case avatarStateReadCommand:
		p.state = avatarStateChars
		switch ch {
		case 1:
			p.state = avatarStateReadColor
		case 2:
			caret.Attr.SetBlink(true)
		case 3:
			if caret.Pos.Y > 0 {
				caret.Pos.Y--
			}
		case 4:
			caret.Pos.Y++
		case 5:
			if caret.Pos.X > 0 {
				caret.Pos.X--
			}
		case 6:
			if caret.Pos.X < 79 {
				caret.Pos.X++
			}
		case 7:
			buf.ClearLineEnd(caret.Pos.Y, caret.Pos.X)
		case 8:
			p.state = avatarStateMoveCursor
			p.step = 1
		default:
			return NoCallback, newEngineError(ErrUnsupportedControlCode, "unsupported Avatar command %d", ch)
		}
		return NoCallback, nil

	case avatarStateRepeatChars:
		switch p.step {
		case 1:
			p.repeatChar = ch
			p.step = 2
		case 2:
			count := int(ch)
			for i := 0; i < count; i++ {
				if _, err := p.ansi.PrintChar(buf, caret, p.repeatChar); err != nil {
					return NoCallback, err
				}
			}
			p.state = avatarStateChars
		}
		return NoCallback, nil

	case avatarStateReadColor:
		caret.Attr = FromDOSByte(byte(ch), buf.BufferType)
		p.state = avatarStateChars
		return NoCallback, nil

	case avatarStateMoveCursor:
		switch p.step {
		case 1:
			p.repeatChar = ch
			p.step = 2
		case 2:
			caret.Pos.X = int(p.repeatChar)
			caret.Pos.Y = int(ch)
			p.state = avatarStateChars
		}
		return NoCallback, nil
	}

	p.state = avatarStateChars
	return NoCallback, nil
}
