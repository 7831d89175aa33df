package artengine

import "strings"

// PCBoard `@`-code colour nibbles map to the same 16-colour DOS palette as
// the ANSI parser's SGR handling.
const pcboardMaxCodeLen = 16

// PcboardParser implements PCBoard's ANSI dialect: ordinary bytes and CSI
// sequences fall straight through to the embedded ANSI parser, while
// `@CLS@` and `@Xab@` macros are translated to an ED (clear screen) and an
// SGR-equivalent colour change respectively. Any other `@...@` code is
// outside this engine's scope (BBS variable substitution) and is passed
// through to the ANSI parser byte-for-byte, including its `@` delimiters.
type PcboardParser struct {
	ansi *AnsiParser

	inCode bool
	code   strings.Builder
}

// NewPcboardParser returns a PCBoard parser with a fresh backing ANSI
// parser.
func NewPcboardParser() *PcboardParser {
	return &PcboardParser{ansi: NewAnsiParser()}
}

// ConvertFromUnicode delegates to the backing ANSI parser.
func (p *PcboardParser) ConvertFromUnicode(ch rune) rune { return p.ansi.ConvertFromUnicode(ch) }

// ConvertToUnicode delegates to the backing ANSI parser.
func (p *PcboardParser) ConvertToUnicode(ch rune) rune { return p.ansi.ConvertToUnicode(ch) }

// PrintChar feeds one byte through the PCBoard `@`-code detector, falling
// back to the ANSI parser for everything else.
func (p *PcboardParser) PrintChar(buf *Buffer, caret *Caret, ch rune) (CallbackAction, error) {
	if !p.inCode {
		if ch == '@' {
			p.inCode = true
			p.code.Reset()
			return NoCallback, nil
		}
		return p.ansi.PrintChar(buf, caret, ch)
	}

	if ch == '@' {
		p.inCode = false
		return p.dispatchCode(buf, caret, p.code.String())
	}
	p.code.WriteRune(ch)
	if p.code.Len() > pcboardMaxCodeLen {
		// Not a recognised short code after all: replay the accumulated
		// text (with its opening '@') through the ANSI parser verbatim.
		p.inCode = false
		return p.replayUnrecognised(buf, caret)
	}
	return NoCallback, nil
}

func (p *PcboardParser) replayUnrecognised(buf *Buffer, caret *Caret) (CallbackAction, error) {
	var last CallbackAction
	text := "@" + p.code.String()
	for _, b := range []byte(text) {
		act, err := p.ansi.PrintChar(buf, caret, rune(b))
		if err != nil {
			return NoCallback, err
		}
		if act.Kind != CallbackNone {
			last = act
		}
	}
	return last, nil
}

func (p *PcboardParser) dispatchCode(buf *Buffer, caret *Caret, code string) (CallbackAction, error) {
	switch {
	case strings.EqualFold(code, "CLS"):
		buf.ClearScreen()
		caret.Home(buf)
		return NoCallback, nil
	case len(code) == 3 && (code[0] == 'X' || code[0] == 'x'):
		bg, ok1 := hexDigit(code[1])
		fg, ok2 := hexDigit(code[2])
		if !ok1 || !ok2 {
			break
		}
		caret.Attr.Foreground = uint32(fg)
		caret.Attr.Background = uint32(bg)
		return NoCallback, nil
	}
	// Unrecognised code: outside this engine's scope, pass through as text.
	return p.replayLiteral(buf, caret, code)
}

func (p *PcboardParser) replayLiteral(buf *Buffer, caret *Caret, code string) (CallbackAction, error) {
	var last CallbackAction
	text := "@" + code + "@"
	for _, b := range []byte(text) {
		act, err := p.ansi.PrintChar(buf, caret, rune(b))
		if err != nil {
			return NoCallback, err
		}
		if act.Kind != CallbackNone {
			last = act
		}
	}
	return last, nil
}
