package artengine

import "testing"

func feedBytes(t *testing.T, p Parser, buf *Buffer, caret *Caret, bytes []byte) CallbackAction {
	t.Helper()
	var last CallbackAction
	for _, b := range bytes {
		act, err := p.PrintChar(buf, caret, rune(b))
		if err != nil {
			t.Fatalf("PrintChar(0x%02X) error: %v", b, err)
		}
		if act.Kind != CallbackNone {
			last = act
		}
	}
	return last
}

func TestAvatarParserReadColorAndRepeat(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAvatarParser()
	// ^V 1 <dos-byte 0x1F> sets fg white/bg blue; then ^Y 'X' 3 repeats X 3x.
	feedBytes(t, p, buf, caret, []byte{avtCmd, 1, 0x1F})
	if caret.Attr.Foreground != 7 || caret.Attr.Background != 1 {
		t.Fatalf("attr = %+v, want fg 7 bg 1", caret.Attr)
	}
	feedBytes(t, p, buf, caret, []byte{avtRep, 'X', 3})
	for x := 0; x < 3; x++ {
		ch, ok := buf.GetChar(Position{X: x, Y: 0})
		if !ok || ch.Char != 'X' {
			t.Fatalf("expected X at column %d, got %+v ok=%v", x, ch, ok)
		}
	}
}

func TestAvatarParserFallsBackToAnsi(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAvatarParser()
	feedBytes(t, p, buf, caret, []byte("HI"))
	ch, ok := buf.GetChar(Position{X: 0, Y: 0})
	if !ok || ch.Char != 'H' {
		t.Fatalf("expected fallback print, got %+v ok=%v", ch, ok)
	}
}

func TestPetsciiParserColourAndLetterCase(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewPetsciiParser()
	feedBytes(t, p, buf, caret, []byte{0x1C}) // red
	if caret.Attr.Foreground != petsciiRed {
		t.Fatalf("Foreground = %d, want petsciiRed", caret.Attr.Foreground)
	}
	// 0x41 ('A') maps to glyph code 0x01 per the 0x40-0x5F band.
	feedBytes(t, p, buf, caret, []byte{0x41})
	ch, ok := buf.GetChar(Position{X: 0, Y: 0})
	if !ok || ch.Char != 0x01 {
		t.Fatalf("expected glyph 0x01, got %+v ok=%v", ch, ok)
	}
}

func TestPetsciiParserReverseVideoSetsHighBit(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewPetsciiParser()
	feedBytes(t, p, buf, caret, []byte{0x12}) // reverse on
	feedBytes(t, p, buf, caret, []byte{0x20}) // space in 0x20-0x3F band -> passthrough
	ch, _ := buf.GetChar(Position{X: 0, Y: 0})
	if ch.Char != 0xA0 {
		t.Fatalf("expected reversed glyph 0xA0, got %+v", ch)
	}
}

func TestAtasciiParserHighBitReverse(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAtasciiParser()
	feedBytes(t, p, buf, caret, []byte{0x80 | 'A'})
	ch, ok := buf.GetChar(Position{X: 0, Y: 0})
	if !ok || ch.Char != 'A' {
		t.Fatalf("expected A with high bit stripped, got %+v ok=%v", ch, ok)
	}
	def := DefaultTextAttribute()
	if ch.Attr.Foreground != def.Background || ch.Attr.Background != def.Foreground {
		t.Fatalf("expected reversed colours for high-bit byte, got %+v", ch.Attr)
	}
}

func TestAtasciiParserClearScreen(t *testing.T) {
	buf := NewBuffer(5, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAtasciiParser()
	feedBytes(t, p, buf, caret, []byte("AB"))
	feedBytes(t, p, buf, caret, []byte{atasciiClear})
	if caret.Pos.X != 0 || caret.Pos.Y != 0 {
		t.Fatalf("expected caret homed after clear, got %+v", caret.Pos)
	}
}

func TestAsciiParserPlainPrint(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := &AsciiParser{}
	feedBytes(t, p, buf, caret, []byte("hi\r\n"))
	if caret.Pos.X != 0 || caret.Pos.Y != 1 {
		t.Fatalf("expected CR/LF to move to (0,1), got %+v", caret.Pos)
	}
}

func TestViewdataParserColourAppliesImmediately(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewViewdataParser()
	// ESC A sets red immediately on the caret attribute, with no character
	// printed yet at all.
	feedBytes(t, p, buf, caret, []byte{0x1B, 'A'})
	if caret.Attr.Foreground != viewdataRed {
		t.Fatalf("foreground = %d, want immediate red (%d)", caret.Attr.Foreground, viewdataRed)
	}
}

func TestViewdataParserBackgroundTakesCurrentForeground(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewViewdataParser()
	feedBytes(t, p, buf, caret, []byte{0x1B, 'A'}) // fg = red
	feedBytes(t, p, buf, caret, []byte{0x1B, ']'}) // bg = current fg (red)
	if caret.Attr.Background != viewdataRed {
		t.Fatalf("background = %d, want carried-forward red (%d)", caret.Attr.Background, viewdataRed)
	}
}

func TestViewdataParserEscapeConsumesColumnWithBlank(t *testing.T) {
	buf := NewBuffer(10, 1, WithTerminalBuffer())
	caret := NewCaret()
	p := NewViewdataParser()
	feedBytes(t, p, buf, caret, []byte{0x1B, 'A'}) // red, blank at column 0
	feedBytes(t, p, buf, caret, []byte("foo"))
	feedBytes(t, p, buf, caret, []byte{0x1B, 'B'}) // green, blank at column 4
	feedBytes(t, p, buf, caret, []byte("bar"))

	blank, ok := buf.GetChar(Position{X: 0, Y: 0})
	if !ok || blank.Char != ' ' {
		t.Fatalf("expected blank at the escape's own column, got %+v ok=%v", blank, ok)
	}
	f, ok := buf.GetChar(Position{X: 1, Y: 0})
	if !ok || f.Char != 'f' || f.Attr.Foreground != viewdataRed {
		t.Fatalf("expected 'f' at column 1 in red, got %+v ok=%v", f, ok)
	}
}

func TestViewdataParserBackspaceWrapsToPreviousRow(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewViewdataParser()
	feedBytes(t, p, buf, caret, []byte{0x08})
	if caret.Pos.X != buf.Width-1 || caret.Pos.Y != 0 {
		t.Fatalf("pos = %+v, want (%d,0)", caret.Pos, buf.Width-1)
	}
}

func TestViewdataParserTabMovesOneColumnWithWrap(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewViewdataParser()
	feedBytes(t, p, buf, caret, []byte{0x08, 0x09})
	if caret.Pos.X != 0 || caret.Pos.Y != 1 {
		t.Fatalf("pos = %+v, want (0,1)", caret.Pos)
	}
}

func TestPcboardParserClsMacro(t *testing.T) {
	buf := NewBuffer(5, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewPcboardParser()
	feedBytes(t, p, buf, caret, []byte("AB"))
	feedBytes(t, p, buf, caret, []byte("@CLS@"))
	if caret.Pos.X != 0 || caret.Pos.Y != 0 {
		t.Fatalf("expected caret homed after @CLS@, got %+v", caret.Pos)
	}
}

func TestPcboardParserColourMacro(t *testing.T) {
	buf := NewBuffer(5, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewPcboardParser()
	feedBytes(t, p, buf, caret, []byte("@X1E@"))
	if caret.Attr.Background != 1 || caret.Attr.Foreground != 0xE {
		t.Fatalf("attr = %+v, want bg=1 fg=0xE", caret.Attr)
	}
}

func TestPcboardParserFallsBackToAnsiCSI(t *testing.T) {
	buf := NewBuffer(80, 24, WithTerminalBuffer())
	caret := NewCaret()
	p := NewPcboardParser()
	feedBytes(t, p, buf, caret, []byte("\x1b[5;5H"))
	if caret.Pos.X != 4 || caret.Pos.Y != 4 {
		t.Fatalf("caret = %+v, want (4,4)", caret.Pos)
	}
}
