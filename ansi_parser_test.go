package artengine

import "testing"

func feed(t *testing.T, p *AnsiParser, buf *Buffer, caret *Caret, s string) CallbackAction {
	t.Helper()
	var last CallbackAction
	for _, b := range []byte(s) {
		act, err := p.PrintChar(buf, caret, rune(b))
		if err != nil {
			t.Fatalf("PrintChar(%q) error: %v", s, err)
		}
		if act.Kind != CallbackNone {
			last = act
		}
	}
	return last
}

func TestAnsiParserPlainText(t *testing.T) {
	buf := NewBuffer(10, 5, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "HI")
	ch, ok := buf.GetChar(Position{X: 0, Y: 0})
	if !ok || ch.Char != 'H' {
		t.Fatalf("expected H at (0,0), got %+v ok=%v", ch, ok)
	}
	if caret.Pos.X != 2 {
		t.Fatalf("caret.Pos.X = %d, want 2", caret.Pos.X)
	}
}

func TestAnsiParserCursorPosition(t *testing.T) {
	buf := NewBuffer(80, 24, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "\x1b[10;5H")
	if caret.Pos.X != 4 || caret.Pos.Y != 9 {
		t.Fatalf("caret = %+v, want (4,9)", caret.Pos)
	}
}

func TestAnsiParserSGRColors(t *testing.T) {
	buf := NewBuffer(80, 24, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "\x1b[1;31;44mX")
	if !caret.Attr.IsBold() {
		t.Fatalf("expected bold set")
	}
	if caret.Attr.Foreground != 1 {
		t.Fatalf("Foreground = %d, want 1", caret.Attr.Foreground)
	}
	if caret.Attr.Background != 4 {
		t.Fatalf("Background = %d, want 4", caret.Attr.Background)
	}
}

func TestAnsiParserSGRReset(t *testing.T) {
	buf := NewBuffer(80, 24, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "\x1b[1;33m\x1b[0m")
	if caret.Attr.IsBold() {
		t.Fatalf("expected bold cleared after reset")
	}
	if caret.Attr.Foreground != 7 || caret.Attr.Background != 0 {
		t.Fatalf("expected default colours after reset, got %+v", caret.Attr)
	}
}

func TestAnsiParserSGRReverseRoundTrip(t *testing.T) {
	buf := NewBuffer(80, 24, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "\x1b[33;44m")
	fg, bg := caret.Attr.Foreground, caret.Attr.Background
	feed(t, p, buf, caret, "\x1b[7m")
	if caret.Attr.Foreground != bg || caret.Attr.Background != fg {
		t.Fatalf("reverse video did not swap colours: %+v", caret.Attr)
	}
	feed(t, p, buf, caret, "\x1b[27m")
	if caret.Attr.Foreground != fg || caret.Attr.Background != bg {
		t.Fatalf("un-reverse did not restore colours: %+v", caret.Attr)
	}
}

func TestAnsiParserScrollRegion(t *testing.T) {
	buf := NewBuffer(10, 5, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "\x1b[2;4r")
	if !buf.State.VerticalMarginsSet {
		t.Fatalf("expected vertical margins set")
	}
	if buf.State.Vertical.Top != 1 || buf.State.Vertical.Bottom != 3 {
		t.Fatalf("margins = %+v, want (1,3)", buf.State.Vertical)
	}
	if caret.Pos.Y != 1 {
		t.Fatalf("DECSTBM should home the caret, got row %d", caret.Pos.Y)
	}
}

func TestAnsiParserEraseDisplay(t *testing.T) {
	buf := NewBuffer(5, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "ABCDE")
	feed(t, p, buf, caret, "\x1b[2J")
	ch, _ := buf.GetChar(Position{X: 0, Y: 0})
	if ch.Char != 0 && ch.Char != ' ' {
		t.Fatalf("expected cleared cell, got %q", ch.Char)
	}
}

func TestAnsiParserBell(t *testing.T) {
	buf := NewBuffer(5, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	act := feed(t, p, buf, caret, "\x07")
	if act.Kind != CallbackBeep {
		t.Fatalf("expected CallbackBeep, got %v", act.Kind)
	}
}

func TestAnsiParserDeviceStatusReport(t *testing.T) {
	buf := NewBuffer(80, 24, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	caret.Pos = Position{X: 3, Y: 4}
	act := feed(t, p, buf, caret, "\x1b[6n")
	if act.Kind != CallbackSendString || act.String != "\x1b[5;4R" {
		t.Fatalf("got %+v, want CPR for row 5 col 4", act)
	}
}

func TestAnsiParserMacroDefineAndInvoke(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	// Define macro 1 as literal text "AB" (Pmode 0 = literal bytes).
	feed(t, p, buf, caret, "\x1bP1;0;0!zAB\x1b\\")
	feed(t, p, buf, caret, "\x1b[1*z")
	ch0, _ := buf.GetChar(Position{X: 0, Y: 0})
	ch1, _ := buf.GetChar(Position{X: 1, Y: 0})
	if ch0.Char != 'A' || ch1.Char != 'B' {
		t.Fatalf("macro invocation produced %q%q, want AB", ch0.Char, ch1.Char)
	}
}

func TestAnsiParserMacroInvocationMissingErrors(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	for _, b := range []byte("\x1b[9*z") {
		_, err := p.PrintChar(buf, caret, rune(b))
		if b == 'z' {
			if err == nil {
				t.Fatalf("expected error invoking undefined macro")
			}
			var ee *EngineError
			if !errorsAsEngine(err, &ee) || ee.Kind != ErrMacroInvocationFailed {
				t.Fatalf("expected ErrMacroInvocationFailed, got %v", err)
			}
		}
	}
}

func errorsAsEngine(err error, target **EngineError) bool {
	if ee, ok := err.(*EngineError); ok {
		*target = ee
		return true
	}
	return false
}

func TestAnsiParserRectangleChecksum(t *testing.T) {
	buf := NewBuffer(5, 5, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "ABCDE")
	act := feed(t, p, buf, caret, "\x1b[1;1;1;1;1;5*y")
	if act.Kind != CallbackSendString {
		t.Fatalf("expected checksum reply, got %+v", act)
	}
}

func TestAnsiMusicNoteAndDefaultLength(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	p.AnsiMusic = AnsiMusicBoth
	act := feed(t, p, buf, caret, "\x1b[NC\x0e")
	if act.Kind != CallbackPlayMusic {
		t.Fatalf("expected PlayMusic callback, got %+v", act)
	}
	if len(act.Music) != 1 {
		t.Fatalf("expected 1 music action, got %d", len(act.Music))
	}
	n := act.Music[0]
	if n.Kind != MusicActionPlayNote {
		t.Fatalf("expected PlayNote, got %+v", n)
	}
	if diff := n.FrequencyHz - 523.2511; diff > 0.01 || diff < -0.01 {
		t.Fatalf("frequency = %v, want ~523.2511", n.FrequencyHz)
	}
	if n.LengthTicks != 4*120 {
		t.Fatalf("length = %d, want %d", n.LengthTicks, 4*120)
	}
}

func TestAnsiMusicMelody(t *testing.T) {
	buf := NewBuffer(10, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	p.AnsiMusic = AnsiMusicBoth
	act := feed(t, p, buf, caret, "\x1b[MFT225O3L8GL8GL8GL2E-P8L8FL8FL8FMLL2DL2DMNP8\x0e")
	if act.Kind != CallbackPlayMusic {
		t.Fatalf("expected PlayMusic callback, got %+v", act)
	}
	if len(act.Music) != 14 {
		t.Fatalf("expected 14 music actions, got %d", len(act.Music))
	}
}

func TestAnsiParserCSIMStillDeletesLineWhenMusicOff(t *testing.T) {
	buf := NewBuffer(5, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "AAAAA\r\nBBBBB\r\n")
	feed(t, p, buf, caret, "\x1b[1;1H\x1b[M")
	ch, ok := buf.GetChar(Position{X: 0, Y: 0})
	if !ok || ch.Char != 'B' {
		t.Fatalf("expected DL to pull row 1 up to row 0, got %+v ok=%v", ch, ok)
	}
}

func TestAnsiParserAutoWrap(t *testing.T) {
	buf := NewBuffer(3, 3, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "ABCD")
	if caret.Pos.Y != 1 {
		t.Fatalf("expected wrap to row 1, got %d", caret.Pos.Y)
	}
	ch, _ := buf.GetChar(Position{X: 0, Y: 1})
	if ch.Char != 'D' {
		t.Fatalf("expected D wrapped to (0,1), got %q", ch.Char)
	}
}
