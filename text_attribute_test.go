package artengine

import "testing"

func TestDefaultTextAttribute(t *testing.T) {
	a := DefaultTextAttribute()
	if a.Foreground != 7 || a.Background != 0 {
		t.Errorf("expected fg 7 bg 0, got fg %d bg %d", a.Foreground, a.Background)
	}
	if a.IsBold() || a.IsBlinking() || a.IsUnderlined() {
		t.Error("default attribute must have no flags")
	}
}

func TestDOSByteRoundTripLegacyDos(t *testing.T) {
	a := NewTextAttribute(5, 1)
	a.SetBold(true)
	b := a.AsDOSByte(BufferTypeLegacyDos)
	if b != 0x1D {
		t.Errorf("expected 0x1D, got 0x%02X", b)
	}
	decoded := FromDOSByte(b, BufferTypeLegacyDos)
	if decoded.Foreground != 5 || decoded.Background != 1 || !decoded.IsBold() {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestDOSByteIceColors(t *testing.T) {
	a := NewTextAttribute(2, 14) // background 14 needs the ice bit
	b := a.AsDOSByte(BufferTypeLegacyIce)
	if b != 0xE2 {
		t.Errorf("expected 0xE2, got 0x%02X", b)
	}
	decoded := FromDOSByte(b, BufferTypeLegacyIce)
	if decoded.Background != 14 || decoded.IsBlinking() {
		t.Errorf("ice colours must not set blink: %+v", decoded)
	}
}

func TestScenarioS1Attributes(t *testing.T) {
	// Drives the literal spec scenario S1 byte string through the real ANSI
	// parser end to end, rather than just asserting the DOS-byte arithmetic
	// in isolation.
	buf := NewBuffer(80, 25, WithTerminalBuffer())
	caret := NewCaret()
	p := NewAnsiParser()
	feed(t, p, buf, caret, "\x1b[0;40;37mFoo-\x1b[1mB\x1b[0ma\x1b[35mr")

	want := "Foo-Bar"
	wantAttr := []byte{0x07, 0x07, 0x07, 0x07, 0x0F, 0x07, 0x05}
	for x, r := range want {
		ch, ok := buf.GetChar(Position{X: x, Y: 0})
		if !ok || ch.Char != r {
			t.Fatalf("char %d = %+v ok=%v, want %q", x, ch, ok, r)
		}
		if got := ch.Attr.AsDOSByte(BufferTypeLegacyDos); got != wantAttr[x] {
			t.Errorf("attr %d = 0x%02X, want 0x%02X", x, got, wantAttr[x])
		}
	}
}

func TestReversed(t *testing.T) {
	a := NewTextAttribute(3, 7)
	r := a.Reversed()
	if r.Foreground != 7 || r.Background != 3 {
		t.Errorf("expected fg/bg swapped, got %+v", r)
	}
}
