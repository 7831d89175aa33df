package artengine

import "testing"

func TestNewBufferDefaults(t *testing.T) {
	b := NewBuffer(80, 25)
	if b.Width != 80 || b.Height != 25 {
		t.Fatalf("unexpected dimensions: %dx%d", b.Width, b.Height)
	}
	if len(b.Layers) != 2 {
		t.Fatalf("expected edit+terminal layers, got %d", len(b.Layers))
	}
	if b.ID.String() == "" {
		t.Error("expected a non-empty ID")
	}
}

func TestGetCharDefaultsToSpace(t *testing.T) {
	b := NewBuffer(10, 10, WithTerminalBuffer())
	ch, ok := b.GetChar(Position{X: 0, Y: 0})
	if !ok {
		t.Fatal("expected in-bounds position to resolve")
	}
	if ch != DefaultAttributedChar() {
		t.Errorf("expected default space cell, got %+v", ch)
	}
	_, ok = b.GetChar(Position{X: 100, Y: 100})
	if ok {
		t.Error("expected out-of-range position to fail")
	}
}

func TestSetCharAndGetChar(t *testing.T) {
	b := NewBuffer(10, 10, WithTerminalBuffer())
	ch := NewAttributedChar('X', NewTextAttribute(4, 1))
	b.SetChar(0, Position{X: 2, Y: 3}, &ch)
	got, _ := b.GetChar(Position{X: 2, Y: 3})
	if got.Char != 'X' {
		t.Errorf("expected 'X', got %q", got.Char)
	}
}

func TestScrollUpWithinMargins(t *testing.T) {
	b := NewBuffer(5, 5, WithTerminalBuffer())
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			ch := NewAttributedChar(rune('0'+y), DefaultTextAttribute())
			b.SetChar(0, Position{X: x, Y: y}, &ch)
		}
	}
	b.State.VerticalMarginsSet = true
	b.State.Vertical = VerticalMargins{Top: 1, Bottom: 3}

	b.ScrollUp()

	// row 0 (outside margin) must be untouched
	row0, _ := b.GetChar(Position{X: 0, Y: 0})
	if row0.Char != '0' {
		t.Errorf("expected row 0 untouched, got %q", row0.Char)
	}
	// row 1 should now have row 2's content
	row1, _ := b.GetChar(Position{X: 0, Y: 1})
	if row1.Char != '2' {
		t.Errorf("expected row 1 to show old row 2 content, got %q", row1.Char)
	}
	// row 3 (bottom of margin) should be blanked
	row3, _ := b.GetChar(Position{X: 0, Y: 3})
	if row3.Char != ' ' {
		t.Errorf("expected bottom margin row blanked, got %q", row3.Char)
	}
	// row 4 (outside margin) must be untouched
	row4, _ := b.GetChar(Position{X: 0, Y: 4})
	if row4.Char != '4' {
		t.Errorf("expected row 4 untouched, got %q", row4.Char)
	}
}

func TestPrintCharAutoWrap(t *testing.T) {
	b := NewBuffer(3, 3, WithTerminalBuffer())
	c := NewCaret()
	b.PrintChar(c, 'A')
	b.PrintChar(c, 'B')
	b.PrintChar(c, 'C')
	b.PrintChar(c, 'D') // triggers wrap
	if c.Pos.Y != 1 || c.Pos.X != 1 {
		t.Errorf("expected caret at (1,1) after wrap, got %v", c.Pos)
	}
	d, _ := b.GetChar(Position{X: 0, Y: 1})
	if d.Char != 'D' {
		t.Errorf("expected 'D' at start of row 1, got %q", d.Char)
	}
}
