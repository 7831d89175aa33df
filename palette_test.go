package artengine

import "testing"

func TestPaletteInsertColorIsIdempotent(t *testing.T) {
	p := NewPalette()
	startLen := p.Len()
	idx1 := p.InsertColor(RGB{10, 20, 30})
	idx2 := p.InsertColor(RGB{10, 20, 30})
	if idx1 != idx2 {
		t.Errorf("expected idempotent insert, got %d and %d", idx1, idx2)
	}
	if p.Len() != startLen+1 {
		t.Errorf("expected exactly one new entry, got len %d", p.Len())
	}
}

func TestPaletteInsertColorExistingDOSEntry(t *testing.T) {
	p := NewPalette()
	idx := p.InsertColor(RGB{0, 0, 0})
	if idx != 0 {
		t.Errorf("expected existing black entry at index 0, got %d", idx)
	}
}

func TestPaletteVGA6BitRoundTrip(t *testing.T) {
	p := NewPalette()
	vga := p.To16ColorVec()
	if len(vga) != 48 {
		t.Fatalf("expected 48 bytes, got %d", len(vga))
	}
	decoded := NewPaletteFromVGA6Bit(vga)
	for i := 0; i < 16; i++ {
		if decoded.At(i) != p.At(i) {
			t.Errorf("index %d: expected %+v, got %+v", i, p.At(i), decoded.At(i))
		}
	}
}
