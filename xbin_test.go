package artengine

import "testing"

func fillXBinSample(buf *Buffer) {
	// A mix of runs: a solid block of identical cells (Full run), a row
	// that varies only in character (Attr run), and a row that varies only
	// in colour (Char run); row 1's unwritten tail stays default cells.
	for x := 0; x < buf.Width; x++ {
		ch := AttributedChar{Char: '#', Attr: NewTextAttribute(4, 0)}
		buf.SetChar(0, Position{X: x, Y: 0}, &ch)
	}
	letters := []rune{'A', 'B', 'C', 'D', 'E'}
	for x := 0; x < buf.Width && x < len(letters); x++ {
		ch := AttributedChar{Char: letters[x], Attr: NewTextAttribute(2, 0)}
		buf.SetChar(0, Position{X: x, Y: 1}, &ch)
	}
	for x := 0; x < buf.Width; x++ {
		attr := NewTextAttribute(uint32(x%8), 0)
		ch := AttributedChar{Char: '*', Attr: attr}
		buf.SetChar(0, Position{X: x, Y: 2}, &ch)
	}
}

func assertXBinBuffersEqual(t *testing.T, want, got *Buffer) {
	t.Helper()
	if want.Width != got.Width {
		t.Fatalf("width = %d, want %d", got.Width, want.Width)
	}
	h := want.RealBufferHeight()
	if got.RealBufferHeight() != h {
		t.Fatalf("height = %d, want %d", got.RealBufferHeight(), h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < want.Width; x++ {
			wc, _ := want.GetChar(Position{X: x, Y: y})
			gc, _ := got.GetChar(Position{X: x, Y: y})
			if wc.Char != gc.Char || wc.Attr.Foreground != gc.Attr.Foreground || wc.Attr.Background != gc.Attr.Background {
				t.Fatalf("cell (%d,%d) = %+v, want %+v", x, y, gc, wc)
			}
		}
	}
}

func TestXBinRoundTripUncompressed(t *testing.T) {
	buf := NewBuffer(8, 3)
	fillXBinSample(buf)
	opts := NewSaveOptions(WithCompressionLevel(CompressionOff))

	data, err := WriteXBin(buf, opts)
	if err != nil {
		t.Fatalf("WriteXBin: %v", err)
	}
	if string(data[0:4]) != "XBIN" {
		t.Fatalf("missing XBIN magic in output")
	}

	got, err := ReadXBin(data)
	if err != nil {
		t.Fatalf("ReadXBin: %v", err)
	}
	assertXBinBuffersEqual(t, buf, got)
}

func TestXBinRoundTripGreedyCompression(t *testing.T) {
	buf := NewBuffer(8, 3)
	fillXBinSample(buf)
	opts := NewSaveOptions(WithCompressionLevel(CompressionMedium))

	data, err := WriteXBin(buf, opts)
	if err != nil {
		t.Fatalf("WriteXBin: %v", err)
	}
	got, err := ReadXBin(data)
	if err != nil {
		t.Fatalf("ReadXBin: %v", err)
	}
	assertXBinBuffersEqual(t, buf, got)
}

func TestXBinRoundTripBacktrackCompression(t *testing.T) {
	buf := NewBuffer(8, 3)
	fillXBinSample(buf)
	opts := NewSaveOptions(WithCompressionLevel(CompressionHigh))

	data, err := WriteXBin(buf, opts)
	if err != nil {
		t.Fatalf("WriteXBin: %v", err)
	}
	got, err := ReadXBin(data)
	if err != nil {
		t.Fatalf("ReadXBin: %v", err)
	}
	assertXBinBuffersEqual(t, buf, got)
}

func TestXBinRoundTripIceAndPalette(t *testing.T) {
	buf := NewBuffer(4, 2, WithBufferType(BufferTypeLegacyIce))
	buf.Palette.setAt(3, RGB{R: 0x11, G: 0x22, B: 0x33})
	for x := 0; x < buf.Width; x++ {
		ch := AttributedChar{Char: rune('a' + x), Attr: NewTextAttribute(1, 12)}
		buf.SetChar(0, Position{X: x, Y: 0}, &ch)
	}
	opts := NewSaveOptions(WithCompressionLevel(CompressionMedium))

	data, err := WriteXBin(buf, opts)
	if err != nil {
		t.Fatalf("WriteXBin: %v", err)
	}
	got, err := ReadXBin(data)
	if err != nil {
		t.Fatalf("ReadXBin: %v", err)
	}
	if got.BufferType != BufferTypeLegacyIce {
		t.Fatalf("BufferType = %v, want LegacyIce", got.BufferType)
	}
	assertXBinBuffersEqual(t, buf, got)
}

func TestReadXBinRejectsBadMagic(t *testing.T) {
	data := make([]byte, 20)
	copy(data, "NOPE")
	if _, err := ReadXBin(data); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestReadXBinRejectsTruncatedHeader(t *testing.T) {
	if _, err := ReadXBin([]byte("XBIN")); err == nil {
		t.Fatalf("expected error for truncated header")
	}
}
