package artengine

// WriteASCII serialises b's active layer to plain text: printable bytes per
// cell (CP437 or, with SaveOptions.ModernTerminalOutput, its Unicode
// translation encoded UTF-8) with CRLF between rows, and after the final
// row only when SaveOptions.PreserveLineEnds is set. Colour and
// style are discarded entirely — this is the lowest-fidelity writer, the
// floor every richer format falls back to. Trailing fully-default rows are
// trimmed (this engine's resolution of the spec's open round-trip question;
// see DESIGN.md).
func WriteASCII(b *Buffer, opts SaveOptions) []byte {
	layer := b.activeLayer()
	height := lastNonDefaultRow(layer, b.Width) + 1

	var out []byte
	for y := 0; y < height; y++ {
		line := layer.LineAt(y)
		for x := 0; x < b.Width; x++ {
			writeCellByte(&out, line.GetChar(x).Char, opts)
		}
		if y < height-1 || opts.PreserveLineEnds {
			out = append(out, '\r', '\n')
		}
	}
	return out
}

// lastNonDefaultRow returns the index of the last row containing any
// non-default cell, or -1 if the layer is entirely default (or empty).
func lastNonDefaultRow(layer *Layer, width int) int {
	for y := layer.Height() - 1; y >= 0; y-- {
		line := layer.LineAt(y)
		for x := 0; x < width; x++ {
			if !line.GetChar(x).IsSpace() {
				return y
			}
		}
	}
	return -1
}
