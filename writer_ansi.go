package artengine

import "strconv"

// WriteANSI serialises b's active layer to a minimal ECMA-48 stream: one SGR
// sequence whenever the running attribute changes, a leading CUP on any row
// whose first written column isn't 0 (rather than padding with literal
// filler spaces over a sparse gap, which would silently promote "never
// written" cells to explicit ones on re-parse), and CRLF between rows.
// Trailing fully-default rows are trimmed, matching WriteASCII.
func WriteANSI(b *Buffer, opts SaveOptions) []byte {
	layer := b.activeLayer()
	height := lastNonDefaultRow(layer, b.Width) + 1

	var out []byte
	running := DefaultTextAttribute()
	out = appendSGRReset(out)

	for y := 0; y < height; y++ {
		line := layer.LineAt(y)
		start := line.FirstWritten()
		if start > 0 && start < b.Width {
			out = appendCUP(out, y+1, start+1)
		} else if start >= b.Width {
			start = 0
		}
		for x := start; x < b.Width; x++ {
			cell := line.GetChar(x)
			if cell.Attr != running {
				out = appendSGR(out, cell.Attr, running)
				running = cell.Attr
			}
			writeCellByte(&out, cell.Char, opts)
		}
		if y < height-1 || opts.PreserveLineEnds {
			out = append(out, '\r', '\n')
		}
	}
	return out
}

// appendSGRReset emits "ESC [ 0 m", the writer's opening sequence so a
// reader starting from its own default attribute stays in sync.
func appendSGRReset(out []byte) []byte {
	return append(out, 0x1B, '[', '0', 'm')
}

// appendCUP emits "ESC [ row ; col H", 1-based.
func appendCUP(out []byte, row, col int) []byte {
	out = append(out, 0x1B, '[')
	out = strconv.AppendInt(out, int64(row), 10)
	out = append(out, ';')
	out = strconv.AppendInt(out, int64(col), 10)
	return append(out, 'H')
}

// appendSGR emits only the parameters that actually changed between running
// and next: a colour parameter when the palette index or any flag affecting
// it differs, and a per-flag on/off pair (e.g. 4/24 for underline) for each
// style bit that flipped.
func appendSGR(out []byte, next, running TextAttribute) []byte {
	params := make([]int, 0, 8)
	if next.Foreground != running.Foreground || next.flags != running.flags {
		params = append(params, sgrForegroundParam(next))
	}
	if next.Background != running.Background {
		params = append(params, sgrBackgroundParam(next))
	}
	if next.IsBold() != running.IsBold() {
		if next.IsBold() {
			params = append(params, 1)
		} else {
			params = append(params, 22)
		}
	}
	if next.IsFaint() != running.IsFaint() {
		if next.IsFaint() {
			params = append(params, 2)
		} else {
			params = append(params, 22)
		}
	}
	if next.IsItalic() != running.IsItalic() {
		if next.IsItalic() {
			params = append(params, 3)
		} else {
			params = append(params, 23)
		}
	}
	if next.IsUnderlined() != running.IsUnderlined() {
		if next.IsUnderlined() {
			params = append(params, 4)
		} else {
			params = append(params, 24)
		}
	}
	if next.IsBlinking() != running.IsBlinking() {
		if next.IsBlinking() {
			params = append(params, 5)
		} else {
			params = append(params, 25)
		}
	}
	if next.IsConcealed() != running.IsConcealed() {
		if next.IsConcealed() {
			params = append(params, 8)
		} else {
			params = append(params, 28)
		}
	}
	if next.IsCrossedOut() != running.IsCrossedOut() {
		if next.IsCrossedOut() {
			params = append(params, 9)
		} else {
			params = append(params, 29)
		}
	}
	if len(params) == 0 {
		return out
	}
	out = append(out, 0x1B, '[')
	for i, p := range params {
		if i > 0 {
			out = append(out, ';')
		}
		out = strconv.AppendInt(out, int64(p), 10)
	}
	return append(out, 'm')
}

func sgrForegroundParam(a TextAttribute) int {
	if a.Foreground < 8 {
		return 30 + int(a.Foreground)
	}
	return 90 + int(a.Foreground-8)
}

func sgrBackgroundParam(a TextAttribute) int {
	if a.Background < 8 {
		return 40 + int(a.Background)
	}
	return 100 + int(a.Background-8)
}
