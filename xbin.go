package artengine

// XBIN header flag bits.
const (
	xbinFlagPalette    = 0b0000_0001
	xbinFlagFont       = 0b0000_0010
	xbinFlagCompress   = 0b0000_0100
	xbinFlagNonBlink   = 0b0000_1000
	xbinFlag512Char    = 0b0001_0000
	xbinHeaderSize     = 11
)

// xbinRunMode is the 2-bit run-type tag packed into the high bits of an
// XBIN compressed-body block header byte.
type xbinRunMode byte

const (
	xbinRunOff  xbinRunMode = 0b0000_0000
	xbinRunChar xbinRunMode = 0b0100_0000
	xbinRunAttr xbinRunMode = 0b1000_0000
	xbinRunFull xbinRunMode = 0b1100_0000
)

// ReadXBin decodes an XBIN file into a Buffer. SAUCE trailers, if present,
// are this engine's host's concern (see SauceInfo); ReadXBin only consumes
// the XBIN body itself.
func ReadXBin(data []byte) (*Buffer, error) {
	if len(data) < xbinHeaderSize {
		return nil, newEngineError(ErrTruncatedHeader, "XBIN header requires %d bytes, got %d", xbinHeaderSize, len(data))
	}
	if string(data[0:4]) != "XBIN" {
		return nil, newEngineError(ErrInvalidMagic, "missing XBIN magic")
	}

	o := 5 // skip magic (4) + EOF marker byte
	width := int(data[o]) | int(data[o+1])<<8
	o += 2
	height := int(data[o]) | int(data[o+1])<<8
	o += 2
	fontSize := data[o]
	o++
	flags := data[o]
	o++

	if width <= 0 || height <= 0 {
		return nil, newEngineError(ErrInvalidBounds, "XBIN declares non-positive dimensions %dx%d", width, height)
	}

	hasPalette := flags&xbinFlagPalette != 0
	hasFont := flags&xbinFlagFont != 0
	compressed := flags&xbinFlagCompress != 0
	useIce := flags&xbinFlagNonBlink != 0
	extended := flags&xbinFlag512Char != 0

	var bufferType BufferType
	switch {
	case extended && useIce:
		bufferType = BufferTypeExtFontIce
	case extended:
		bufferType = BufferTypeExtFont
	case useIce:
		bufferType = BufferTypeLegacyIce
	default:
		bufferType = BufferTypeLegacyDos
	}

	buf := NewBuffer(width, height, WithBufferType(bufferType), WithTerminalBuffer())

	if hasPalette {
		if o+48 > len(data) {
			return nil, newEngineError(ErrTruncatedHeader, "XBIN palette block truncated")
		}
		buf.Palette = NewPaletteFromVGA6Bit(data[o : o+48])
		o += 48
	}

	if hasFont {
		if fontSize == 0 || fontSize > 32 {
			return nil, newEngineError(ErrUnsupportedFont, "XBIN font height %d out of range 1-32", fontSize)
		}
		fontLen := int(fontSize) * 256
		if o+fontLen > len(data) {
			return nil, newEngineError(ErrTruncatedHeader, "XBIN font block truncated")
		}
		page0 := append([]byte(nil), data[o:o+fontLen]...)
		o += fontLen
		font := NewBitFont("", 8, int(fontSize), page0)
		if extended {
			if o+fontLen > len(data) {
				return nil, newEngineError(ErrTruncatedHeader, "XBIN second font page truncated")
			}
			font.Page2 = append([]byte(nil), data[o:o+fontLen]...)
			o += fontLen
		}
		buf.SetFont(0, font)
	}

	body := data[o:]
	if compressed {
		if err := readXBinCompressed(buf, body); err != nil {
			return buf, err
		}
	} else {
		if err := readXBinUncompressed(buf, body); err != nil {
			return buf, err
		}
	}
	return buf, nil
}

func decodeXBinChar(charCode, attr byte, bufferType BufferType) AttributedChar {
	attribute := FromDOSByte(attr, bufferType)
	fontPage := 0
	if bufferType.UseExtendedFont() && attr&0b1000 != 0 {
		fontPage = 1
	}
	return AttributedChar{Char: rune(charCode), Attr: attribute, FontPage: fontPage}
}

func encodeXBinAttr(ch AttributedChar, bufferType BufferType) byte {
	b := ch.Attr.AsDOSByte(bufferType)
	if bufferType.UseExtendedFont() && ch.FontPage == 1 {
		b |= 0b1000
	}
	return b
}

func advanceXBinPos(width int, pos *Position) {
	pos.X++
	if pos.X >= width {
		pos.X = 0
		pos.Y++
	}
}

func readXBinUncompressed(buf *Buffer, body []byte) error {
	pos := Position{}
	o := 0
	for o < len(body) {
		if o+2 > len(body) {
			return newEngineError(ErrTruncatedHeader, "XBIN uncompressed body length not a multiple of 2")
		}
		ch := decodeXBinChar(body[o], body[o+1], buf.BufferType)
		o += 2
		buf.SetChar(0, pos, &ch)
		advanceXBinPos(buf.Width, &pos)
	}
	return nil
}

func readXBinCompressed(buf *Buffer, body []byte) error {
	pos := Position{}
	o := 0
	for o < len(body) {
		tag := body[o]
		o++
		mode := xbinRunMode(tag & 0b1100_0000)
		count := int(tag&0b0011_1111) + 1

		switch mode {
		case xbinRunOff:
			for i := 0; i < count; i++ {
				if o+2 > len(body) {
					return newEngineError(ErrTruncatedHeader, "XBIN off-mode run truncated")
				}
				ch := decodeXBinChar(body[o], body[o+1], buf.BufferType)
				o += 2
				buf.SetChar(0, pos, &ch)
				advanceXBinPos(buf.Width, &pos)
			}
		case xbinRunChar:
			if o >= len(body) {
				return newEngineError(ErrTruncatedHeader, "XBIN char-mode run truncated")
			}
			charCode := body[o]
			o++
			for i := 0; i < count; i++ {
				if o >= len(body) {
					return newEngineError(ErrTruncatedHeader, "XBIN char-mode run truncated")
				}
				ch := decodeXBinChar(charCode, body[o], buf.BufferType)
				o++
				buf.SetChar(0, pos, &ch)
				advanceXBinPos(buf.Width, &pos)
			}
		case xbinRunAttr:
			if o >= len(body) {
				return newEngineError(ErrTruncatedHeader, "XBIN attr-mode run truncated")
			}
			attr := body[o]
			o++
			for i := 0; i < count; i++ {
				if o >= len(body) {
					return newEngineError(ErrTruncatedHeader, "XBIN attr-mode run truncated")
				}
				ch := decodeXBinChar(body[o], attr, buf.BufferType)
				o++
				buf.SetChar(0, pos, &ch)
				advanceXBinPos(buf.Width, &pos)
			}
		case xbinRunFull:
			if o+2 > len(body) {
				return newEngineError(ErrTruncatedHeader, "XBIN full-mode run truncated")
			}
			ch := decodeXBinChar(body[o], body[o+1], buf.BufferType)
			o += 2
			for i := 0; i < count; i++ {
				cp := ch
				buf.SetChar(0, pos, &cp)
				advanceXBinPos(buf.Width, &pos)
			}
		}
	}
	return nil
}

// WriteXBin encodes buf as an XBIN file per opts.CompressionLevel.
// opts.SaveSauce is the caller's responsibility to act on afterward (SAUCE
// writing is an external collaborator; see SPEC_FULL.md, Out of scope).
func WriteXBin(buf *Buffer, opts SaveOptions) ([]byte, error) {
	font := buf.GetFont(0)
	if font == nil {
		font = DefaultFont()
	}
	if font.Width != 8 || font.Height < 1 || font.Height > 32 {
		return nil, newEngineError(ErrUnsupportedFont, "XBIN requires an 8-wide font with height 1-32, got %dx%d", font.Width, font.Height)
	}

	height := buf.RealBufferHeight()
	out := make([]byte, 0, buf.Width*height*2+64)
	out = append(out, 'X', 'B', 'I', 'N', 0x1A)
	out = append(out, byte(buf.Width), byte(buf.Width>>8))
	out = append(out, byte(height), byte(height>>8))
	out = append(out, byte(font.Height))

	var flags byte
	if !font.IsDefault() {
		flags |= xbinFlagFont
	}
	customPalette := buf.Palette.Len() != len(dos16Palette)
	for i := 0; !customPalette && i < len(dos16Palette); i++ {
		customPalette = buf.Palette.At(i) != dos16Palette[i]
	}
	if customPalette {
		flags |= xbinFlagPalette
	}
	if opts.CompressionLevel != CompressionOff {
		flags |= xbinFlagCompress
	}
	if buf.BufferType.UseIceColors() {
		flags |= xbinFlagNonBlink
	}
	if buf.BufferType.UseExtendedFont() {
		flags |= xbinFlag512Char
	}
	out = append(out, flags)

	if flags&xbinFlagPalette != 0 {
		out = append(out, buf.Palette.To16ColorVec()...)
	}
	if flags&xbinFlagFont != 0 {
		out = font.ConvertToU8Data(out)
	}

	switch opts.CompressionLevel {
	case CompressionMedium:
		out = compressXBinGreedy(out, buf)
	case CompressionHigh:
		out = compressXBinBacktrack(out, buf)
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < buf.Width; x++ {
				ch, _ := buf.GetChar(Position{X: x, Y: y})
				out = append(out, byte(ch.Char), encodeXBinAttr(ch, buf.BufferType))
			}
		}
	}

	return out, nil
}

func xbinCellAt(buf *Buffer, width, height, index int) AttributedChar {
	if index < 0 || index >= width*height {
		return DefaultAttributedChar()
	}
	ch, _ := buf.GetChar(PositionFromIndex(width, index))
	return ch
}

// compressXBinGreedy is a direct port of the reference encoder's
// lookahead run classifier: it looks at most three cells ahead to decide
// whether Off/Char/Attr/Full starts or continues, never
// comparing total encoded length between alternatives (that is what
// compressXBinBacktrack adds).
func compressXBinGreedy(out []byte, buf *Buffer) []byte {
	width := buf.Width
	height := buf.RealBufferHeight()
	length := width * height

	runMode := xbinRunOff
	runCount := 0
	var runBuf []byte
	var runCh AttributedChar

	flush := func() {
		if runCount == 0 {
			return
		}
		out = append(out, byte(runMode)|byte(runCount-1))
		out = append(out, runBuf...)
		runCount = 0
	}

	for x := 0; x < length; x++ {
		cur := xbinCellAt(buf, width, height, x)
		var next AttributedChar
		if x < length-1 {
			next = xbinCellAt(buf, width, height, x+1)
		} else {
			next = DefaultAttributedChar()
		}

		if runCount > 0 {
			endRun := false
			switch {
			case runCount >= 64:
				endRun = true
			case runMode == xbinRunOff:
				if x < length-2 && cur == next {
					endRun = true
				} else if x < length-2 {
					next2 := xbinCellAt(buf, width, height, x+2)
					endRun = (cur.Char == next.Char && cur.Char == next2.Char) ||
						(cur.Attr == next.Attr && cur.Attr == next2.Attr)
				}
			case runMode == xbinRunChar:
				if cur.Char != runCh.Char {
					endRun = true
				} else if x < length-3 {
					next2 := xbinCellAt(buf, width, height, x+2)
					next3 := xbinCellAt(buf, width, height, x+3)
					endRun = cur == next && cur == next2 && cur == next3
				}
			case runMode == xbinRunAttr:
				if cur.Attr != runCh.Attr {
					endRun = true
				} else if x < length-3 {
					next2 := xbinCellAt(buf, width, height, x+2)
					next3 := xbinCellAt(buf, width, height, x+3)
					endRun = cur == next && cur == next2 && cur == next3
				}
			case runMode == xbinRunFull:
				endRun = cur != runCh
			}
			if endRun {
				flush()
			}
		}

		if runCount > 0 {
			switch runMode {
			case xbinRunOff:
				runBuf = append(runBuf, byte(cur.Char), encodeXBinAttr(cur, buf.BufferType))
			case xbinRunChar:
				runBuf = append(runBuf, encodeXBinAttr(cur, buf.BufferType))
			case xbinRunAttr:
				runBuf = append(runBuf, byte(cur.Char))
			case xbinRunFull:
			}
		} else {
			runBuf = runBuf[:0]
			if x < length-1 {
				switch {
				case cur == next:
					runMode = xbinRunFull
				case cur.Char == next.Char:
					runMode = xbinRunChar
				case cur.Attr == next.Attr:
					runMode = xbinRunAttr
				default:
					runMode = xbinRunOff
				}
			} else {
				runMode = xbinRunOff
			}

			if runMode == xbinRunAttr {
				runBuf = append(runBuf, encodeXBinAttr(cur, buf.BufferType), byte(cur.Char))
			} else {
				runBuf = append(runBuf, byte(cur.Char), encodeXBinAttr(cur, buf.BufferType))
			}
			runCh = cur
		}
		runCount++
	}
	flush()
	return out
}

// countXBinRunLength estimates the encoded byte length of the next window
// starting at x under a forced end_run decision (true/false), mirroring the
// reference encoder's lookahead cost function used to decide when ending
// the current run early produces a smaller file than continuing it.
func countXBinRunLength(runMode xbinRunMode, runCh AttributedChar, forceEnd *bool, runCount int, buf *Buffer, width, height, x int) int {
	length := width * height
	end := x + 256
	if length-1 < end {
		end = length - 1
	}
	count := 0
	for x < end {
		cur := xbinCellAt(buf, width, height, x)
		next := xbinCellAt(buf, width, height, x+1)

		if runCount > 0 {
			endRun := forceEnd
			if endRun == nil {
				v := false
				switch {
				case runCount >= 64:
					v = true
				case runMode == xbinRunOff:
					if x < end-2 && cur == next {
						v = true
					} else if x < end-2 {
						next2 := xbinCellAt(buf, width, height, x+2)
						v = (cur.Char == next.Char && cur.Char == next2.Char) ||
							(cur.Attr == next.Attr && cur.Attr == next2.Attr)
					}
				case runMode == xbinRunChar:
					if cur.Char != runCh.Char {
						v = true
					} else if x < end-3 {
						next2 := xbinCellAt(buf, width, height, x+2)
						next3 := xbinCellAt(buf, width, height, x+3)
						v = cur == next && cur == next2 && cur == next3
					}
				case runMode == xbinRunAttr:
					if cur.Attr != runCh.Attr {
						v = true
					} else if x < end-3 {
						next2 := xbinCellAt(buf, width, height, x+2)
						next3 := xbinCellAt(buf, width, height, x+3)
						v = cur == next && cur == next2 && cur == next3
					}
				case runMode == xbinRunFull:
					v = cur != runCh
				}
				endRun = &v
			}
			if *endRun {
				count++
				runCount = 0
			}
		}
		forceEnd = nil

		if runCount > 0 {
			switch runMode {
			case xbinRunOff:
				count += 2
			case xbinRunChar, xbinRunAttr:
				count++
			case xbinRunFull:
			}
		} else {
			if x < end-1 {
				switch {
				case cur == next:
					runMode = xbinRunFull
				case cur.Char == next.Char:
					runMode = xbinRunChar
				case cur.Attr == next.Attr:
					runMode = xbinRunAttr
				default:
					runMode = xbinRunOff
				}
			} else {
				runMode = xbinRunOff
			}
			count += 2
			runCh = cur
		}
		runCount++
		x++
	}
	return count
}

// compressXBinBacktrack is compressXBinGreedy's higher-effort sibling: at
// each ambiguous run boundary it compares the encoded length of ending the
// run now against continuing it (via countXBinRunLength) and picks
// whichever is smaller, trading CPU for a tighter file.
func compressXBinBacktrack(out []byte, buf *Buffer) []byte {
	width := buf.Width
	height := buf.RealBufferHeight()
	length := width * height

	runMode := xbinRunOff
	runCount := 0
	var runBuf []byte
	var runCh AttributedChar

	flush := func() {
		if runCount == 0 {
			return
		}
		out = append(out, byte(runMode)|byte(runCount-1))
		out = append(out, runBuf...)
		runCount = 0
	}

	tru, fls := true, false

	for x := 0; x < length; x++ {
		cur := xbinCellAt(buf, width, height, x)
		var next AttributedChar
		if x < length-1 {
			next = xbinCellAt(buf, width, height, x+1)
		} else {
			next = DefaultAttributedChar()
		}

		if runCount > 0 {
			endRun := false
			switch {
			case runCount >= 64:
				endRun = true
			case runMode == xbinRunOff:
				if x < length-2 && (cur.Char == next.Char || cur.Attr == next.Attr) {
					l1 := countXBinRunLength(runMode, runCh, &tru, runCount, buf, width, height, x)
					l2 := countXBinRunLength(runMode, runCh, &fls, runCount, buf, width, height, x)
					endRun = l1 < l2
				}
			case runMode == xbinRunChar:
				if cur.Char != runCh.Char {
					endRun = true
				} else if x < length-4 {
					next2 := xbinCellAt(buf, width, height, x+2)
					if cur.Attr == next.Attr && cur.Attr == next2.Attr {
						l1 := countXBinRunLength(runMode, runCh, &tru, runCount, buf, width, height, x)
						l2 := countXBinRunLength(runMode, runCh, &fls, runCount, buf, width, height, x)
						endRun = l1 < l2
					}
				}
			case runMode == xbinRunAttr:
				if cur.Attr != runCh.Attr {
					endRun = true
				} else if x < length-3 {
					next2 := xbinCellAt(buf, width, height, x+2)
					if cur.Char == next.Char && cur.Char == next2.Char {
						l1 := countXBinRunLength(runMode, runCh, &tru, runCount, buf, width, height, x)
						l2 := countXBinRunLength(runMode, runCh, &fls, runCount, buf, width, height, x)
						endRun = l1 < l2
					}
				}
			case runMode == xbinRunFull:
				endRun = cur != runCh
			}
			if endRun {
				flush()
			}
		}

		if runCount > 0 {
			switch runMode {
			case xbinRunOff:
				runBuf = append(runBuf, byte(cur.Char), encodeXBinAttr(cur, buf.BufferType))
			case xbinRunChar:
				runBuf = append(runBuf, encodeXBinAttr(cur, buf.BufferType))
			case xbinRunAttr:
				runBuf = append(runBuf, byte(cur.Char))
			case xbinRunFull:
			}
		} else {
			runBuf = runBuf[:0]
			if x < length-1 {
				switch {
				case cur == next:
					runMode = xbinRunFull
				case cur.Char == next.Char:
					runMode = xbinRunChar
				case cur.Attr == next.Attr:
					runMode = xbinRunAttr
				default:
					runMode = xbinRunOff
				}
			} else {
				runMode = xbinRunOff
			}

			if runMode == xbinRunAttr {
				runBuf = append(runBuf, encodeXBinAttr(cur, buf.BufferType), byte(cur.Char))
			} else {
				runBuf = append(runBuf, byte(cur.Char), encodeXBinAttr(cur, buf.BufferType))
			}
			runCh = cur
		}
		runCount++
	}
	flush()
	return out
}
