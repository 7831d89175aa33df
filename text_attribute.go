package artengine

// BufferType selects how an 8-bit DOS attribute byte is packed and unpacked.
// The four legacy variants disagree about what bit 3 of each nibble means,
// which is the source of the engine's one genuinely awkward design problem
// (see AsDOSByte).
type BufferType int

const (
	// BufferTypeLegacyDos is the plain CGA/VGA text-mode attribute byte:
	// low nibble fg (0-7) with bit 3 as bold, high nibble bg (0-7) with bit
	// 3 as blink.
	BufferTypeLegacyDos BufferType = iota
	// BufferTypeLegacyIce reinterprets the high nibble's bit 3 as an extra
	// background colour bit instead of blink, giving 16 flat backgrounds.
	BufferTypeLegacyIce
	// BufferTypeExtFont reinterprets the low nibble's bit 3 as a second
	// 256-glyph font page selector instead of bold.
	BufferTypeExtFont
	// BufferTypeExtFontIce combines both reinterpretations.
	BufferTypeExtFontIce
)

// UseIceColors reports whether this buffer type treats the high nibble's top
// bit as a background colour bit rather than blink.
func (t BufferType) UseIceColors() bool {
	return t == BufferTypeLegacyIce || t == BufferTypeExtFontIce
}

// UseExtendedFont reports whether this buffer type treats the low nibble's
// top bit as a font-page selector rather than bold.
func (t BufferType) UseExtendedFont() bool {
	return t == BufferTypeExtFont || t == BufferTypeExtFontIce
}

// String implements fmt.Stringer.
func (t BufferType) String() string {
	switch t {
	case BufferTypeLegacyDos:
		return "LegacyDos"
	case BufferTypeLegacyIce:
		return "LegacyIce"
	case BufferTypeExtFont:
		return "ExtFont"
	case BufferTypeExtFontIce:
		return "ExtFontIce"
	default:
		return "BufferType(?)"
	}
}

// attrFlag is an orthogonal style bit on TextAttribute. These never collide
// with each other regardless of BufferType; only AsDOSByte/FromDOSByte
// collapse a subset of them onto shared DOS-byte bit positions.
type attrFlag uint16

const (
	attrNone attrFlag = 0
	attrBold attrFlag = 1 << iota
	attrFaint
	attrItalic
	attrBlink
	attrUnderline
	attrDoubleUnderline
	attrConceal
	attrCrossedOut
	attrDoubleHeight
)

// TextAttribute carries a cell's colour (as palette indices, not RGB) and its
// style flags. Flags are stored as an orthogonal superset: bold and blink
// both always exist as independent bits here, regardless of BufferType. They
// only collapse onto shared bit positions when serialised to an 8-bit DOS
// attribute byte by AsDOSByte.
type TextAttribute struct {
	Foreground uint32
	Background uint32
	flags      attrFlag
}

// DefaultTextAttribute is fg 7 (light grey), bg 0 (black), no style flags.
func DefaultTextAttribute() TextAttribute {
	return TextAttribute{Foreground: 7, Background: 0}
}

// NewTextAttribute builds a TextAttribute with the given palette indices and
// no style flags set.
func NewTextAttribute(fg, bg uint32) TextAttribute {
	return TextAttribute{Foreground: fg, Background: bg}
}

// FromDOSByte decodes an 8-bit DOS attribute byte into a TextAttribute for
// the given BufferType. Ice-colour buffers fold the blink bit into an extra
// background bit instead of setting Blink; extended-font buffers fold the
// bold bit into the font-page selector instead (callers needing the font
// page should additionally consult bit 3 of the attribute byte, as
// decodeXBinChar does).
func FromDOSByte(b byte, bufferType BufferType) TextAttribute {
	var blink bool
	var background uint32
	if bufferType.UseIceColors() {
		background = uint32(b >> 4)
	} else {
		blink = b&0b1000_0000 != 0
		background = uint32(b>>4) & 0b0111
	}

	var bold bool
	var foreground uint32
	if bufferType.UseExtendedFont() {
		foreground = uint32(b) & 0b0111
	} else {
		bold = b&0b0000_1000 != 0
		foreground = uint32(b) & 0b0111
	}

	attr := TextAttribute{Foreground: foreground, Background: background}
	attr.SetBold(bold)
	attr.SetBlink(blink)
	return attr
}

// FromColorByte builds a TextAttribute from a pair of 4-bit DOS colour
// nibbles: fg's bit 3 is bold,
// bg's bit 3 is blink, and the remaining three bits of each select one of
// the 8 base colours.
func FromColorByte(fg, bg byte) TextAttribute {
	attr := TextAttribute{
		Foreground: uint32(fg) & 0x7,
		Background: uint32(bg) & 0x7,
	}
	attr.SetBold(fg&0b1000 != 0)
	attr.SetBlink(bg&0b1000 != 0)
	return attr
}

// AsDOSByte packs the attribute into an 8-bit DOS attribute byte for the
// given BufferType. Extended-font buffers drop the bold bit (it belongs to
// the font-page selector instead, carried on AttributedChar); ice-colour
// buffers drop blink (it becomes background bit 3, which is already present
// since Background is tracked as a full 0-15 value here).
func (a TextAttribute) AsDOSByte(bufferType BufferType) byte {
	var fg uint32
	if bufferType.UseExtendedFont() {
		fg = a.Foreground & 0b0111
	} else {
		fg = a.Foreground & 0b0111
		if a.IsBold() {
			fg |= 0b1000
		}
	}

	var bg uint32
	if bufferType.UseIceColors() {
		// Background carries a full 0-15 index directly; ice mode has no
		// blink bit to fold in.
		bg = a.Background & 0b1111
	} else {
		bg = a.Background & 0b0111
		if a.IsBlinking() {
			bg |= 0b1000
		}
	}

	return byte(fg | bg<<4)
}

func (a *TextAttribute) setFlag(flag attrFlag, on bool) {
	if on {
		a.flags |= flag
	} else {
		a.flags &^= flag
	}
}

func (a TextAttribute) hasFlag(flag attrFlag) bool {
	return a.flags&flag == flag
}

// IsBold reports the bold flag.
func (a TextAttribute) IsBold() bool { return a.hasFlag(attrBold) }

// SetBold sets or clears the bold flag.
func (a *TextAttribute) SetBold(v bool) { a.setFlag(attrBold, v) }

// IsFaint reports the faint flag.
func (a TextAttribute) IsFaint() bool { return a.hasFlag(attrFaint) }

// SetFaint sets or clears the faint flag.
func (a *TextAttribute) SetFaint(v bool) { a.setFlag(attrFaint, v) }

// IsItalic reports the italic flag.
func (a TextAttribute) IsItalic() bool { return a.hasFlag(attrItalic) }

// SetItalic sets or clears the italic flag.
func (a *TextAttribute) SetItalic(v bool) { a.setFlag(attrItalic, v) }

// IsBlinking reports the blink flag.
func (a TextAttribute) IsBlinking() bool { return a.hasFlag(attrBlink) }

// SetBlink sets or clears the blink flag.
func (a *TextAttribute) SetBlink(v bool) { a.setFlag(attrBlink, v) }

// IsUnderlined reports the (single) underline flag.
func (a TextAttribute) IsUnderlined() bool { return a.flags&attrUnderline == attrUnderline }

// SetUnderlined sets or clears the underline flag.
func (a *TextAttribute) SetUnderlined(v bool) { a.setFlag(attrUnderline, v) }

// IsDoubleUnderlined reports the double-underline flag.
func (a TextAttribute) IsDoubleUnderlined() bool {
	return a.flags&attrDoubleUnderline == attrDoubleUnderline
}

// SetDoubleUnderlined sets or clears the double-underline flag.
func (a *TextAttribute) SetDoubleUnderlined(v bool) { a.setFlag(attrDoubleUnderline, v) }

// IsConcealed reports the conceal flag.
func (a TextAttribute) IsConcealed() bool { return a.hasFlag(attrConceal) }

// SetConcealed sets or clears the conceal flag.
func (a *TextAttribute) SetConcealed(v bool) { a.setFlag(attrConceal, v) }

// IsCrossedOut reports the crossed-out (strikethrough) flag.
func (a TextAttribute) IsCrossedOut() bool { return a.hasFlag(attrCrossedOut) }

// SetCrossedOut sets or clears the crossed-out flag.
func (a *TextAttribute) SetCrossedOut(v bool) { a.setFlag(attrCrossedOut, v) }

// IsDoubleHeight reports the double-height flag.
func (a TextAttribute) IsDoubleHeight() bool { return a.hasFlag(attrDoubleHeight) }

// SetDoubleHeight sets or clears the double-height flag.
func (a *TextAttribute) SetDoubleHeight(v bool) { a.setFlag(attrDoubleHeight, v) }

// Reset clears all style flags without touching the colours.
func (a *TextAttribute) Reset() {
	a.flags = attrNone
}

// Reversed returns a copy of a with foreground and background swapped, used
// by SGR 7 (reverse video).
func (a TextAttribute) Reversed() TextAttribute {
	a.Foreground, a.Background = a.Background, a.Foreground
	return a
}
