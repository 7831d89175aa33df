package artengine

// AttributedChar is a single cell's payload: a character code, its text
// attribute, and which font page it should be rendered from. The char code
// fits in a byte (0-255); in extended-font mode the second 256-glyph page is
// selected by FontPage 1, which the XBIN codec stores as bit 3 of the
// attribute byte (see encodeXBinAttr and decodeXBinChar).
type AttributedChar struct {
	Char     rune
	Attr     TextAttribute
	FontPage int
}

// DefaultAttributedChar is a space with the default attribute on font page 0.
func DefaultAttributedChar() AttributedChar {
	return AttributedChar{Char: ' ', Attr: DefaultTextAttribute()}
}

// NewAttributedChar builds an AttributedChar with font page 0.
func NewAttributedChar(ch rune, attr TextAttribute) AttributedChar {
	return AttributedChar{Char: ch, Attr: attr}
}

// IsSpace reports whether ac is exactly the default space cell, the
// predicate the ASCII writer uses to decide whether a trailing row is
// "fully default" and can be trimmed.
func (ac AttributedChar) IsSpace() bool {
	return ac == DefaultAttributedChar()
}
