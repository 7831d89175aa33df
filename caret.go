package artengine

// InsertMode selects whether PrintChar overwrites the cell at the caret or
// shifts the rest of the row right first.
type InsertMode int

const (
	// InsertModeReplace overwrites the cell under the caret (the default).
	InsertModeReplace InsertMode = iota
	// InsertModeInsert shifts the row's tail right before writing.
	InsertModeInsert
)

// Caret is the cursor: its position, the attribute new cells are stamped
// with, and its visibility/blink/insert state.
type Caret struct {
	Pos       Position
	Attr      TextAttribute
	Insert    InsertMode
	Visible   bool
	Blinking  bool
}

// NewCaret returns a caret at the origin with default attribute, visible,
// blinking, and in replace mode.
func NewCaret() *Caret {
	return &Caret{Attr: DefaultTextAttribute(), Visible: true, Blinking: true}
}

// Reset returns the caret to NewCaret's state in place.
func (c *Caret) Reset() {
	c.Pos = Position{}
	c.Attr = DefaultTextAttribute()
	c.Insert = InsertModeReplace
	c.Visible = true
	c.Blinking = true
}

// CR moves the caret to column 0 of its current row.
func (c *Caret) CR() {
	c.Pos.X = 0
}

// Home moves the caret to the upper-left corner of buf's current editable
// region.
func (c *Caret) Home(buf *Buffer) {
	top, left, _, _ := buf.EditableRegion()
	c.Pos = Position{X: left, Y: top}
}

// EOL moves the caret to the rightmost column of buf's current editable
// region.
func (c *Caret) EOL(buf *Buffer) {
	_, _, _, right := buf.EditableRegion()
	c.Pos.X = right
}

// LF performs a line feed: column resets to 0, row advances by one, growing
// lines as needed. If the caret started outside the editable region it is
// simply clamped back into it; otherwise the buffer scrolls down if the new
// row fell past the bottom margin.
func (c *Caret) LF(buf *Buffer) {
	top, _, bottom, _ := buf.EditableRegion()
	wasOutside := c.Pos.Y < top || c.Pos.Y > bottom
	c.Pos.X = 0
	c.Pos.Y++
	buf.growActiveLayerTo(c.Pos.Y)
	if wasOutside {
		c.clampToRegion(buf)
		return
	}
	buf.checkScrollDown(c, true)
}

// FF clears the buffer, resets terminal state, and returns the caret to the
// default state at the origin.
func (c *Caret) FF(buf *Buffer) {
	buf.State = NewTerminalState(buf.Width)
	buf.Clear()
	c.Reset()
}

// BS moves the caret one column left (never past column 0) and overwrites
// the new position with a space in the current attribute.
func (c *Caret) BS(buf *Buffer) {
	if c.Pos.X > 0 {
		c.Pos.X--
	}
	ch := AttributedChar{Char: ' ', Attr: c.Attr}
	buf.SetChar(0, c.Pos, &ch)
}

// Del removes the cell under the caret, shifting the rest of the row left.
func (c *Caret) Del(buf *Buffer) {
	buf.activeLine(c.Pos.Y).DeleteAt(c.Pos.X)
}

// Ins inserts a blank cell under the caret, shifting the rest of the row
// right.
func (c *Caret) Ins(buf *Buffer) {
	buf.activeLine(c.Pos.Y).InsertAt(c.Pos.X)
}

// EraseCharacter overwrites n cells starting at the caret with spaces in
// the current attribute, without moving the caret.
func (c *Caret) EraseCharacter(buf *Buffer, n int) {
	ch := AttributedChar{Char: ' ', Attr: c.Attr}
	for i := 0; i < n; i++ {
		pos := Position{X: c.Pos.X + i, Y: c.Pos.Y}
		if pos.X >= buf.Width {
			break
		}
		cp := ch
		buf.SetChar(0, pos, &cp)
	}
}

func (c *Caret) clampToRegion(buf *Buffer) {
	top, left, bottom, right := buf.EditableRegion()
	if c.Pos.X < left {
		c.Pos.X = left
	}
	if c.Pos.X > right {
		c.Pos.X = right
	}
	if c.Pos.Y < top {
		c.Pos.Y = top
	}
	if c.Pos.Y > bottom {
		c.Pos.Y = bottom
	}
}

// Left moves the caret left by n columns, clamped to the editable region.
func (c *Caret) Left(buf *Buffer, n int) {
	c.Pos.X -= n
	c.clampToRegion(buf)
}

// Right moves the caret right by n columns, clamped to the editable region.
func (c *Caret) Right(buf *Buffer, n int) {
	c.Pos.X += n
	c.clampToRegion(buf)
}

// Up moves the caret up by n rows, scrolling the buffer if it is a terminal
// buffer and the move would otherwise leave the editable region.
func (c *Caret) Up(buf *Buffer, n int) {
	c.Pos.Y -= n
	if buf.IsTerminalBuffer {
		buf.checkScrollUp(c, false)
	}
	c.clampToRegion(buf)
}

// Down moves the caret down by n rows, scrolling the buffer if it is a
// terminal buffer and the move would otherwise leave the editable region.
func (c *Caret) Down(buf *Buffer, n int) {
	c.Pos.Y += n
	if buf.IsTerminalBuffer {
		buf.checkScrollDown(c, false)
	}
	c.clampToRegion(buf)
}

// Index performs ECMA-48 IND: move down one row, always scrolling if the
// caret would cross the bottom of the editable region.
func (c *Caret) Index(buf *Buffer) {
	c.Pos.Y++
	buf.growActiveLayerTo(c.Pos.Y)
	buf.checkScrollDown(c, true)
}

// ReverseIndex performs ECMA-48 RI: move up one row, always scrolling if the
// caret would cross the top of the editable region.
func (c *Caret) ReverseIndex(buf *Buffer) {
	c.Pos.Y--
	buf.checkScrollUp(c, true)
}

// NextLine performs ECMA-48 NEL: CR followed by Index.
func (c *Caret) NextLine(buf *Buffer) {
	c.CR()
	c.Index(buf)
}
