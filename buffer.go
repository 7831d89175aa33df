package artengine

import (
	"sync"

	"github.com/google/uuid"
)

// SauceInfo is the minimal subset of SAUCE metadata this engine cares about
// for round-tripping; full SAUCE parsing is an external collaborator's job
// (see SPEC_FULL.md, Out of scope).
type SauceInfo struct {
	Present bool
	Title   string
	Author  string
	Group   string
}

// Buffer is the cell grid: a stack of layers sharing one width, declared
// height, BufferType, Palette, and font table, plus the TerminalState and
// caret-reset template a parser needs. Buffer is the unit every parser and
// codec in this engine operates on.
type Buffer struct {
	ID               uuid.UUID
	Width            int
	Height           int
	BufferType       BufferType
	Palette          *Palette
	fonts            map[int]*BitFont
	Layers           []*Layer
	State            *TerminalState
	CaretResetState  Caret
	Sauce            SauceInfo
	IsTerminalBuffer bool

	// snapMu guards GetChar/RealBufferHeight against a concurrent host
	// snapshotting the buffer (e.g. for rendering) while a parse owns the
	// buffer for mutation. It is not taken by the mutating methods
	// themselves: the buffer has exactly one parse owner at a time, so of
	// the teacher's Terminal locking (accessors and mutators alike) only
	// the read side is kept here.
	snapMu sync.RWMutex
}

// NewBuffer creates an edit-mode buffer of the given size: a default edit
// layer plus a default terminal layer, the default 16-colour palette, the
// default 8x16 font at page 0, and a fresh identifier for host-side
// tracking across snapshots.
func NewBuffer(width, height int, opts ...Option) *Buffer {
	b := &Buffer{
		ID:         uuid.New(),
		Width:      width,
		Height:     height,
		BufferType: BufferTypeLegacyDos,
		Palette:    NewPalette(),
		fonts:      map[int]*BitFont{0: DefaultFont()},
		State:      NewTerminalState(width),
	}
	b.Layers = []*Layer{NewLayer("Edit Layer"), NewLayer("Terminal")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithBufferType sets the buffer's DOS-attribute-byte packing variant.
func WithBufferType(t BufferType) Option {
	return func(b *Buffer) { b.BufferType = t }
}

// WithTerminalBuffer switches b into terminal mode: the edit layer is
// dropped (terminal parsing writes directly to a single flat layer) and
// IsTerminalBuffer is set.
func WithTerminalBuffer() Option {
	return func(b *Buffer) {
		b.IsTerminalBuffer = true
		if len(b.Layers) > 1 {
			b.Layers = b.Layers[1:]
		}
	}
}

// WithFont installs font at the given page (0 or 1).
func WithFont(page int, font *BitFont) Option {
	return func(b *Buffer) { b.SetFont(page, font) }
}

// activeLayer is the layer parsers and carets operate on: layer 0 once the
// buffer is in terminal mode (the edit layer having been removed), or the
// first layer otherwise.
func (b *Buffer) activeLayer() *Layer {
	return b.Layers[0]
}

func (b *Buffer) activeLine(y int) *Line {
	return b.activeLayer().LineAt(y)
}

func (b *Buffer) growActiveLayerTo(y int) {
	b.activeLayer().LineAt(y)
}

// RealBufferHeight is the max of the declared height and the tallest
// layer's line count. Deleting lines (RemoveTerminalLine) shortens a
// layer, so the value can shrink back towards the declared height.
func (b *Buffer) RealBufferHeight() int {
	b.snapMu.RLock()
	defer b.snapMu.RUnlock()
	return b.realBufferHeight()
}

func (b *Buffer) realBufferHeight() int {
	h := b.Height
	for _, layer := range b.Layers {
		if layer.Height() > h {
			h = layer.Height()
		}
	}
	return h
}

// SetFont installs font at the given page number (0 or 1).
func (b *Buffer) SetFont(page int, font *BitFont) {
	if b.fonts == nil {
		b.fonts = map[int]*BitFont{}
	}
	b.fonts[page] = font
}

// GetFont returns the font installed at page, or nil if none.
func (b *Buffer) GetFont(page int) *BitFont {
	return b.fonts[page]
}

// GetFontDimensions returns (width, height) of the page-0 font, or (0, 0) if
// none is installed.
func (b *Buffer) GetFontDimensions() (int, int) {
	f := b.fonts[0]
	if f == nil {
		return 0, 0
	}
	return f.Width, f.Height
}

// GetChar returns the cell at pos on the active layer. Positions inside
// (0..Width, 0..RealBufferHeight) always resolve (to a default space cell
// if never written); positions outside return (zero value, false).
func (b *Buffer) GetChar(pos Position) (AttributedChar, bool) {
	b.snapMu.RLock()
	defer b.snapMu.RUnlock()
	if pos.X < 0 || pos.X >= b.Width || pos.Y < 0 || pos.Y >= b.realBufferHeight() {
		return AttributedChar{}, false
	}
	return b.activeLayer().GetChar(pos), true
}

// SetChar stores ch at pos on the given layer index, growing it as needed.
// A nil ch clears the position back to "never written".
func (b *Buffer) SetChar(layerIndex int, pos Position, ch *AttributedChar) {
	if layerIndex < 0 || layerIndex >= len(b.Layers) {
		layerIndex = 0
	}
	b.Layers[layerIndex].SetChar(pos, ch)
}

// Clear resets every cell on every layer back to "never written", without
// shrinking declared dimensions.
func (b *Buffer) Clear() {
	for _, layer := range b.Layers {
		for _, line := range layer.Lines {
			line.Clear()
		}
	}
}

// EditableRegion returns the current (top, left, bottom, right) inclusive
// bounds parsers must clamp the caret and scroll operations to, derived
// from TerminalState's optional margins and falling back to the full
// buffer.
func (b *Buffer) EditableRegion() (top, left, bottom, right int) {
	top, bottom = 0, b.Height-1
	left, right = 0, b.Width-1
	if b.State.VerticalMarginsSet {
		top, bottom = b.State.Vertical.Top, b.State.Vertical.Bottom
	}
	if b.State.HorizontalMarginsSet {
		left, right = b.State.Horizontal.Left, b.State.Horizontal.Right
	}
	return
}

// checkScrollDown scrolls the editable window up by one (the content
// scrolls "down" off the top as a new blank line enters at the bottom) for
// as long as the caret sits past the bottom margin, decrementing the
// caret's row each time. When forced is true (IND/NEL/LF semantics) it
// always checks; non-forced calls (Up/Down by n) only check when the
// buffer is a terminal buffer.
func (b *Buffer) checkScrollDown(c *Caret, forced bool) {
	if !forced && !b.IsTerminalBuffer {
		return
	}
	_, _, bottom, _ := b.EditableRegion()
	for c.Pos.Y > bottom {
		b.ScrollUp()
		c.Pos.Y--
	}
}

// checkScrollUp is checkScrollDown's mirror for the top margin. Unlike
// checkScrollDown it only ever performs a single scroll-and-decrement step,
// matching the asymmetry between LF (which can cascade through several
// scrolls) and an upward caret move (which corrects at most one line).
func (b *Buffer) checkScrollUp(c *Caret, forced bool) {
	if !forced && !b.IsTerminalBuffer {
		return
	}
	top, _, _, _ := b.EditableRegion()
	if c.Pos.Y < top {
		b.ScrollDown()
		c.Pos.Y++
	}
}

// ScrollUp moves every cell in the editable window up by one row and blanks
// the row that enters at the bottom. Cells outside the window are
// untouched.
func (b *Buffer) ScrollUp() {
	top, left, bottom, right := b.EditableRegion()
	layer := b.activeLayer()
	for y := top; y < bottom; y++ {
		src := layer.LineAt(y + 1)
		dst := layer.LineAt(y)
		for x := left; x <= right; x++ {
			dst.SetChar(x, cellPtr(src.GetChar(x)))
		}
	}
	layer.LineAt(bottom).ClearRange(left, right+1)
}

// ScrollDown is ScrollUp's mirror: every cell in the editable window moves
// down by one row and the top row is blanked.
func (b *Buffer) ScrollDown() {
	top, left, bottom, right := b.EditableRegion()
	layer := b.activeLayer()
	for y := bottom; y > top; y-- {
		src := layer.LineAt(y - 1)
		dst := layer.LineAt(y)
		for x := left; x <= right; x++ {
			dst.SetChar(x, cellPtr(src.GetChar(x)))
		}
	}
	layer.LineAt(top).ClearRange(left, right+1)
}

// ScrollLeft moves every cell in the editable window left by one column and
// blanks the column that enters at the right.
func (b *Buffer) ScrollLeft() {
	top, left, bottom, right := b.EditableRegion()
	layer := b.activeLayer()
	for y := top; y <= bottom; y++ {
		line := layer.LineAt(y)
		for x := left; x < right; x++ {
			line.SetChar(x, cellPtr(line.GetChar(x+1)))
		}
		line.SetChar(right, nil)
	}
}

// ScrollRight is ScrollLeft's mirror.
func (b *Buffer) ScrollRight() {
	top, left, bottom, right := b.EditableRegion()
	layer := b.activeLayer()
	for y := top; y <= bottom; y++ {
		line := layer.LineAt(y)
		for x := right; x > left; x-- {
			line.SetChar(x, cellPtr(line.GetChar(x-1)))
		}
		line.SetChar(left, nil)
	}
}

func cellPtr(ch AttributedChar) *AttributedChar {
	if ch == DefaultAttributedChar() {
		return nil
	}
	cp := ch
	return &cp
}

// ClearScreen blanks every cell in the editable window.
func (b *Buffer) ClearScreen() {
	top, left, bottom, right := b.EditableRegion()
	layer := b.activeLayer()
	for y := top; y <= bottom; y++ {
		layer.LineAt(y).ClearRange(left, right+1)
	}
}

// ClearLine blanks the entire row y within the editable window's columns.
func (b *Buffer) ClearLine(y int) {
	_, left, _, right := b.EditableRegion()
	b.activeLayer().LineAt(y).ClearRange(left, right+1)
}

// ClearLineEnd blanks row y from column x to the right margin, inclusive.
func (b *Buffer) ClearLineEnd(y, x int) {
	_, _, _, right := b.EditableRegion()
	b.activeLayer().LineAt(y).ClearRange(x, right+1)
}

// ClearLineStart blanks row y from the left margin through column x,
// inclusive.
func (b *Buffer) ClearLineStart(y, x int) {
	_, left, _, _ := b.EditableRegion()
	b.activeLayer().LineAt(y).ClearRange(left, x+1)
}

// BufferUp blanks every row above row y within the editable window's
// columns.
func (b *Buffer) BufferUp(y int) {
	_, left, _, right := b.EditableRegion()
	layer := b.activeLayer()
	for row := 0; row < y; row++ {
		layer.LineAt(row).ClearRange(left, right+1)
	}
}

// BufferDown blanks every row below row y through the bottom margin.
func (b *Buffer) BufferDown(y int) {
	_, left, bottom, right := b.EditableRegion()
	layer := b.activeLayer()
	for row := y + 1; row <= bottom; row++ {
		layer.LineAt(row).ClearRange(left, right+1)
	}
}

// RemoveTerminalLine removes the row at y, shifting rows below it up by
// one; if a bottom margin is set, a blank row is inserted at the margin's
// end so the editable window keeps its height.
func (b *Buffer) RemoveTerminalLine(y int) {
	layer := b.activeLayer()
	layer.RemoveLine(y)
	if b.State.VerticalMarginsSet {
		layer.InsertLine(b.State.Vertical.Bottom)
	}
}

// InsertTerminalLine inserts a blank row at y, shifting rows at or below it
// down by one; if a bottom margin is set, the row that falls out the bottom
// of the window is dropped.
func (b *Buffer) InsertTerminalLine(y int) {
	layer := b.activeLayer()
	layer.InsertLine(y)
	if b.State.VerticalMarginsSet && b.State.Vertical.Bottom+1 < layer.Height() {
		layer.RemoveLine(b.State.Vertical.Bottom + 1)
	}
}

// PrintChar writes ch at the caret's position honouring insert mode and
// autowrap, then advances the caret by one column.
//
// If the caret is in insert mode, a default cell is first inserted at the
// caret's row/column (shifting that row's tail right; the shifted tail does
// not wrap to the next row). If the caret's column is at or past the
// buffer's width, autowrap performs a line feed; with autowrap off, the
// column is instead decremented by one so the write overwrites the last
// column.
func (b *Buffer) PrintChar(caret *Caret, ch rune) {
	if caret.Insert == InsertModeInsert {
		caret.Ins(b)
	}
	if caret.Pos.X >= b.Width {
		if b.State.AutoWrap == AutoWrapOn {
			caret.LF(b)
		} else {
			caret.Pos.X = b.Width - 1
		}
	}
	cell := AttributedChar{Char: ch, Attr: caret.Attr}
	b.SetChar(0, caret.Pos, &cell)
	caret.Pos.X++
}
