package artengine

import "sort"

// ScrollMode is DEC private mode 4's two settings.
type ScrollMode int

const (
	// ScrollModeSmooth paces scrolling (a no-op at this layer; carried only
	// so hosts with real timing can honour it).
	ScrollModeSmooth ScrollMode = iota
	// ScrollModeFast scrolls immediately.
	ScrollModeFast
)

// AutoWrapMode is DEC private mode 7's two settings.
type AutoWrapMode int

const (
	// AutoWrapOn wraps to the next line when a print would overflow the
	// right margin.
	AutoWrapOn AutoWrapMode = iota
	// AutoWrapOff overwrites the last column instead of wrapping.
	AutoWrapOff
)

// VerticalMargins is an inclusive top/bottom row range (0-based).
type VerticalMargins struct {
	Top    int
	Bottom int
}

// HorizontalMargins is an inclusive left/right column range (0-based).
type HorizontalMargins struct {
	Left  int
	Right int
}

// baudTable maps the baud-rate selector index used by the "select baud
// rate" CSI command to its bits-per-second value. Exhaustive per the engine
// contract; index 12+ is unassigned.
var baudTable = [12]uint32{
	0, 300, 600, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 76800, 115200,
}

// BaudRateFromIndex looks up the bps value for a baud-table index. ok is
// false for an out-of-range index.
func BaudRateFromIndex(i int) (rate uint32, ok bool) {
	if i < 0 || i >= len(baudTable) {
		return 0, false
	}
	return baudTable[i], true
}

// TerminalState holds the parser-visible terminal configuration that lives
// alongside a Buffer: margins, scroll/wrap modes, baud, tab stops, and the
// single saved-cursor slot used by DECSC/DECRC.
type TerminalState struct {
	ScrollMode        ScrollMode
	AutoWrap          AutoWrapMode
	VerticalMarginsSet   bool
	Vertical          VerticalMargins
	HorizontalMarginsSet bool
	Horizontal        HorizontalMargins
	LeftRightMarginMode bool
	BaudRate          uint32
	tabStops          []int // sorted, 1-based columns
	SavedCursorSet    bool
	SavedCursor       Caret
}

// NewTerminalState returns a TerminalState with no margins set, autowrap on,
// fast scrolling, baud 0, and default tab stops every 8th column starting at
// column 1, out to width.
func NewTerminalState(width int) *TerminalState {
	s := &TerminalState{ScrollMode: ScrollModeFast, AutoWrap: AutoWrapOn}
	s.ResetTabStops(width)
	return s
}

// ResetTabStops restores the default tab stops: 1-based columns 1, 9, 17...
// up to width.
func (s *TerminalState) ResetTabStops(width int) {
	s.tabStops = s.tabStops[:0]
	for col := 1; col <= width; col += 8 {
		s.tabStops = append(s.tabStops, col)
	}
}

// ClearTabStop removes the tab stop at the given 1-based column, if any.
func (s *TerminalState) ClearTabStop(col int) {
	out := s.tabStops[:0]
	for _, c := range s.tabStops {
		if c != col {
			out = append(out, c)
		}
	}
	s.tabStops = out
}

// ClearAllTabStops removes every tab stop.
func (s *TerminalState) ClearAllTabStops() {
	s.tabStops = s.tabStops[:0]
}

// SetTabStop adds a tab stop at the given 1-based column if not already
// present, keeping the set sorted.
func (s *TerminalState) SetTabStop(col int) {
	i := sort.SearchInts(s.tabStops, col)
	if i < len(s.tabStops) && s.tabStops[i] == col {
		return
	}
	s.tabStops = append(s.tabStops, 0)
	copy(s.tabStops[i+1:], s.tabStops[i:])
	s.tabStops[i] = col
}

// NextTabStop returns the next tab stop strictly after the given 0-based
// column, as a 0-based column, and whether one exists.
func (s *TerminalState) NextTabStop(col0 int) (next int, ok bool) {
	col1 := col0 + 1 // 1-based, "strictly after"
	i := sort.SearchInts(s.tabStops, col1+1)
	if i >= len(s.tabStops) {
		return 0, false
	}
	return s.tabStops[i] - 1, true
}

// PrevTabStop returns the previous tab stop strictly before the given
// 0-based column, as a 0-based column, and whether one exists.
func (s *TerminalState) PrevTabStop(col0 int) (prev int, ok bool) {
	col1 := col0 + 1
	i := sort.SearchInts(s.tabStops, col1)
	if i == 0 {
		return 0, false
	}
	return s.tabStops[i-1] - 1, true
}

// TabStops returns a copy of the current sorted tab-stop columns (1-based),
// the format DECRQPSR reports.
func (s *TerminalState) TabStops() []int {
	out := make([]int, len(s.tabStops))
	copy(out, s.tabStops)
	return out
}
