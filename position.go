package artengine

import "fmt"

// Position is an integer grid coordinate. Ordering is row-major: y is
// compared before x, matching the order cells are visited when scanning a
// buffer top-to-bottom, left-to-right.
type Position struct {
	X int
	Y int
}

// NewPosition returns a Position at (x, y).
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Before reports whether p comes strictly before other in row-major order.
func (p Position) Before(other Position) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// Equal reports whether p and other refer to the same coordinate.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// PositionFromIndex converts a row-major linear index into a Position for a
// grid of the given width. index = y*width + x.
func PositionFromIndex(width, index int) Position {
	if width <= 0 {
		return Position{}
	}
	return Position{X: index % width, Y: index / width}
}

// Index converts p back into a row-major linear index for a grid of the
// given width.
func (p Position) Index(width int) int {
	return p.Y*width + p.X
}

// Add returns the component-wise sum of p and other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}
