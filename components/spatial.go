package components

import (
	"fmt"
	"strings"
)

// Position is a cell on the square grid. 0 <= X,Y < grid size.
type Position struct {
	X, Y int
}

// String formats the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the cell one step away in direction d. The result may lie outside the grid.
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns |dx| + |dy| between two cells.
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// WithinBox reports whether q lies inside the square window of half-width r centred on p.
func (p Position) WithinBox(q Position, r int) bool {
	return abs(p.X-q.X) <= r && abs(p.Y-q.Y) <= r
}

// InBounds reports whether the position lies inside a size x size grid.
func (p Position) InBounds(size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

// Clamp pulls the position back inside a size x size grid.
func (p Position) Clamp(size int) Position {
	return Position{X: clamp(p.X, 0, size-1), Y: clamp(p.Y, 0, size-1)}
}

// Adjacent reports whether q is exactly one orthogonal step from p.
func (p Position) Adjacent(q Position) bool {
	return p.Manhattan(q) == 1
}

// Direction is one of the four orthogonal headings.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the headings in the stable order used for neighbour expansion
// and tie-breaking.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta returns the unit step for the direction. Y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// String returns the display name for a Direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return "UNKNOWN"
}

// ParseDirection accepts "up", "down", "left", "right" in any case.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Left, false
}

// DirectionBetween returns the heading that moves from one cell to an adjacent one.
// ok is false when the cells are not orthogonal neighbours.
func DirectionBetween(from, to Position) (d Direction, ok bool) {
	switch {
	case to.X-from.X == 1 && to.Y == from.Y:
		return Right, true
	case to.X-from.X == -1 && to.Y == from.Y:
		return Left, true
	case to.Y-from.Y == 1 && to.X == from.X:
		return Down, true
	case to.Y-from.Y == -1 && to.X == from.X:
		return Up, true
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
