package systems

import "github.com/pthm-cable/arena/components"

// NavGrid stores a square blocked-cell grid for planning.
// Cells are indexed y*size+x; true = blocked.
type NavGrid struct {
	cells []bool
	size  int
}

// NewNavGrid creates an all-open grid of size x size cells.
func NewNavGrid(size int) *NavGrid {
	return &NavGrid{
		cells: make([]bool, size*size),
		size:  size,
	}
}

// Size returns the grid side length.
func (g *NavGrid) Size() int {
	return g.size
}

// Area returns the number of cells.
func (g *NavGrid) Area() int {
	return g.size * g.size
}

// Reset opens every cell.
func (g *NavGrid) Reset() {
	clear(g.cells)
}

// Block marks p as blocked. Positions outside the grid are ignored.
func (g *NavGrid) Block(p components.Position) {
	if p.InBounds(g.size) {
		g.cells[g.index(p)] = true
	}
}

// BlockAll marks every position in ps as blocked.
func (g *NavGrid) BlockAll(ps []components.Position) {
	for _, p := range ps {
		g.Block(p)
	}
}

// Unblock opens p.
func (g *NavGrid) Unblock(p components.Position) {
	if p.InBounds(g.size) {
		g.cells[g.index(p)] = false
	}
}

// IsBlocked returns true if p is blocked. Out of bounds is blocked.
func (g *NavGrid) IsBlocked(p components.Position) bool {
	if !p.InBounds(g.size) {
		return true
	}
	return g.cells[g.index(p)]
}

// InBounds reports whether p lies on the grid.
func (g *NavGrid) InBounds(p components.Position) bool {
	return p.InBounds(g.size)
}

func (g *NavGrid) index(p components.Position) int {
	return p.Y*g.size + p.X
}

func (g *NavGrid) position(id int) components.Position {
	return components.Position{X: id % g.size, Y: id / g.size}
}
