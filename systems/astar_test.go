package systems

import (
	"testing"

	"github.com/pthm-cable/arena/components"
)

func pos(x, y int) components.Position {
	return components.Position{X: x, Y: y}
}

// assertContiguous fails unless path is a chain of 4-adjacent cells starting next to start.
func assertContiguous(t *testing.T, start components.Position, path []components.Position) {
	t.Helper()
	prev := start
	for i, p := range path {
		if !prev.Adjacent(p) {
			t.Fatalf("step %d: %v is not adjacent to %v", i, p, prev)
		}
		prev = p
	}
}

// TestAStarManhattanOnEmptyGrid verifies every path on an open grid is shortest.
func TestAStarManhattanOnEmptyGrid(t *testing.T) {
	const size = 6
	planner := NewAStarPlanner(size)
	grid := NewNavGrid(size)

	for sy := 0; sy < size; sy++ {
		for sx := 0; sx < size; sx++ {
			for gy := 0; gy < size; gy++ {
				for gx := 0; gx < size; gx++ {
					start, goal := pos(sx, sy), pos(gx, gy)
					path := planner.FindPath(start, goal, grid)
					want := start.Manhattan(goal)
					if len(path) != want {
						t.Fatalf("%v -> %v: got %d steps, want %d", start, goal, len(path), want)
					}
					if want > 0 && path[len(path)-1] != goal {
						t.Fatalf("%v -> %v: path ends at %v", start, goal, path[len(path)-1])
					}
					assertContiguous(t, start, path)
				}
			}
		}
	}
}

// TestAStarAroundObstacle verifies A* detours around a partial wall.
func TestAStarAroundObstacle(t *testing.T) {
	grid := NewNavGrid(10)
	// Wall at x=5 from y=0 to y=8, leaving y=9 open.
	for y := 0; y < 9; y++ {
		grid.Block(pos(5, y))
	}

	planner := NewAStarPlanner(10)
	start, goal := pos(2, 2), pos(8, 2)
	path := planner.FindPath(start, goal, grid)
	if path == nil {
		t.Fatal("expected a path around the wall")
	}
	for _, p := range path {
		if grid.IsBlocked(p) {
			t.Errorf("path crosses blocked cell %v", p)
		}
	}
	assertContiguous(t, start, path)

	// Down 7, across 6, up 7.
	if len(path) != 20 {
		t.Errorf("path length = %d, want 20", len(path))
	}
}

// TestAStarNoPath verifies a sealed goal yields no path.
func TestAStarNoPath(t *testing.T) {
	grid := NewNavGrid(8)
	for y := 0; y < 8; y++ {
		grid.Block(pos(4, y))
	}

	planner := NewAStarPlanner(8)
	if path := planner.FindPath(pos(1, 1), pos(6, 6), grid); path != nil {
		t.Errorf("expected no path, got %v", path)
	}
}

func TestAStarEdgeCases(t *testing.T) {
	planner := NewAStarPlanner(5)
	grid := NewNavGrid(5)

	tests := []struct {
		name  string
		start components.Position
		goal  components.Position
	}{
		{"same cell", pos(2, 2), pos(2, 2)},
		{"goal out of bounds", pos(0, 0), pos(5, 0)},
		{"start out of bounds", pos(-1, 0), pos(3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if path := planner.FindPath(tt.start, tt.goal, grid); len(path) != 0 {
				t.Errorf("expected empty path, got %v", path)
			}
		})
	}
}

// TestAStarBlockedGoal verifies the goal must itself be passable.
func TestAStarBlockedGoal(t *testing.T) {
	grid := NewNavGrid(5)
	grid.Block(pos(4, 4))

	planner := NewAStarPlanner(5)
	if path := planner.FindPath(pos(0, 0), pos(4, 4), grid); path != nil {
		t.Errorf("expected no path into a blocked goal, got %v", path)
	}
}

// TestAStarReuse verifies buffers are reset between searches.
func TestAStarReuse(t *testing.T) {
	planner := NewAStarPlanner(6)
	walled := NewNavGrid(6)
	for y := 0; y < 6; y++ {
		walled.Block(pos(3, y))
	}
	open := NewNavGrid(6)

	if path := planner.FindPath(pos(0, 0), pos(5, 0), walled); path != nil {
		t.Fatalf("expected no path, got %v", path)
	}
	path := planner.FindPath(pos(0, 0), pos(5, 0), open)
	if len(path) != 5 {
		t.Errorf("path length after reuse = %d, want 5", len(path))
	}
}
