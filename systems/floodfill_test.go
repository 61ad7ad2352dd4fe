package systems

import "testing"

func TestFloodFillCount(t *testing.T) {
	walled := NewNavGrid(5)
	for y := 0; y < 5; y++ {
		walled.Block(pos(2, y))
	}
	sealed := NewNavGrid(3)
	for id := range sealed.Area() {
		sealed.Block(sealed.position(id))
	}

	tests := []struct {
		name  string
		grid  *NavGrid
		start [2]int
		limit int
		want  int
	}{
		{"open grid", NewNavGrid(5), [2]int{0, 0}, 400, 25},
		{"limit caps count", NewNavGrid(5), [2]int{2, 2}, 10, 10},
		{"limit of one", NewNavGrid(5), [2]int{2, 2}, 1, 1},
		{"zero limit", NewNavGrid(5), [2]int{2, 2}, 0, 0},
		{"walled half", walled, [2]int{0, 0}, 400, 10},
		{"blocked start counts itself", sealed, [2]int{1, 1}, 400, 1},
		{"start out of bounds", NewNavGrid(5), [2]int{-1, 0}, 400, 0},
	}

	fill := NewFloodFill(5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fill.Count(pos(tt.start[0], tt.start[1]), tt.grid, tt.limit)
			if got != tt.want {
				t.Errorf("Count = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestFloodFillNeverExceedsLimit verifies the cap holds for every limit on an open grid.
func TestFloodFillNeverExceedsLimit(t *testing.T) {
	grid := NewNavGrid(7)
	fill := NewFloodFill(7)
	for limit := 1; limit <= 60; limit++ {
		got := fill.Count(pos(3, 3), grid, limit)
		want := min(limit, 49)
		if got != want {
			t.Fatalf("limit %d: Count = %d, want %d", limit, got, want)
		}
	}
}
