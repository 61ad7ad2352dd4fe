package systems

import "github.com/pthm-cable/arena/components"

// DefaultFloodFillLimit caps reachability counts when no limit is configured.
const DefaultFloodFillLimit = 400

// FloodFill estimates open space by bounded breadth-first expansion.
type FloodFill struct {
	size    int
	visited []bool
	queue   []int32
}

// NewFloodFill creates an estimator for a size x size grid.
func NewFloodFill(size int) *FloodFill {
	f := &FloodFill{}
	f.ensure(size)
	return f
}

func (f *FloodFill) ensure(size int) {
	if f.size == size && f.visited != nil {
		return
	}
	f.size = size
	f.visited = make([]bool, size*size)
	f.queue = make([]int32, 0, 64)
}

// Count returns how many cells are reachable from start, start included, stopping
// as soon as limit distinct cells have been recorded. The start cell is counted
// even when blocked; a start outside the grid or a non-positive limit yields 0.
func (f *FloodFill) Count(start components.Position, blocked *NavGrid, limit int) int {
	f.ensure(blocked.Size())

	if limit <= 0 || !blocked.InBounds(start) {
		return 0
	}

	clear(f.visited)
	f.queue = f.queue[:0]

	startID := int32(blocked.index(start))
	f.visited[startID] = true
	f.queue = append(f.queue, startID)
	seen := 1

	for head := 0; head < len(f.queue) && seen < limit; head++ {
		pos := blocked.position(int(f.queue[head]))
		for _, d := range components.Directions {
			next := pos.Add(d)
			if blocked.IsBlocked(next) {
				continue
			}
			id := int32(blocked.index(next))
			if f.visited[id] {
				continue
			}
			f.visited[id] = true
			f.queue = append(f.queue, id)
			seen++
			if seen >= limit {
				break
			}
		}
	}

	return seen
}
