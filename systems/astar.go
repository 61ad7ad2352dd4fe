package systems

import (
	"container/heap"

	"github.com/pthm-cable/arena/components"
)

// AStarPlanner finds shortest 4-connected paths on a NavGrid.
type AStarPlanner struct {
	size int

	// Reusable data structures (reset between searches)
	openHeap nodeHeap
	closed   []bool
	gScore   []int32 // -1 = unseen
	cameFrom []int32
	seq      int32
}

// astarNode is an open-set entry. Duplicates are allowed; stale ones are
// skipped by the closed-set check when popped.
type astarNode struct {
	id  int32
	g   int32
	f   int32
	seq int32 // insertion order, breaks f ties
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(astarNode))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	*h = old[:n-1]
	return node
}

// NewAStarPlanner creates a planner for a size x size grid.
func NewAStarPlanner(size int) *AStarPlanner {
	a := &AStarPlanner{}
	a.ensure(size)
	return a
}

func (a *AStarPlanner) ensure(size int) {
	if a.size == size && a.closed != nil {
		return
	}
	area := size * size
	a.size = size
	a.closed = make([]bool, area)
	a.gScore = make([]int32, area)
	a.cameFrom = make([]int32, area)
	a.openHeap = make(nodeHeap, 0, 64)
}

// FindPath returns the cells from start (exclusive) to goal (inclusive) along a
// shortest path avoiding blocked cells. It returns nil when start == goal or no path exists.
// The start cell itself is never checked against the blocked grid.
func (a *AStarPlanner) FindPath(start, goal components.Position, blocked *NavGrid) []components.Position {
	a.ensure(blocked.Size())

	if start == goal || !blocked.InBounds(start) || !blocked.InBounds(goal) {
		return nil
	}

	// Clear reusable data structures
	a.openHeap = a.openHeap[:0]
	clear(a.closed)
	for i := range a.gScore {
		a.gScore[i] = -1
	}
	a.seq = 0

	startID := int32(blocked.index(start))
	goalID := int32(blocked.index(goal))

	a.gScore[startID] = 0
	a.push(startID, 0, int32(start.Manhattan(goal)))

	for a.openHeap.Len() > 0 {
		current := heap.Pop(&a.openHeap).(astarNode)
		if a.closed[current.id] {
			continue
		}
		a.closed[current.id] = true

		if current.id == goalID {
			return a.reconstructPath(blocked, startID, goalID)
		}

		pos := blocked.position(int(current.id))
		for _, d := range components.Directions {
			next := pos.Add(d)
			if blocked.IsBlocked(next) {
				continue
			}
			nextID := int32(blocked.index(next))
			if a.closed[nextID] {
				continue
			}

			tentativeG := current.g + 1
			if existing := a.gScore[nextID]; existing >= 0 && tentativeG >= existing {
				continue
			}

			a.cameFrom[nextID] = current.id
			a.gScore[nextID] = tentativeG
			a.push(nextID, tentativeG, tentativeG+int32(next.Manhattan(goal)))
		}
	}

	// No path found
	return nil
}

func (a *AStarPlanner) push(id, g, f int32) {
	heap.Push(&a.openHeap, astarNode{id: id, g: g, f: f, seq: a.seq})
	a.seq++
}

// reconstructPath walks cameFrom back from the goal.
func (a *AStarPlanner) reconstructPath(grid *NavGrid, startID, goalID int32) []components.Position {
	length := int(a.gScore[goalID])
	path := make([]components.Position, length)
	current := goalID
	for i := length - 1; i >= 0; i-- {
		path[i] = grid.position(int(current))
		current = a.cameFrom[current]
	}
	return path
}
