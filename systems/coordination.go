package systems

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/arena/components"
)

// DangerSet is the shared set of broadcast danger cells.
// It is not safe for concurrent use; writes happen inside the sequential tick.
type DangerSet struct {
	cells map[components.Position]int64 // cell -> tick of the latest broadcast
}

// NewDangerSet creates an empty set.
func NewDangerSet() *DangerSet {
	return &DangerSet{cells: make(map[components.Position]int64)}
}

// Add records a broadcast of p at tick.
func (d *DangerSet) Add(p components.Position, tick int64) {
	d.cells[p] = tick
}

// Contains reports whether p has been broadcast. A nil set contains nothing.
func (d *DangerSet) Contains(p components.Position) bool {
	if d == nil {
		return false
	}
	_, ok := d.cells[p]
	return ok
}

// Len returns the number of danger cells.
func (d *DangerSet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.cells)
}

// Positions returns the danger cells sorted by row then column.
func (d *DangerSet) Positions() []components.Position {
	if d == nil {
		return nil
	}
	out := make([]components.Position, 0, len(d.cells))
	for p := range d.cells {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b components.Position) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}

// Expire drops cells last broadcast more than ttl ticks before now and returns them.
// A ttl <= 0 keeps everything.
func (d *DangerSet) Expire(now int64, ttl int64) []components.Position {
	if d == nil || ttl <= 0 {
		return nil
	}
	var dropped []components.Position
	for p, t := range d.cells {
		if now-t > ttl {
			dropped = append(dropped, p)
		}
	}
	for _, p := range dropped {
		delete(d.cells, p)
	}
	return dropped
}

// Clear empties the set.
func (d *DangerSet) Clear() {
	clear(d.cells)
}

// CoordinationChannel carries cooperative target sharing and danger broadcasts.
type CoordinationChannel struct {
	params  CoordinationParams
	dangers *DangerSet
}

// NewCoordinationChannel creates a channel writing broadcasts into dangers.
func NewCoordinationChannel(params CoordinationParams, dangers *DangerSet) *CoordinationChannel {
	return &CoordinationChannel{params: params, dangers: dangers}
}

// Dangers returns the shared danger set.
func (c *CoordinationChannel) Dangers() *DangerSet {
	return c.dangers
}

// ContestedTargets returns the food cells in the last perception of every other
// live cooperative agent. Non-cooperative agents see no contested targets.
func (c *CoordinationChannel) ContestedTargets(self *components.Agent, agents []*components.Agent) map[components.Position]struct{} {
	if !self.Cooperative {
		return nil
	}
	targets := make(map[components.Position]struct{})
	for _, peer := range agents {
		if peer == self || !peer.Alive || !peer.Cooperative {
			continue
		}
		for _, f := range peer.LastPerception.Food {
			targets[f.Pos] = struct{}{}
		}
	}
	return targets
}

// Broadcast adds the agent's head to the shared danger set when its last perception
// holds more hostile segments than the threshold. It reports whether it broadcast.
func (c *CoordinationChannel) Broadcast(a *components.Agent, tick int64) (components.Position, bool) {
	if len(a.LastPerception.Hostiles) <= c.params.DangerThreshold {
		return components.Position{}, false
	}
	head := a.Head()
	c.dangers.Add(head, tick)
	return head, true
}
