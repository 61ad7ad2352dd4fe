// Package telemetry records arena events, windowed statistics and final results.
package telemetry

import (
	"strconv"

	"github.com/pthm-cable/arena/components"
)

// Event kinds.
const (
	KindAgent    = "agent"
	KindFood     = "food"
	KindObstacle = "obstacle"
	KindLevel    = "level"
)

// Event actions.
const (
	ActionAte       = "ate"
	ActionDied      = "died"
	ActionBroadcast = "broadcastDanger"
	ActionSpawn     = "spawn"
	ActionExpire    = "expire"
	ActionPerturb   = "perturb"
	ActionMove      = "move"
	ActionUp        = "up"
)

// NoAgent marks events not caused by an agent.
const NoAgent = -1

// EventRecord is one row of the run's event log.
type EventRecord struct {
	Step   int64  `csv:"step" db:"step"`
	Kind   string `csv:"kind" db:"kind"`
	Action string `csv:"action" db:"action"`
	Agent  int    `csv:"agent" db:"agent"`
	X      int    `csv:"x" db:"x"`
	Y      int    `csv:"y" db:"y"`
	Extra  string `csv:"extra" db:"extra"`
}

// Pos returns the cell the event happened on.
func (e EventRecord) Pos() components.Position {
	return components.Position{X: e.X, Y: e.Y}
}

func newRecord(step int64, kind, action string, agent int, pos components.Position, extra string) EventRecord {
	return EventRecord{Step: step, Kind: kind, Action: action, Agent: agent, X: pos.X, Y: pos.Y, Extra: extra}
}

// NewAteEvent records an agent eating food of type t.
func NewAteEvent(step int64, agentID int, pos components.Position, t components.FoodType) EventRecord {
	return newRecord(step, KindAgent, ActionAte, agentID, pos, t.String())
}

// NewDiedEvent records an agent death at its head.
func NewDiedEvent(step int64, agentID int, pos components.Position) EventRecord {
	return newRecord(step, KindAgent, ActionDied, agentID, pos, "")
}

// NewBroadcastEvent records a danger broadcast.
func NewBroadcastEvent(step int64, agentID int, pos components.Position) EventRecord {
	return newRecord(step, KindAgent, ActionBroadcast, agentID, pos, "")
}

// NewFoodEvent records a spawn or expiry of food.
func NewFoodEvent(step int64, action string, pos components.Position, t components.FoodType) EventRecord {
	return newRecord(step, KindFood, action, NoAgent, pos, t.String())
}

// NewPerturbEvent records the butterfly nudge of food from one cell to another.
// extra holds the origin, as for obstacle moves.
func NewPerturbEvent(step int64, from, to components.Position) EventRecord {
	return newRecord(step, KindFood, ActionPerturb, NoAgent, to, from.String())
}

// NewObstacleEvent records an obstacle spawn or move. extra holds the previous cell for moves.
func NewObstacleEvent(step int64, action string, pos components.Position, extra string) EventRecord {
	return newRecord(step, KindObstacle, action, NoAgent, pos, extra)
}

// NewLevelEvent records the arena reaching level. The position is unused.
func NewLevelEvent(step int64, level int) EventRecord {
	return EventRecord{Step: step, Kind: KindLevel, Action: ActionUp, Agent: NoAgent, Extra: strconv.Itoa(level)}
}
