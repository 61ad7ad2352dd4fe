package systems

import "github.com/pthm-cable/arena/components"

// EventType identifies agent events emitted by a tick.
type EventType uint8

const (
	EventAte EventType = iota
	EventDied
	EventBroadcastDanger
)

// String returns the display name for an EventType.
func (t EventType) String() string {
	switch t {
	case EventAte:
		return "ate"
	case EventDied:
		return "died"
	case EventBroadcastDanger:
		return "broadcastDanger"
	}
	return "unknown"
}

// Event is an outbound notification from the controller to the environment.
type Event struct {
	Type     EventType
	AgentID  int
	Pos      components.Position
	FoodType components.FoodType // only for EventAte
}

// NewAteEvent creates an ate event.
func NewAteEvent(agentID int, pos components.Position, t components.FoodType) Event {
	return Event{Type: EventAte, AgentID: agentID, Pos: pos, FoodType: t}
}

// NewDiedEvent creates a death event at the head the agent died on.
func NewDiedEvent(agentID int, pos components.Position) Event {
	return Event{Type: EventDied, AgentID: agentID, Pos: pos}
}

// NewBroadcastEvent creates a danger broadcast event.
func NewBroadcastEvent(agentID int, pos components.Position) Event {
	return Event{Type: EventBroadcastDanger, AgentID: agentID, Pos: pos}
}
