package systems

import (
	"math/rand"
	"slices"

	"github.com/pthm-cable/arena/components"
)

// TickResult is what one agent tick hands back to the environment.
type TickResult struct {
	Body     []components.Position // copy of the body after the tick
	Score    int
	Alive    bool
	Decision Decision
	Events   []Event
}

// Controller runs perceive, decide, act and collision resolution for one agent per call.
type Controller struct {
	policy *DecisionPolicy
	coord  *CoordinationChannel
	rng    *rand.Rand
}

// NewController wires a decision policy and coordination channel around a shared
// danger set. rng is owned by the caller and must not be shared across goroutines.
func NewController(size int, decision DecisionParams, risk RiskParams, coord CoordinationParams, dangers *DangerSet, rng *rand.Rand) *Controller {
	channel := NewCoordinationChannel(coord, dangers)
	return &Controller{
		policy: NewDecisionPolicy(size, decision, risk, channel),
		coord:  channel,
		rng:    rng,
	}
}

// Policy returns the decision policy.
func (c *Controller) Policy() *DecisionPolicy {
	return c.policy
}

// Coordination returns the coordination channel.
func (c *Controller) Coordination() *CoordinationChannel {
	return c.coord
}

// Tick advances a by one step against v. A dead agent is left untouched.
// Food is never removed here; the environment reacts to EventAte.
func (c *Controller) Tick(a *components.Agent, v View) TickResult {
	if !a.Alive {
		return TickResult{Body: slices.Clone(a.Body), Score: a.Score, Alive: false}
	}

	var events []Event

	// Perceive
	a.LastPerception = Perceive(a.Head(), a.SensingRange, v.Food, v.Agents, a, v.Obstacles, c.coord.Dangers().Positions())
	if pos, ok := c.coord.Broadcast(a, v.Tick); ok {
		events = append(events, NewBroadcastEvent(a.ID, pos))
	}

	// Decide
	decision := c.policy.Decide(a, v, c.rng)
	a.Direction = decision.Direction

	// Act
	next := a.Head().Add(decision.Direction).Clamp(v.GridSize)
	if collides(a, next, v) {
		a.Alive = false
		events = append(events, NewDiedEvent(a.ID, a.Head()))
		return TickResult{Body: slices.Clone(a.Body), Score: a.Score, Alive: false, Decision: decision, Events: events}
	}

	a.Body = slices.Insert(a.Body, 0, next)
	if food, ok := foodAt(v.Food, next); ok {
		a.Score = food.Type.ApplyScore(a.Score)
		events = append(events, NewAteEvent(a.ID, next, food.Type))
	} else {
		a.Body = a.Body[:len(a.Body)-1]
	}
	a.Memory.Push(next)

	return TickResult{Body: slices.Clone(a.Body), Score: a.Score, Alive: true, Decision: decision, Events: events}
}

// collides reports whether entering next kills a: its own body (tail included),
// an obstacle, or any other agent's body.
func collides(a *components.Agent, next components.Position, v View) bool {
	if a.Occupies(next) {
		return true
	}
	if slices.Contains(v.Obstacles, next) {
		return true
	}
	for _, other := range v.Agents {
		if other != a && other.Occupies(next) {
			return true
		}
	}
	return false
}

func foodAt(food []components.Food, p components.Position) (components.Food, bool) {
	for _, f := range food {
		if f.Pos == p {
			return f, true
		}
	}
	return components.Food{}, false
}
