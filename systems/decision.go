package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/arena/components"
)

// PlanState is the planning state an agent ends a decision in.
type PlanState uint8

const (
	StateFollowingPlan PlanState = iota
	StateReplanning
)

// String returns the display name for a PlanState.
func (s PlanState) String() string {
	if s == StateFollowingPlan {
		return "following_plan"
	}
	return "replanning"
}

// View is the world state handed to one agent's tick by the environment.
type View struct {
	GridSize  int
	Food      []components.Food
	Obstacles []components.Position
	Agents    []*components.Agent // every registered agent, the acting one included
	Tick      int64
}

// Others returns every agent in the view except self.
func (v View) Others(self *components.Agent) []*components.Agent {
	others := make([]*components.Agent, 0, len(v.Agents))
	for _, a := range v.Agents {
		if a != self {
			others = append(others, a)
		}
	}
	return others
}

// Decision is the outcome of one DecisionPolicy call.
type Decision struct {
	Direction components.Direction
	State     PlanState
	Target    components.Position // food cell being pursued, valid when HasTarget
	HasTarget bool
	Trapped   bool // no safe move existed; the current heading was kept
}

// DecisionPolicy picks one move per tick by maximising utility over reachable
// food, falling back to open-space seeking. It keeps the remainder of the chosen
// path in Agent.PlannedPath and walks it on later ticks while it stays clear.
type DecisionPolicy struct {
	params  DecisionParams
	risk    RiskModel
	coord   *CoordinationChannel
	planner *AStarPlanner
	fill    *FloodFill

	// Rebuilt every decision.
	blocked *NavGrid // obstacles + own memory + other bodies: planning
	unsafe  *NavGrid // obstacles + own body + other bodies: immediate moves
}

// NewDecisionPolicy creates a policy for a size x size grid.
func NewDecisionPolicy(size int, params DecisionParams, risk RiskParams, coord *CoordinationChannel) *DecisionPolicy {
	if params.FloodFillLimit <= 0 {
		params.FloodFillLimit = DefaultFloodFillLimit
	}
	return &DecisionPolicy{
		params:  params,
		risk:    NewRiskModel(risk),
		coord:   coord,
		planner: NewAStarPlanner(size),
		fill:    NewFloodFill(size),
		blocked: NewNavGrid(size),
		unsafe:  NewNavGrid(size),
	}
}

// Risk returns the policy's risk model.
func (p *DecisionPolicy) Risk() RiskModel {
	return p.risk
}

// Decide returns this tick's heading for a. It reads a.LastPerception, so the
// agent must have perceived first. rng supplies tie-break jitter; nil disables it.
func (p *DecisionPolicy) Decide(a *components.Agent, v View, rng *rand.Rand) Decision {
	head := a.Head()
	others := v.Others(a)
	p.buildGrids(a, v, others)

	// Walk the cached plan while its next step is adjacent and clear.
	if len(a.PlannedPath) > 0 {
		next := a.PlannedPath[0]
		if head.Adjacent(next) && !p.blocked.IsBlocked(next) {
			a.PlannedPath = a.PlannedPath[1:]
			dir, _ := components.DirectionBetween(head, next)
			target := next
			if n := len(a.PlannedPath); n > 0 {
				target = a.PlannedPath[n-1]
			}
			return Decision{Direction: dir, State: StateFollowingPlan, Target: target, HasTarget: true}
		}
		a.PlannedPath = nil
	}

	food := a.LastPerception.Food
	if len(food) == 0 {
		return p.mostSpaciousMove(a)
	}

	if d, ok := p.bestFood(a, v, others, rng); ok {
		return d
	}
	return p.safestMove(a, v, others, rng)
}

// buildGrids fills the planning and immediate-move grids for this decision.
func (p *DecisionPolicy) buildGrids(a *components.Agent, v View, others []*components.Agent) {
	if p.blocked.Size() != v.GridSize {
		p.blocked = NewNavGrid(v.GridSize)
		p.unsafe = NewNavGrid(v.GridSize)
	}
	p.blocked.Reset()
	p.unsafe.Reset()

	p.blocked.BlockAll(v.Obstacles)
	p.unsafe.BlockAll(v.Obstacles)
	for _, o := range others {
		p.blocked.BlockAll(o.Body)
		p.unsafe.BlockAll(o.Body)
	}
	// Memory approximates the agent's own trail; the live body is only checked
	// for the immediate move.
	p.blocked.BlockAll(a.Memory.Cells())
	p.unsafe.BlockAll(a.Body)
}

// contestedPenalty is the utility change for food a cooperative peer can also see.
// It scales with the cooperation weight, so a weight of 0 ignores contention.
func contestedPenalty(params DecisionParams, pers components.Personality) float64 {
	return -params.CooperationPenalty * pers.Cooperation
}

// bestFood plans to every visible food and picks the highest utility target.
func (p *DecisionPolicy) bestFood(a *components.Agent, v View, others []*components.Agent, rng *rand.Rand) (Decision, bool) {
	head := a.Head()
	pers := a.Personality
	area := p.blocked.Area()
	contested := p.coord.ContestedTargets(a, v.Agents)

	var bestPath []components.Position
	var bestTarget components.Position
	bestUtility := math.Inf(-1)

	for _, f := range a.LastPerception.Food {
		path := p.planner.FindPath(head, f.Pos, p.blocked)
		if len(path) == 0 {
			continue
		}
		next := path[0]
		risk := p.risk.Score(next, v.Obstacles, others, p.coord.Dangers())
		space := p.fill.Count(next, p.blocked, p.params.FloodFillLimit)

		penalty := 0.0
		if _, ok := contested[f.Pos]; ok {
			penalty = contestedPenalty(p.params, pers)
		}

		u := foodUtility(pers, f.Type.Value(), len(path), risk, space, area, penalty) + p.jitter(rng)
		if u > bestUtility {
			bestUtility = u
			bestPath = path
			bestTarget = f.Pos
		}
	}

	if bestPath == nil {
		return Decision{}, false
	}

	a.PlannedPath = bestPath[1:]
	dir, _ := components.DirectionBetween(head, bestPath[0])
	return Decision{Direction: dir, State: StateReplanning, Target: bestTarget, HasTarget: true}, true
}

// foodUtility scores pursuing a food item of the given value along a path of
// distance steps whose first cell has the given risk and open space.
func foodUtility(pers components.Personality, value float64, distance int, risk float64, space, area int, penalty float64) float64 {
	closeness := 1 / (1 + float64(distance))
	return pers.Hunger*value*closeness +
		pers.Curiosity*(float64(space)/float64(area)) -
		pers.Fear*risk +
		pers.Aggression*closeness +
		penalty
}

type move struct {
	dir  components.Direction
	cell components.Position
}

// safeMoves lists in-bounds neighbours of the head free of obstacles and bodies.
func (p *DecisionPolicy) safeMoves(head components.Position) []move {
	moves := make([]move, 0, 4)
	for _, d := range components.Directions {
		next := head.Add(d)
		if !p.unsafe.IsBlocked(next) {
			moves = append(moves, move{dir: d, cell: next})
		}
	}
	return moves
}

// mostSpaciousMove picks the safe move with the largest reachable area.
func (p *DecisionPolicy) mostSpaciousMove(a *components.Agent) Decision {
	moves := p.safeMoves(a.Head())
	if len(moves) == 0 {
		return Decision{Direction: a.Direction, State: StateReplanning, Trapped: true}
	}
	best := moves[0].dir
	bestSpace := -1
	for _, m := range moves {
		space := p.fill.Count(m.cell, p.blocked, p.params.FloodFillLimit)
		if space > bestSpace {
			bestSpace = space
			best = m.dir
		}
	}
	return Decision{Direction: best, State: StateReplanning}
}

// safestMove trades open space against risk when no food is reachable.
func (p *DecisionPolicy) safestMove(a *components.Agent, v View, others []*components.Agent, rng *rand.Rand) Decision {
	moves := p.safeMoves(a.Head())
	if len(moves) == 0 {
		return Decision{Direction: a.Direction, State: StateReplanning, Trapped: true}
	}
	pers := a.Personality
	best := moves[0].dir
	bestValue := math.Inf(-1)
	for _, m := range moves {
		space := p.fill.Count(m.cell, p.blocked, p.params.FloodFillLimit)
		risk := p.risk.Score(m.cell, v.Obstacles, others, p.coord.Dangers())
		value := pers.Curiosity*float64(space) - pers.Fear*risk + p.jitter(rng)
		if value > bestValue {
			bestValue = value
			best = m.dir
		}
	}
	return Decision{Direction: best, State: StateReplanning}
}

func (p *DecisionPolicy) jitter(rng *rand.Rand) float64 {
	if rng == nil || p.params.Jitter == 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * p.params.Jitter
}
