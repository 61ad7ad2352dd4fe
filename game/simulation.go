package game

import (
	"log/slog"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

// Step advances the arena by one tick. It returns false once the run is over.
//
// Order within a tick: butterfly perturbation, sensing growth, one controller
// call per live agent in registration order (eaten food disappears before the
// next agent acts), food top-up, obstacle drift, bonus aging, danger expiry,
// level check.
func (s *Simulation) Step() bool {
	if s.Done() {
		return false
	}

	s.perfCollector.StartTick()
	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseAgents)
	s.perturb()
	s.growSensing()
	s.updateAgents()

	s.perfCollector.StartPhase(telemetry.PhaseFood)
	s.topUpFood()
	s.ageBonusFood()

	s.perfCollector.StartPhase(telemetry.PhaseObstacles)
	s.driftObstacles()

	s.perfCollector.StartPhase(telemetry.PhaseUpkeep)
	s.expireDangers()
	s.checkLevel()
	s.perfCollector.EndTick()

	s.flushTelemetry()

	return !s.Done()
}

// Run steps until the run is over and returns the number of ticks executed.
func (s *Simulation) Run() int64 {
	start := s.tick
	for s.Step() {
	}
	return s.tick - start
}

// view snapshots the arena for one agent's tick.
func (s *Simulation) view(obstacles []components.Position) systems.View {
	return systems.View{
		GridSize:  s.world.Size(),
		Food:      s.world.Food(),
		Obstacles: obstacles,
		Agents:    s.agents,
		Tick:      s.tick,
	}
}

func (s *Simulation) updateAgents() {
	obstacles := s.world.Obstacles()
	for _, a := range s.agents {
		if !a.Alive {
			continue
		}
		s.perfCollector.AddAgentCalls(1)
		res := s.controller.Tick(a, s.view(obstacles))
		for _, e := range res.Events {
			s.handleEvent(e)
		}
		s.lifetime.UpdateGrowth(a.ID, len(res.Body), res.Score)
	}
}

func (s *Simulation) handleEvent(e systems.Event) {
	switch e.Type {
	case systems.EventAte:
		s.world.RemoveFoodAt(e.Pos)
		s.lifetime.RecordMeal(e.AgentID, e.FoodType)
		s.record(telemetry.NewAteEvent(s.tick, e.AgentID, e.Pos, e.FoodType))
	case systems.EventDied:
		s.lifetime.RecordDeath(e.AgentID, s.tick)
		s.record(telemetry.NewDiedEvent(s.tick, e.AgentID, e.Pos))
		slog.Debug("agent died", "agent", e.AgentID, "tick", s.tick, "pos", e.Pos.String())
	case systems.EventBroadcastDanger:
		s.lifetime.RecordBroadcast(e.AgentID)
		s.record(telemetry.NewBroadcastEvent(s.tick, e.AgentID, e.Pos))
	}
}

// occupied reports whether p holds food, an obstacle or any agent segment.
func (s *Simulation) occupied(p components.Position) bool {
	if s.world.HasFoodAt(p) || s.world.HasObstacleAt(p) {
		return true
	}
	for _, a := range s.agents {
		if a.Occupies(p) {
			return true
		}
	}
	return false
}

// spawnFood places up to n food items on free cells.
func (s *Simulation) spawnFood(n int) {
	for range n {
		p, ok := s.spawner.FreeCell(s.world.Size(), s.occupied)
		if !ok {
			return
		}
		f := s.spawner.Food(p)
		s.world.AddFood(f)
		s.record(telemetry.NewFoodEvent(s.tick, telemetry.ActionSpawn, p, f.Type))
	}
}

// spawnObstacles places up to n obstacles, clustered by the spawner's noise.
func (s *Simulation) spawnObstacles(n int) {
	for range n {
		p, ok := s.spawner.ObstacleCell(s.world.Size(), s.occupied)
		if !ok {
			return
		}
		s.world.AddObstacle(p, s.tick)
		s.record(telemetry.NewObstacleEvent(s.tick, telemetry.ActionSpawn, p, ""))
	}
}

func (s *Simulation) topUpFood() {
	if missing := s.cfg.Food.MinCount - s.world.FoodCount(); missing > 0 {
		s.spawnFood(missing)
	}
}

func (s *Simulation) ageBonusFood() {
	for _, f := range s.world.AgeBonusFood() {
		s.record(telemetry.NewFoodEvent(s.tick, telemetry.ActionExpire, f.Pos, f.Type))
	}
}

// perturb nudges one random food item once, at the configured butterfly step.
// A nudge into an occupied cell leaves the item in place.
func (s *Simulation) perturb() {
	b := s.cfg.Butterfly
	if !b.Enabled || s.tick != int64(b.Step) {
		return
	}
	food := s.world.Food()
	if len(food) == 0 {
		return
	}
	f := food[s.rng.Intn(len(food))]
	dx, dy := s.spawner.Offset()
	to := components.Position{X: f.Pos.X + dx, Y: f.Pos.Y + dy}.Clamp(s.world.Size())
	if to != f.Pos && s.occupied(to) {
		to = f.Pos
	}
	s.world.MoveFood(f.Pos, to)
	s.record(telemetry.NewPerturbEvent(s.tick, f.Pos, to))
	slog.Info("butterfly perturbation", "tick", s.tick, "from", f.Pos.String(), "to", to.String())
}

// growSensing widens every live agent's window above level 1, capped at the grid size.
func (s *Simulation) growSensing() {
	growth := s.cfg.Simulation.SensingGrowth
	if s.level <= 1 || growth <= 0 {
		return
	}
	for _, a := range s.agents {
		if a.Alive {
			a.SensingRange = min(a.SensingRange+growth, s.world.Size())
		}
	}
}

// driftObstacles moves each obstacle by a random step with the configured chance
// once the drift level is reached. Moves into occupied cells are skipped.
func (s *Simulation) driftObstacles() {
	o := s.cfg.Obstacles
	if s.level < o.MoveLevel || o.MoveChance <= 0 {
		return
	}
	for _, from := range s.world.Obstacles() {
		if s.rng.Float64() >= o.MoveChance {
			continue
		}
		dx, dy := s.spawner.Offset()
		to := components.Position{X: from.X + dx, Y: from.Y + dy}.Clamp(s.world.Size())
		if to == from || s.occupied(to) {
			continue
		}
		s.world.MoveObstacle(from, to, s.tick)
		s.record(telemetry.NewObstacleEvent(s.tick, telemetry.ActionMove, to, from.String()))
	}
}

func (s *Simulation) expireDangers() {
	ttl := int64(s.cfg.Coordination.DangerTTL)
	if dropped := s.dangers.Expire(s.tick, ttl); len(dropped) > 0 {
		slog.Debug("danger cells expired", "tick", s.tick, "count", len(dropped))
	}
}

// checkLevel raises the level from the best score and spawns the content of
// every level passed.
func (s *Simulation) checkLevel() {
	for _, a := range s.agents {
		s.bestScore = max(s.bestScore, a.Score)
	}
	level := 1 + s.bestScore/s.cfg.Simulation.LevelUpScore
	for s.level < level {
		s.level++
		s.record(telemetry.NewLevelEvent(s.tick, s.level))
		if spawn, ok := s.cfg.LevelSpawn(s.level); ok {
			s.spawnObstacles(spawn.Obstacles)
			s.spawnFood(spawn.Food)
		}
		slog.Info("level up", "level", s.level, "tick", s.tick, "best_score", s.bestScore)
	}
}
