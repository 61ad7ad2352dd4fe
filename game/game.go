// Package game runs the arena: it owns the grid contents, the agents and the
// tick loop, and drives one controller call per agent per tick.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

// Options configures a Simulation beyond what the config file holds.
type Options struct {
	Seed      int64  // RNG seed; the same seed and config reproduce a run
	OutputDir string // CSV output directory (empty = disabled)
	LogStats  bool   // log window stats via slog
	MaxTicks  int    // overrides simulation.max_ticks when > 0
}

// Simulation is the arena environment.
type Simulation struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand

	world      *World
	spawner    *Spawner
	dangers    *systems.DangerSet
	controller *systems.Controller

	agents   []*components.Agent // registration order is processing order
	lifetime *telemetry.LifetimeTracker

	tick      int64
	level     int
	bestScore int
	maxTicks  int

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
}

// NewSimulation builds an arena from cfg: agents at their configured starts,
// initial obstacles, then initial food.
func NewSimulation(cfg *config.Config, opts Options) (*Simulation, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	size := cfg.Grid.Size

	dangers := systems.NewDangerSet()
	controller := systems.NewController(size,
		decisionParams(cfg), riskParams(cfg), coordinationParams(cfg),
		dangers, rng)

	maxTicks := cfg.Simulation.MaxTicks
	if opts.MaxTicks > 0 {
		maxTicks = opts.MaxTicks
	}

	window := int64(cfg.Telemetry.LogInterval)
	if window <= 0 {
		window = 100
	}

	s := &Simulation{
		cfg:        cfg,
		opts:       opts,
		rng:        rng,
		world:      NewWorld(size),
		dangers:    dangers,
		controller: controller,
		lifetime:   telemetry.NewLifetimeTracker(),
		level:      1,
		maxTicks:   maxTicks,

		collector:        telemetry.NewCollector(window, cfg.Telemetry.RecordSpawns, cfg.Telemetry.EventCapacity),
		perfCollector:    telemetry.NewPerfCollector(int(window)),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
	}
	s.spawner = NewSpawner(SpawnParams{
		Attempts:      cfg.Food.SpawnAttempts,
		FoodWeights:   cfg.Derived.FoodWeights,
		BonusLifetime: cfg.Food.BonusLifetime,
		NoiseScale:    cfg.Obstacles.NoiseScale,
	}, rng, opts.Seed)

	for _, ac := range cfg.Agents {
		s.AddAgent(newAgent(ac, cfg.AgentDefaults))
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	s.spawnObstacles(cfg.Obstacles.Initial)
	s.spawnFood(cfg.Food.Initial)
	s.flushEvents()

	return s, nil
}

// AddAgent registers a after the existing agents.
func (s *Simulation) AddAgent(a *components.Agent) {
	s.agents = append(s.agents, a)
	s.lifetime.Register(a.ID, s.tick)
}

// Agents returns every registered agent in processing order.
func (s *Simulation) Agents() []*components.Agent {
	return s.agents
}

// World returns the arena contents.
func (s *Simulation) World() *World {
	return s.world
}

// Dangers returns the shared danger set.
func (s *Simulation) Dangers() *systems.DangerSet {
	return s.dangers
}

// Collector returns the event and stats collector.
func (s *Simulation) Collector() *telemetry.Collector {
	return s.collector
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int64 {
	return s.tick
}

// Level returns the current level.
func (s *Simulation) Level() int {
	return s.level
}

// AliveCount returns the number of live agents.
func (s *Simulation) AliveCount() int {
	n := 0
	for _, a := range s.agents {
		if a.Alive {
			n++
		}
	}
	return n
}

// Done reports whether the run is over: every agent dead or the tick limit reached.
func (s *Simulation) Done() bool {
	if s.maxTicks > 0 && s.tick >= int64(s.maxTicks) {
		return true
	}
	return s.AliveCount() == 0
}

// Results returns the per-agent scoreboard in registration order.
func (s *Simulation) Results() []telemetry.AgentResult {
	out := make([]telemetry.AgentResult, 0, len(s.agents))
	for _, a := range s.agents {
		st := s.lifetime.Get(a.ID)
		out = append(out, telemetry.AgentResult{
			ID:          a.ID,
			Score:       a.Score,
			Length:      len(a.Body),
			Alive:       a.Alive,
			Cooperative: a.Cooperative,
			Eaten:       st.TotalEaten(),
			Broadcasts:  st.Broadcasts,
			DiedAt:      st.DiedAt,
		})
	}
	return out
}

// Close writes the final scoreboard and any buffered events, then closes output files.
func (s *Simulation) Close() error {
	s.flushEvents()
	if err := s.outputManager.WriteResults(s.Results()); err != nil {
		s.outputManager.Close()
		return err
	}
	if err := s.outputManager.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	slog.Debug("simulation closed", "tick", s.tick, "events", len(s.collector.Events()))
	return nil
}
