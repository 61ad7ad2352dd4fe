package game

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Simulation.MaxTicks = 150
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config, seed int64) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg, Options{Seed: seed})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim
}

// TestSimulationDeterministic verifies a seed reproduces the whole run.
func TestSimulationDeterministic(t *testing.T) {
	run := func() ([]telemetry.AgentResult, []telemetry.EventRecord, int64) {
		sim := newTestSim(t, testConfig(t), 42)
		sim.Run()
		return sim.Results(), slices.Clone(sim.Collector().Events()), sim.Tick()
	}

	r1, e1, t1 := run()
	r2, e2, t2 := run()

	if t1 != t2 {
		t.Fatalf("tick counts differ: %d vs %d", t1, t2)
	}
	if !slices.Equal(r1, r2) {
		t.Errorf("results differ:\n%v\n%v", r1, r2)
	}
	if !slices.Equal(e1, e2) {
		t.Errorf("event logs differ: %d vs %d events", len(e1), len(e2))
	}
}

// TestSimulationInvariants checks arena-wide invariants after every tick.
func TestSimulationInvariants(t *testing.T) {
	cfg := testConfig(t)
	sim := newTestSim(t, cfg, 7)
	size := cfg.Grid.Size

	for sim.Step() {
		if n := sim.World().FoodCount(); n < cfg.Food.MinCount {
			t.Fatalf("tick %d: %d food, want at least %d", sim.Tick(), n, cfg.Food.MinCount)
		}

		cells := make(map[components.Position]string)
		claim := func(p components.Position, what string) {
			if !p.InBounds(size) {
				t.Fatalf("tick %d: %s at %v out of bounds", sim.Tick(), what, p)
			}
			if prev, ok := cells[p]; ok {
				t.Fatalf("tick %d: %s and %s share %v", sim.Tick(), prev, what, p)
			}
			cells[p] = what
		}
		for _, o := range sim.World().Obstacles() {
			claim(o, "obstacle")
		}
		for _, f := range sim.World().Food() {
			claim(f.Pos, "food")
		}
		for _, a := range sim.Agents() {
			if a.Score < 0 {
				t.Fatalf("tick %d: agent %d has negative score", sim.Tick(), a.ID)
			}
			if a.Memory.Len() > a.Memory.Cap() {
				t.Fatalf("tick %d: agent %d memory overflow", sim.Tick(), a.ID)
			}
			for _, seg := range a.Body {
				claim(seg, "agent")
			}
		}
	}

	if !sim.Done() {
		t.Error("Step returned false before the run was done")
	}
}

// TestSimulationLevelUp verifies crossing score thresholds spawns each level's content.
func TestSimulationLevelUp(t *testing.T) {
	cfg := testConfig(t)
	cfg.Butterfly.Enabled = false
	sim := newTestSim(t, cfg, 3)

	sim.Agents()[0].Score = 10
	sim.checkLevel()

	if sim.Level() != 3 {
		t.Fatalf("Level = %d, want 3", sim.Level())
	}
	if got := sim.World().ObstacleCount(); got != 4+6 {
		t.Errorf("obstacles = %d, want 10", got)
	}
	if got := sim.World().FoodCount(); got != cfg.Food.Initial+2 {
		t.Errorf("food = %d, want %d", got, cfg.Food.Initial+2)
	}

	var levels []string
	for _, e := range sim.Collector().Events() {
		if e.Kind == telemetry.KindLevel {
			levels = append(levels, e.Extra)
		}
	}
	if !slices.Equal(levels, []string{"2", "3"}) {
		t.Errorf("level events = %v, want [2 3]", levels)
	}
}

// TestSimulationSensingGrowth verifies sensing widens each tick above level 1 up to the grid size.
func TestSimulationSensingGrowth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Grid.Size = 8
	cfg.Agents = []config.AgentConfig{{ID: 1, Start: config.PointConfig{X: 4, Y: 4}}}
	sim := newTestSim(t, cfg, 1)
	a := sim.Agents()[0]

	sim.growSensing()
	if a.SensingRange != 3 {
		t.Fatalf("level 1 sensing = %d, want unchanged 3", a.SensingRange)
	}

	sim.level = 2
	for i := 0; i < 10; i++ {
		sim.growSensing()
	}
	if a.SensingRange != 8 {
		t.Errorf("sensing = %d, want capped at 8", a.SensingRange)
	}
}

// TestSimulationButterfly verifies exactly one perturbation at the configured step.
func TestSimulationButterfly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Butterfly.Step = 1
	sim := newTestSim(t, cfg, 11)

	for i := 0; i < 5 && sim.Step(); i++ {
	}

	var perturbs []telemetry.EventRecord
	for _, e := range sim.Collector().Events() {
		if e.Action == telemetry.ActionPerturb {
			perturbs = append(perturbs, e)
		}
	}
	if len(perturbs) != 1 || perturbs[0].Step != 1 {
		t.Errorf("perturb events = %v, want one at step 1", perturbs)
	}
}

// TestSimulationPerturbRecordsOrigin verifies the nudge event names the cell the food left.
func TestSimulationPerturbRecordsOrigin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Butterfly.Step = 4
	sim := newTestSim(t, cfg, 13)

	before := make(map[string]components.Position)
	for _, f := range sim.World().Food() {
		before[f.Pos.String()] = f.Pos
	}
	sim.tick = 4
	sim.perturb()

	events := sim.Collector().Events()
	e := events[len(events)-1]
	if e.Action != telemetry.ActionPerturb {
		t.Fatalf("last event = %+v, want a perturb", e)
	}
	from, ok := before[e.Extra]
	if !ok {
		t.Fatalf("extra %q is not a cell that held food", e.Extra)
	}
	to := e.Pos()
	if dx, dy := to.X-from.X, to.Y-from.Y; dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		t.Errorf("nudged from %v to %v, more than one cell", from, to)
	}
	if !sim.World().HasFoodAt(to) {
		t.Errorf("no food at destination %v", to)
	}
}

// TestSimulationEndsWhenAllDead verifies the run stops once no agent is alive.
func TestSimulationEndsWhenAllDead(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.MaxTicks = 0
	sim := newTestSim(t, cfg, 5)

	for _, a := range sim.Agents() {
		a.Alive = false
	}
	if sim.Step() {
		t.Error("Step should report the run is over")
	}
	if sim.Tick() != 0 {
		t.Errorf("Tick = %d, want 0", sim.Tick())
	}
}

// TestSimulationMaxTicks verifies the tick limit ends the run.
func TestSimulationMaxTicks(t *testing.T) {
	cfg := testConfig(t)
	sim, err := NewSimulation(cfg, Options{Seed: 9, MaxTicks: 12})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	sim.Run()
	if sim.Tick() > 12 {
		t.Errorf("ran %d ticks, limit 12", sim.Tick())
	}
	if sim.AliveCount() > 0 && sim.Tick() != 12 {
		t.Errorf("stopped at %d with agents alive", sim.Tick())
	}
}

// TestSimulationOutput verifies the output directory receives every file.
func TestSimulationOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	cfg := testConfig(t)
	cfg.Telemetry.LogInterval = 10

	sim, err := NewSimulation(cfg, Options{Seed: 2, OutputDir: dir, MaxTicks: 30})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	sim.Run()
	if err := sim.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files := []string{"config.yaml", "events.csv", "agents.csv"}
	if sim.Tick() >= 10 {
		files = append(files, "telemetry.csv", "perf.csv")
	}
	for _, name := range files {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestNewAgentResolvesDefaults(t *testing.T) {
	fear := 2.5
	negative := -1.0
	sensing := 6
	dir := "up"
	coop := true

	def := config.AgentDefaultsConfig{
		SensingRange:   4,
		MemoryCapacity: 10,
		Direction:      "right",
		Personality:    config.PersonalityConfig{Hunger: &fear},
	}

	tests := []struct {
		name  string
		entry config.AgentConfig
		check func(t *testing.T, a *components.Agent)
	}{
		{"defaults only", config.AgentConfig{ID: 1}, func(t *testing.T, a *components.Agent) {
			if a.SensingRange != 4 || a.Memory.Cap() != 10 || a.Direction != components.Right {
				t.Errorf("got sensing %d memory %d dir %v", a.SensingRange, a.Memory.Cap(), a.Direction)
			}
			if a.Personality.Hunger != 2.5 || a.Personality.Fear != 0.6 {
				t.Errorf("personality = %+v", a.Personality)
			}
			if a.Cooperative {
				t.Error("should not be cooperative")
			}
		}},
		{"entry overrides", config.AgentConfig{
			ID:           2,
			SensingRange: &sensing,
			Direction:    &dir,
			Cooperative:  &coop,
			Personality:  config.PersonalityConfig{Fear: &fear},
		}, func(t *testing.T, a *components.Agent) {
			if a.SensingRange != 6 || a.Direction != components.Up || !a.Cooperative {
				t.Errorf("got sensing %d dir %v coop %v", a.SensingRange, a.Direction, a.Cooperative)
			}
			if a.Personality.Fear != 2.5 || a.Personality.Hunger != 2.5 {
				t.Errorf("personality = %+v", a.Personality)
			}
		}},
		{"malformed weight falls back", config.AgentConfig{
			ID:          3,
			Personality: config.PersonalityConfig{Curiosity: &negative},
		}, func(t *testing.T, a *components.Agent) {
			if a.Personality.Curiosity != 0.3 {
				t.Errorf("curiosity = %v, want default 0.3", a.Personality.Curiosity)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newAgent(tt.entry, def))
		})
	}
}
