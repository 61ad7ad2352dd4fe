// Package config provides configuration loading and access for the arena.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all arena configuration parameters.
type Config struct {
	Grid          GridConfig          `yaml:"grid"`
	Simulation    SimulationConfig    `yaml:"simulation"`
	AgentDefaults AgentDefaultsConfig `yaml:"agent_defaults"`
	Agents        []AgentConfig       `yaml:"agents"`
	Decision      DecisionConfig      `yaml:"decision"`
	Risk          RiskConfig          `yaml:"risk"`
	Coordination  CoordinationConfig  `yaml:"coordination"`
	Food          FoodConfig          `yaml:"food"`
	Obstacles     ObstaclesConfig     `yaml:"obstacles"`
	Butterfly     ButterflyConfig     `yaml:"butterfly"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the arena dimensions.
type GridConfig struct {
	Size int `yaml:"size"` // Side length of the square grid in cells
}

// SimulationConfig holds run length and progression parameters.
type SimulationConfig struct {
	MaxTicks      int `yaml:"max_ticks"`      // 0 = run until every agent is dead
	LevelUpScore  int `yaml:"level_up_score"` // Level = 1 + best score / this
	SensingGrowth int `yaml:"sensing_growth"` // Sensing range gained per tick above level 1
}

// PersonalityConfig holds optional utility weights. Absent, negative or NaN
// weights fall back to the next layer of defaults.
type PersonalityConfig struct {
	Fear        *float64 `yaml:"fear,omitempty"`
	Hunger      *float64 `yaml:"hunger,omitempty"`
	Aggression  *float64 `yaml:"aggression,omitempty"`
	Curiosity   *float64 `yaml:"curiosity,omitempty"`
	Cooperation *float64 `yaml:"cooperation,omitempty"`
}

// AgentDefaultsConfig holds values applied to every agent that does not set its own.
type AgentDefaultsConfig struct {
	SensingRange   int               `yaml:"sensing_range"`
	MemoryCapacity int               `yaml:"memory_capacity"`
	Direction      string            `yaml:"direction"`
	Cooperative    bool              `yaml:"cooperative"`
	Personality    PersonalityConfig `yaml:"personality"`
}

// PointConfig is a grid cell in configuration.
type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// AgentConfig describes one agent. Pointer fields are optional.
type AgentConfig struct {
	ID             int               `yaml:"id"`
	Start          PointConfig       `yaml:"start"`
	SensingRange   *int              `yaml:"sensing_range,omitempty"`
	MemoryCapacity *int              `yaml:"memory_capacity,omitempty"`
	Direction      *string           `yaml:"direction,omitempty"`
	Cooperative    *bool             `yaml:"cooperative,omitempty"`
	Personality    PersonalityConfig `yaml:"personality"`
}

// DecisionConfig holds target selection tunables.
type DecisionConfig struct {
	FloodFillLimit     int     `yaml:"flood_fill_limit"`    // Reachability cap per candidate cell
	Jitter             float64 `yaml:"jitter"`              // Uniform tie-break noise amplitude
	CooperationPenalty float64 `yaml:"cooperation_penalty"` // Scaled by the cooperation weight
}

// RiskConfig holds the risk score weighting.
type RiskConfig struct {
	ObstacleRange       int     `yaml:"obstacle_range"`
	ObstacleWeight      float64 `yaml:"obstacle_weight"`
	BodyRange           int     `yaml:"body_range"`
	BodyWeight          float64 `yaml:"body_weight"`
	HeadRange           int     `yaml:"head_range"`
	HeadOffset          int     `yaml:"head_offset"`
	HeadWeight          float64 `yaml:"head_weight"`
	SharedDangerPenalty float64 `yaml:"shared_danger_penalty"`
}

// CoordinationConfig holds danger broadcast parameters.
type CoordinationConfig struct {
	DangerThreshold int `yaml:"danger_threshold"` // Broadcast above this many visible hostile segments
	DangerTTL       int `yaml:"danger_ttl"`       // Ticks a danger cell survives (0 = forever)
}

// FoodWeightsConfig holds the relative spawn weights of each food type.
type FoodWeightsConfig struct {
	Normal float64 `yaml:"normal"`
	Bonus  float64 `yaml:"bonus"`
	Poison float64 `yaml:"poison"`
}

// FoodConfig holds food spawning parameters.
type FoodConfig struct {
	Initial       int               `yaml:"initial"`
	MinCount      int               `yaml:"min_count"`      // Topped up to this after every tick
	SpawnAttempts int               `yaml:"spawn_attempts"` // Random tries before giving up on a placement
	BonusLifetime int               `yaml:"bonus_lifetime"` // Ticks until bonus food expires (0 = never)
	Weights       FoodWeightsConfig `yaml:"weights"`
}

// LevelConfig lists what is spawned when a level is reached.
type LevelConfig struct {
	Level     int `yaml:"level"`
	Obstacles int `yaml:"obstacles"`
	Food      int `yaml:"food"`
}

// ObstaclesConfig holds obstacle placement and drift parameters.
type ObstaclesConfig struct {
	Initial    int           `yaml:"initial"`
	NoiseScale float64       `yaml:"noise_scale"` // Simplex frequency for clustered placement (0 = uniform)
	MoveLevel  int           `yaml:"move_level"`  // Obstacles drift from this level on
	MoveChance float64       `yaml:"move_chance"` // Per obstacle, per tick
	Levels     []LevelConfig `yaml:"levels"`
}

// ButterflyConfig holds the single-perturbation experiment settings.
type ButterflyConfig struct {
	Enabled bool `yaml:"enabled"`
	Step    int  `yaml:"step"` // 1-based tick at which one food item is nudged
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	LogInterval   int  `yaml:"log_interval"`   // Ticks between progress log lines (0 = off)
	RecordSpawns  bool `yaml:"record_spawns"`  // Include spawn events in the event log
	EventCapacity int  `yaml:"event_capacity"` // Initial event buffer size
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Area        int           // Grid.Size squared
	FoodWeights [3]float64    // Normalised normal, bonus, poison weights
	Levels      []LevelConfig // Obstacles.Levels sorted by level
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Area = c.Grid.Size * c.Grid.Size

	w := c.Food.Weights
	total := w.Normal + w.Bonus + w.Poison
	if total > 0 {
		c.Derived.FoodWeights = [3]float64{w.Normal / total, w.Bonus / total, w.Poison / total}
	}

	c.Derived.Levels = slices.Clone(c.Obstacles.Levels)
	slices.SortStableFunc(c.Derived.Levels, func(a, b LevelConfig) int {
		return a.Level - b.Level
	})

	// Synthesize two opposing agents if none specified
	if len(c.Agents) == 0 && c.Grid.Size >= 4 {
		n := c.Grid.Size
		c.Agents = []AgentConfig{
			{ID: 1, Start: PointConfig{X: n / 4, Y: n / 2}},
			{ID: 2, Start: PointConfig{X: n - 1 - n/4, Y: n / 2}},
		}
	}
}

// Validate reports configuration values no run could start from.
func (c *Config) Validate() error {
	var errs []error

	if c.Grid.Size < 2 {
		errs = append(errs, fmt.Errorf("grid.size must be at least 2, got %d", c.Grid.Size))
	}
	if c.Simulation.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("simulation.max_ticks must not be negative, got %d", c.Simulation.MaxTicks))
	}
	if c.Simulation.LevelUpScore < 1 {
		errs = append(errs, fmt.Errorf("simulation.level_up_score must be positive, got %d", c.Simulation.LevelUpScore))
	}
	if c.Derived.FoodWeights == [3]float64{} {
		errs = append(errs, errors.New("food.weights must have a positive total"))
	}
	if c.Obstacles.MoveChance < 0 || c.Obstacles.MoveChance > 1 {
		errs = append(errs, fmt.Errorf("obstacles.move_chance must be in [0,1], got %v", c.Obstacles.MoveChance))
	}
	if d := c.AgentDefaults.Direction; d != "" && !validDirection(d) {
		errs = append(errs, fmt.Errorf("agent_defaults.direction %q is not up, down, left or right", d))
	}

	if len(c.Agents) == 0 {
		errs = append(errs, errors.New("at least one agent is required"))
	}
	ids := make(map[int]bool, len(c.Agents))
	starts := make(map[PointConfig]int, len(c.Agents))
	for _, a := range c.Agents {
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate agent id %d", a.ID))
		}
		ids[a.ID] = true

		s := a.Start
		if s.X < 0 || s.Y < 0 || s.X >= c.Grid.Size || s.Y >= c.Grid.Size {
			errs = append(errs, fmt.Errorf("agent %d starts outside the grid at (%d,%d)", a.ID, s.X, s.Y))
		}
		if other, ok := starts[s]; ok {
			errs = append(errs, fmt.Errorf("agents %d and %d share start (%d,%d)", other, a.ID, s.X, s.Y))
		}
		starts[s] = a.ID

		if a.Direction != nil && !validDirection(*a.Direction) {
			errs = append(errs, fmt.Errorf("agent %d direction %q is not up, down, left or right", a.ID, *a.Direction))
		}
	}

	return errors.Join(errs...)
}

func validDirection(s string) bool {
	switch strings.ToLower(s) {
	case "up", "down", "left", "right":
		return true
	}
	return false
}

// LevelSpawn returns the spawn entry for level: the highest configured level
// not above it. ok is false when no entry applies.
func (c *Config) LevelSpawn(level int) (LevelConfig, bool) {
	var best LevelConfig
	found := false
	for _, l := range c.Derived.Levels {
		if l.Level > level {
			break
		}
		best = l
		found = true
	}
	return best, found
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
