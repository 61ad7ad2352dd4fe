package telemetry

import (
	"log/slog"
	"time"
)

// Phases of one arena step, in execution order.
const (
	PhaseAgents    = "agents"    // butterfly nudge, sensing growth, one controller call per live agent
	PhaseFood      = "food"      // top-up to the minimum count, bonus aging
	PhaseObstacles = "obstacles" // drift
	PhaseUpkeep    = "upkeep"    // danger expiry, level check
)

var phases = []string{PhaseAgents, PhaseFood, PhaseObstacles, PhaseUpkeep}

// stepTiming is the timing of one arena step.
type stepTiming struct {
	total      time.Duration
	phases     map[string]time.Duration
	agentCalls int // controller calls made during the agents phase
}

// PerfCollector times arena steps over a ring of the most recent steps.
// Every method is a no-op on a nil collector.
type PerfCollector struct {
	ring  []stepTiming
	next  int
	count int

	current    stepTiming
	stepStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates a collector keeping the last window steps.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 100
	}
	return &PerfCollector{ring: make([]stepTiming, window)}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.stepStart = time.Now()
	p.current = stepTiming{phases: make(map[string]time.Duration, len(phases))}
	p.phase = ""
}

// StartPhase closes the running phase and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

// AddAgentCalls counts controller calls made in the current step.
func (p *PerfCollector) AddAgentCalls(n int) {
	if p == nil {
		return
	}
	p.current.agentCalls += n
}

// EndTick closes the step and stores it in the ring.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.stepStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// PerfStats summarises the steps currently in the ring.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average step

	// Agents-phase time divided by controller calls; 0 when no agent acted.
	AvgAgentCall time.Duration

	TicksPerSecond float64
}

// Stats aggregates the steps in the ring.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p == nil || p.count == 0 {
		return stats
	}

	var total time.Duration
	var calls int
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.ring[:p.count] {
		total += s.total
		if i == 0 || s.total < stats.MinTickDuration {
			stats.MinTickDuration = s.total
		}
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.total)
		for phase, d := range s.phases {
			phaseSum[phase] += d
		}
		calls += s.agentCalls
	}

	n := time.Duration(p.count)
	stats.AvgTickDuration = total / n
	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = sum / n
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[phase] = float64(sum/n) / float64(stats.AvgTickDuration) * 100
		}
	}
	if calls > 0 {
		stats.AvgAgentCall = phaseSum[PhaseAgents] / time.Duration(calls)
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs the timing breakdown at debug level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"agent_call_us", s.AvgAgentCall.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Debug("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	AgentCallUS  int64   `csv:"agent_call_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	AgentsPct    float64 `csv:"agents_pct"`
	FoodPct      float64 `csv:"food_pct"`
	ObstaclesPct float64 `csv:"obstacles_pct"`
	UpkeepPct    float64 `csv:"upkeep_pct"`
}

// ToCSV flattens the stats into a row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		AgentCallUS:  s.AvgAgentCall.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		AgentsPct:    s.PhasePct[PhaseAgents],
		FoodPct:      s.PhasePct[PhaseFood],
		ObstaclesPct: s.PhasePct[PhaseObstacles],
		UpkeepPct:    s.PhasePct[PhaseUpkeep],
	}
}
