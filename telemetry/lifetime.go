package telemetry

import "github.com/pthm-cable/arena/components"

// LifetimeStats tracks per-agent statistics over a run.
type LifetimeStats struct {
	SpawnTick int64
	DiedAt    int64 // 0 while alive

	// Feeding, indexed by components.FoodType
	Eaten [3]int

	// Coordination
	Broadcasts int

	// Growth
	PeakLength int
	PeakScore  int
}

// TotalEaten returns the number of food items eaten of any type.
func (s *LifetimeStats) TotalEaten() int {
	return s.Eaten[components.FoodNormal] + s.Eaten[components.FoodBonus] + s.Eaten[components.FoodPoison]
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[int]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[int]*LifetimeStats),
	}
}

// Register creates lifetime stats for an agent entering the arena.
func (lt *LifetimeTracker) Register(agentID int, spawnTick int64) {
	lt.stats[agentID] = &LifetimeStats{SpawnTick: spawnTick, PeakLength: 1}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(agentID int) *LifetimeStats {
	return lt.stats[agentID]
}

// RecordMeal counts one food item of type t.
func (lt *LifetimeTracker) RecordMeal(agentID int, t components.FoodType) {
	if s := lt.stats[agentID]; s != nil && int(t) < len(s.Eaten) {
		s.Eaten[t]++
	}
}

// RecordBroadcast increments the danger broadcast count.
func (lt *LifetimeTracker) RecordBroadcast(agentID int) {
	if s := lt.stats[agentID]; s != nil {
		s.Broadcasts++
	}
}

// RecordDeath stores the death tick. Later calls are ignored.
func (lt *LifetimeTracker) RecordDeath(agentID int, tick int64) {
	if s := lt.stats[agentID]; s != nil && s.DiedAt == 0 {
		s.DiedAt = tick
	}
}

// UpdateGrowth tracks peak length and score.
func (lt *LifetimeTracker) UpdateGrowth(agentID, length, score int) {
	if s := lt.stats[agentID]; s != nil {
		s.PeakLength = max(s.PeakLength, length)
		s.PeakScore = max(s.PeakScore, score)
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
