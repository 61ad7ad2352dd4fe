package telemetry

// Snapshot is the arena state sampled when a window is flushed.
type Snapshot struct {
	Level     int
	Alive     int
	Food      int
	Obstacles int
	Dangers   int
	Scores    []float64 // every agent, dead ones included
}

// Collector accumulates events within tick windows and produces WindowStats.
// It also keeps the full event log for the end-of-run writers.
type Collector struct {
	windowTicks  int64
	recordSpawns bool

	// Current window tracking
	windowStart int64

	pending []EventRecord // recorded since the last DrainEvents
	history []EventRecord

	// Event counters for current window
	ateNormal     int
	ateBonus      int
	atePoison     int
	deaths        int
	broadcasts    int
	foodSpawned   int
	foodExpired   int
	obstacleMoves int
}

// NewCollector creates a collector flushing every windowTicks ticks.
// With recordSpawns false, spawn events are counted but left out of the log.
func NewCollector(windowTicks int64, recordSpawns bool, capacity int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:  windowTicks,
		recordSpawns: recordSpawns,
		history:      make([]EventRecord, 0, max(capacity, 0)),
	}
}

// Record counts e and appends it to the log.
func (c *Collector) Record(e EventRecord) {
	switch e.Action {
	case ActionAte:
		switch e.Extra {
		case "bonus":
			c.ateBonus++
		case "poison":
			c.atePoison++
		default:
			c.ateNormal++
		}
	case ActionDied:
		c.deaths++
	case ActionBroadcast:
		c.broadcasts++
	case ActionExpire:
		c.foodExpired++
	case ActionMove:
		c.obstacleMoves++
	case ActionSpawn:
		if e.Kind == KindFood {
			c.foodSpawned++
		}
		if !c.recordSpawns {
			return
		}
	}

	c.pending = append(c.pending, e)
	c.history = append(c.history, e)
}

// DrainEvents returns the events recorded since the previous call.
func (c *Collector) DrainEvents() []EventRecord {
	out := c.pending
	c.pending = nil
	return out
}

// Events returns the full event log. The slice must not be modified.
func (c *Collector) Events() []EventRecord {
	return c.history
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStart >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, snap Snapshot) WindowStats {
	mean, maxScore := ScoreStats(snap.Scores)

	stats := WindowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   currentTick,

		Level:     snap.Level,
		Alive:     snap.Alive,
		Food:      snap.Food,
		Obstacles: snap.Obstacles,
		Dangers:   snap.Dangers,

		AteNormal:     c.ateNormal,
		AteBonus:      c.ateBonus,
		AtePoison:     c.atePoison,
		Deaths:        c.deaths,
		Broadcasts:    c.broadcasts,
		FoodSpawned:   c.foodSpawned,
		FoodExpired:   c.foodExpired,
		ObstacleMoves: c.obstacleMoves,

		ScoreMean: mean,
		ScoreMax:  maxScore,
	}

	// Reset for next window
	c.windowStart = currentTick
	c.ateNormal = 0
	c.ateBonus = 0
	c.atePoison = 0
	c.deaths = 0
	c.broadcasts = 0
	c.foodSpawned = 0
	c.foodExpired = 0
	c.obstacleMoves = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
