package game

import (
	"log/slog"

	"github.com/pthm-cable/arena/telemetry"
)

// record forwards an event to the collector.
func (s *Simulation) record(e telemetry.EventRecord) {
	s.collector.Record(e)
}

// flushEvents appends buffered events to events.csv.
func (s *Simulation) flushEvents() {
	if err := s.outputManager.WriteEvents(s.collector.DrainEvents()); err != nil {
		slog.Error("failed to write events", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.snapshot())
	perfStats := s.perfCollector.Stats()

	if s.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	s.flushEvents()

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// snapshot samples the arena state for a stats window.
func (s *Simulation) snapshot() telemetry.Snapshot {
	scores := make([]float64, len(s.agents))
	for i, a := range s.agents {
		scores[i] = float64(a.Score)
	}
	return telemetry.Snapshot{
		Level:     s.level,
		Alive:     s.AliveCount(),
		Food:      s.world.FoodCount(),
		Obstacles: s.world.ObstacleCount(),
		Dangers:   s.dangers.Len(),
		Scores:    scores,
	}
}
