package telemetry

import (
	"cmp"
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Arena state at window end
	Level     int `csv:"level"`
	Alive     int `csv:"alive"`
	Food      int `csv:"food"`
	Obstacles int `csv:"obstacles"`
	Dangers   int `csv:"dangers"`

	// Events during window
	AteNormal     int `csv:"ate_normal"`
	AteBonus      int `csv:"ate_bonus"`
	AtePoison     int `csv:"ate_poison"`
	Deaths        int `csv:"deaths"`
	Broadcasts    int `csv:"broadcasts"`
	FoodSpawned   int `csv:"food_spawned"`
	FoodExpired   int `csv:"food_expired"`
	ObstacleMoves int `csv:"obstacle_moves"`

	// Score distribution at window end
	ScoreMean float64 `csv:"score_mean"`
	ScoreMax  float64 `csv:"score_max"`
}

// LogStats outputs the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"level", s.Level,
		"alive", s.Alive,
		"food", s.Food,
		"obstacles", s.Obstacles,
		"ate", s.AteNormal+s.AteBonus+s.AtePoison,
		"deaths", s.Deaths,
		"broadcasts", s.Broadcasts,
		"score_mean", s.ScoreMean,
		"score_max", s.ScoreMax,
	)
}

// AgentResult is one agent's final standing.
type AgentResult struct {
	ID          int   `csv:"agent" db:"agent"`
	Score       int   `csv:"score" db:"score"`
	Length      int   `csv:"length" db:"length"`
	Alive       bool  `csv:"alive" db:"alive"`
	Cooperative bool  `csv:"cooperative" db:"cooperative"`
	Eaten       int   `csv:"eaten" db:"eaten"`
	Broadcasts  int   `csv:"broadcasts" db:"broadcasts"`
	DiedAt      int64 `csv:"died_at" db:"died_at"` // 0 while alive
}

// RunSummary describes the final distribution of results.
type RunSummary struct {
	Agents      int
	Alive       int
	Winner      int // agent ID, NoAgent when there are no agents
	MeanScore   float64
	StdScore    float64
	MedianScore float64
	MaxScore    float64
	MeanLength  float64
}

// ScoreStats returns the mean and maximum of scores, or zeros when empty.
func ScoreStats(scores []float64) (mean, maxScore float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	return stat.Mean(scores, nil), floats.Max(scores)
}

// Winner returns the best result: highest score, then longest body, then lowest ID.
func Winner(results []AgentResult) (AgentResult, bool) {
	if len(results) == 0 {
		return AgentResult{}, false
	}
	return slices.MinFunc(results, func(a, b AgentResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Length, a.Length); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}), true
}

// Summarize computes run-level statistics from final results.
func Summarize(results []AgentResult) RunSummary {
	summary := RunSummary{Agents: len(results), Winner: NoAgent}
	if len(results) == 0 {
		return summary
	}

	scores := make([]float64, len(results))
	lengths := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.Score)
		lengths[i] = float64(r.Length)
		if r.Alive {
			summary.Alive++
		}
	}

	if len(scores) > 1 {
		summary.MeanScore, summary.StdScore = stat.MeanStdDev(scores, nil)
	} else {
		summary.MeanScore = scores[0]
	}
	summary.MeanLength = stat.Mean(lengths, nil)
	summary.MaxScore = floats.Max(scores)

	sorted := slices.Clone(scores)
	slices.Sort(sorted)
	summary.MedianScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	w, _ := Winner(results)
	summary.Winner = w.ID
	return summary
}
