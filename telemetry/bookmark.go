package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFeedingFrenzy   BookmarkType = "feeding_frenzy"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkLastSurvivor    BookmarkType = "last_survivor"
	BookmarkLevelSurge      BookmarkType = "level_surge"
	BookmarkStalemate       BookmarkType = "stalemate"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// stalemateWindows is the number of consecutive windows without a meal that
// marks a stalemate.
const stalemateWindows = 5

// BookmarkDetector detects notable moments from successive stats windows.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentAlivePeak int
	lastAlive       int
	lastLevel       int
	hungryWindows   int
	survivorMarked  bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkFeedingFrenzy(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkLastSurvivor(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkLevelSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkStalemate(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	bd.recentAlivePeak = max(bd.recentAlivePeak, stats.Alive)
	bd.lastAlive = stats.Alive
	bd.lastLevel = stats.Level

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func meals(s WindowStats) int {
	return s.AteNormal + s.AteBonus + s.AtePoison
}

func (bd *BookmarkDetector) checkFeedingFrenzy(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += meals(h)
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := meals(stats)
	if float64(current) > avg*2.0 && current >= 3 {
		return &Bookmark{
			Type:        BookmarkFeedingFrenzy,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d meals is %.1fx the average (%.1f)", current, float64(current)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentAlivePeak < 4 {
		return nil
	}

	if stats.Alive*2 <= bd.recentAlivePeak {
		// Reset the peak after triggering
		oldPeak := bd.recentAlivePeak
		bd.recentAlivePeak = stats.Alive

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Live agents fell from %d to %d", oldPeak, stats.Alive),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkLastSurvivor(stats WindowStats) *Bookmark {
	if bd.survivorMarked || stats.Alive != 1 || bd.lastAlive < 2 {
		return nil
	}
	bd.survivorMarked = true
	return &Bookmark{
		Type:        BookmarkLastSurvivor,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("One agent left after %d deaths this window", stats.Deaths),
	}
}

func (bd *BookmarkDetector) checkLevelSurge(stats WindowStats) *Bookmark {
	if bd.lastLevel == 0 || stats.Level-bd.lastLevel < 2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLevelSurge,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Level jumped from %d to %d in one window", bd.lastLevel, stats.Level),
	}
}

func (bd *BookmarkDetector) checkStalemate(stats WindowStats) *Bookmark {
	if stats.Alive == 0 || meals(stats) > 0 {
		bd.hungryWindows = 0
		return nil
	}

	bd.hungryWindows++
	if bd.hungryWindows == stalemateWindows { // trigger exactly once per streak
		return &Bookmark{
			Type:        BookmarkStalemate,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d agents alive without a meal for %d windows", stats.Alive, stalemateWindows),
		}
	}
	return nil
}
