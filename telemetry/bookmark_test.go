package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FeedingFrenzy(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Steady history of one meal per window
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 100), Alive: 2, AteNormal: 1, Level: 1})
	}

	frenzy := WindowStats{WindowEndTick: 500, Alive: 2, AteNormal: 3, AteBonus: 1, Level: 1}
	if !hasBookmark(bd.Check(frenzy), BookmarkFeedingFrenzy) {
		t.Error("expected feeding_frenzy bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 100), Alive: 6, AteNormal: 1, Level: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, Alive: 3, Deaths: 3, AteNormal: 1, Level: 1})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// Peak resets, so a steady population does not trigger again.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 400, Alive: 3, AteNormal: 1, Level: 1})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("population_crash triggered twice")
	}
}

func TestBookmarkDetector_LastSurvivor(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 100, Alive: 2, AteNormal: 1, Level: 1})
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 200, Alive: 1, Deaths: 1, AteNormal: 1, Level: 1}), BookmarkLastSurvivor) {
		t.Error("expected last_survivor bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 300, Alive: 1, AteNormal: 1, Level: 1}), BookmarkLastSurvivor) {
		t.Error("last_survivor triggered twice")
	}
}

func TestBookmarkDetector_LevelSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 100, Alive: 2, AteNormal: 1, Level: 1})
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 200, Alive: 2, AteNormal: 1, Level: 2}), BookmarkLevelSurge) {
		t.Error("single level step should not be a surge")
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 300, Alive: 2, AteBonus: 2, Level: 4}), BookmarkLevelSurge) {
		t.Error("expected level_surge bookmark")
	}
}

func TestBookmarkDetector_Stalemate(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 10; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int64(i * 100), Alive: 2, Level: 1})
		if hasBookmark(bookmarks, BookmarkStalemate) {
			triggered++
			if i != stalemateWindows-1 {
				t.Errorf("stalemate at window %d, want %d", i, stalemateWindows-1)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("stalemate triggered %d times, want 1", triggered)
	}
}
