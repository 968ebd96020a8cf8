package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HarvestBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 288, Revenue: 10, Harvests: 2, MoistureMean: 50})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 1440, Revenue: 30, Harvests: 4, MoistureMean: 50})
	if !hasBookmark(bms, BookmarkHarvestBoom) {
		t.Error("expected harvest_boom bookmark")
	}
}

func TestBookmarkDetector_PestOutbreak(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: i * 288, PestCells: 1, MoistureMean: 50})
		if hasBookmark(bms, BookmarkPestOutbreak) {
			t.Fatalf("window %d: unexpected pest_outbreak at steady level", i)
		}
	}

	bms := bd.Check(WindowStats{WindowEndTick: 1440, PestCells: 4, MoistureMean: 50})
	if !hasBookmark(bms, BookmarkPestOutbreak) {
		t.Error("expected pest_outbreak bookmark")
	}
}

func TestBookmarkDetector_WeedSurgeNeedsFloor(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 288, MoistureMean: 50})
	}

	// Far above a zero average, but below the floor.
	if bms := bd.Check(WindowStats{WindowEndTick: 1440, WeedCells: 2, MoistureMean: 50}); hasBookmark(bms, BookmarkWeedSurge) {
		t.Error("weed_surge should not fire below the floor")
	}
	if bms := bd.Check(WindowStats{WindowEndTick: 1728, WeedCells: 6, MoistureMean: 50}); !hasBookmark(bms, BookmarkWeedSurge) {
		t.Error("expected weed_surge bookmark")
	}
}

func TestBookmarkDetector_DroughtOnEntryOnly(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		moisture float64
		want     bool
	}{
		{50, false},
		{20, true},
		{15, false}, // still dry
		{40, false},
		{10, true},
	}
	for i, tt := range tests {
		bms := bd.Check(WindowStats{WindowEndTick: i * 288, MoistureMean: tt.moisture})
		if got := hasBookmark(bms, BookmarkDrought); got != tt.want {
			t.Errorf("window %d (moisture %.0f): drought = %v, want %v", i, tt.moisture, got, tt.want)
		}
	}
}

func TestBookmarkDetector_SteadyGardenOncePerStreak(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 12; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: i * 288, Plants: 8, Money: 100 + float64(i), MoistureMean: 50})
		if hasBookmark(bms, BookmarkSteadyGarden) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("steady_garden fired %d times, want 1", count)
	}

	// Losing money resets the streak.
	bd.Check(WindowStats{WindowEndTick: 4000, Plants: 8, Money: 50, MoistureMean: 50})
	if bd.steadyWindows != 0 {
		t.Errorf("steadyWindows = %d after a loss, want 0", bd.steadyWindows)
	}
}
