package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHarvestBoom  BookmarkType = "harvest_boom"
	BookmarkPestOutbreak BookmarkType = "pest_outbreak"
	BookmarkWeedSurge    BookmarkType = "weed_surge"
	BookmarkDrought      BookmarkType = "drought"
	BookmarkSteadyGarden BookmarkType = "steady_garden"
)

// droughtMoisture is the mean moisture below which a window counts as dry.
const droughtMoisture = 25

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable stats windows: harvest spikes, outbreaks,
// dry spells and long stretches of steady income.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	dry           bool // Previous window was below droughtMoisture
	steadyWindows int  // Consecutive windows with plants and non-falling money
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	history := bd.getHistory()
	if len(history) >= 3 {
		add(bd.checkHarvestBoom(stats, history))
		add(spike(BookmarkPestOutbreak, "Pest cells", stats.PestCells, history, func(h WindowStats) int { return h.PestCells }, stats.WindowEndTick, 3))
		add(spike(BookmarkWeedSurge, "Weedy cells", stats.WeedCells, history, func(h WindowStats) int { return h.WeedCells }, stats.WindowEndTick, 4))
	}
	add(bd.checkDrought(stats))
	if len(history) > 0 {
		add(bd.checkSteady(stats, history[bd.prevIdx()]))
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) prevIdx() int {
	return (bd.historyIdx - 1 + bd.historySize) % bd.historySize
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

func (bd *BookmarkDetector) checkHarvestBoom(stats WindowStats, history []WindowStats) *Bookmark {
	var total float64
	for _, h := range history {
		total += h.Revenue
	}
	avg := total / float64(len(history))
	if avg <= 0 || stats.Revenue <= avg*2.0 || stats.Harvests < 3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkHarvestBoom,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Revenue %.2f is %.1fx average (%.2f)", stats.Revenue, stats.Revenue/avg, avg),
	}
}

// spike fires when a count reaches twice its rolling average and at least floor.
func spike(typ BookmarkType, label string, current int, history []WindowStats, get func(WindowStats) int, tick, floor int) *Bookmark {
	var total int
	for _, h := range history {
		total += get(h)
	}
	avg := float64(total) / float64(len(history))
	if current < floor || float64(current) < max(avg*2.0, 1) {
		return nil
	}
	return &Bookmark{
		Type:        typ,
		Tick:        tick,
		Description: fmt.Sprintf("%s rose to %d (average %.1f)", label, current, avg),
	}
}

func (bd *BookmarkDetector) checkDrought(stats WindowStats) *Bookmark {
	wasDry := bd.dry
	bd.dry = stats.MoistureMean < droughtMoisture
	if !bd.dry || wasDry {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDrought,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean moisture fell to %.1f (p10 %.1f)", stats.MoistureMean, stats.MoistureP10),
	}
}

func (bd *BookmarkDetector) checkSteady(stats, prev WindowStats) *Bookmark {
	if stats.Plants == 0 || stats.Money < prev.Money {
		bd.steadyWindows = 0
		return nil
	}
	bd.steadyWindows++
	if bd.steadyWindows != 5 { // trigger exactly once per streak
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSteadyGarden,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Money held or grew for 5 windows with %d plants, now %.2f", stats.Plants, stats.Money),
	}
}
