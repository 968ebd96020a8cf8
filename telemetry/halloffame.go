package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// HallEntry records one harvest and the life of the plant behind it.
type HallEntry struct {
	PlantID     string  `json:"plant_id"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	PlantedTick int     `json:"planted_tick"`
	HarvestTick int     `json:"harvest_tick"`
	Days        float64 `json:"days"` // Sowing to harvest
	Yield       float64 `json:"yield"`
	Revenue     float64 `json:"revenue"`
	PeakSize    float64 `json:"peak_size"`
	PestTicks   int     `json:"pest_ticks"`
	Waterings   int     `json:"waterings"`
	Pollinated  bool    `json:"pollinated"`
}

// HallOfFame keeps the best harvests of a run, one hall per species.
type HallOfFame struct {
	halls   map[string][]HallEntry
	maxSize int
}

// NewHallOfFame creates a new hall of fame with the given capacity per species.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 10
	}
	return &HallOfFame{
		halls:   make(map[string][]HallEntry),
		maxSize: maxSize,
	}
}

// Consider evaluates a harvested plant for its species hall.
// Returns true if the harvest was added.
func (hof *HallOfFame) Consider(species string, stats *LifetimeStats, harvestTick int, minutesPerTick, yield, revenue float64) bool {
	if stats == nil || yield <= 0 {
		return false
	}
	entry := HallEntry{
		PlantID:     stats.PlantID.String(),
		X:           stats.X,
		Y:           stats.Y,
		PlantedTick: stats.PlantedTick,
		HarvestTick: harvestTick,
		Days:        float64(harvestTick-stats.PlantedTick) * minutesPerTick / 1440,
		Yield:       yield,
		Revenue:     revenue,
		PeakSize:    stats.PeakSize,
		PestTicks:   stats.PestTicks,
		Waterings:   stats.Waterings,
		Pollinated:  stats.Pollinated,
	}

	hall, added := hof.insertEntry(hof.halls[species], entry)
	hof.halls[species] = hall
	return added
}

// insertEntry adds an entry to the hall, keeping it sorted by yield.
// If the hall is full, the lowest-yield entry is dropped.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Yield < entry.Yield
	})
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall, true
}

// Best returns the hall for a species, best first.
func (hof *HallOfFame) Best(species string) []HallEntry {
	return hof.halls[species]
}

// Top returns the single best harvest across all species.
func (hof *HallOfFame) Top() (string, HallEntry, bool) {
	var (
		bestSpecies string
		best        HallEntry
		found       bool
	)
	for _, species := range hof.Species() {
		hall := hof.halls[species]
		if len(hall) > 0 && (!found || hall[0].Yield > best.Yield) {
			bestSpecies, best, found = species, hall[0], true
		}
	}
	return bestSpecies, best, found
}

// Species returns the species with at least one entry, sorted by name.
func (hof *HallOfFame) Species() []string {
	names := make([]string, 0, len(hof.halls))
	for name, hall := range hof.halls {
		if len(hall) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clear drops all entries.
func (hof *HallOfFame) Clear() {
	clear(hof.halls)
}

// LogStats logs the size and top yield of each hall.
func (hof *HallOfFame) LogStats() {
	for _, species := range hof.Species() {
		hall := hof.halls[species]
		slog.Info("hall_of_fame",
			"species", species,
			"entries", len(hall),
			"top_yield", hall[0].Yield,
			"top_days", hall[0].Days,
		)
	}
}

// MarshalJSON serializes the hall of fame keyed by species name.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.Marshal(hof.halls)
}

// LoadHallOfFameFromFile reads a hall of fame JSON file.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw map[string][]HallEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	maxSize := 10
	for _, entries := range raw {
		maxSize = max(maxSize, len(entries))
	}

	hof := NewHallOfFame(maxSize)
	for species, entries := range raw {
		for _, e := range entries {
			hof.halls[species], _ = hof.insertEntry(hof.halls[species], e)
		}
	}
	return hof, nil
}
