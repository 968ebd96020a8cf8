package telemetry

import "github.com/google/uuid"

// LifetimeStats tracks one plant from sowing to removal.
type LifetimeStats struct {
	PlantID     uuid.UUID
	Species     int // Index into config.Species
	X, Y        int
	PlantedTick int

	PeakSize   float64
	PestTicks  int // Ticks spent with a pest on the cell
	Waterings  int
	Pollinated bool
}

// LifetimeTracker manages per-plant lifetime statistics.
type LifetimeTracker struct {
	stats map[uuid.UUID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uuid.UUID]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly sown plant.
func (lt *LifetimeTracker) Register(id uuid.UUID, species, x, y, tick int, size float64) {
	lt.stats[id] = &LifetimeStats{
		PlantID:     id,
		Species:     species,
		X:           x,
		Y:           y,
		PlantedTick: tick,
		PeakSize:    size,
	}
}

// Get returns the lifetime stats for a plant, or nil if not found.
func (lt *LifetimeTracker) Get(id uuid.UUID) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a plant's stats and returns them.
func (lt *LifetimeTracker) Remove(id uuid.UUID) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Observe folds one tick of plant state into its stats.
func (lt *LifetimeTracker) Observe(id uuid.UUID, size float64, pest, pollinated bool) {
	if s := lt.stats[id]; s != nil {
		s.PeakSize = max(s.PeakSize, size)
		if pest {
			s.PestTicks++
		}
		s.Pollinated = s.Pollinated || pollinated
	}
}

// RecordWatering counts a watering of the plant's cell.
func (lt *LifetimeTracker) RecordWatering(id uuid.UUID) {
	if s := lt.stats[id]; s != nil {
		s.Waterings++
	}
}

// Len returns the number of tracked plants.
func (lt *LifetimeTracker) Len() int {
	return len(lt.stats)
}

// Clear drops all tracked plants.
func (lt *LifetimeTracker) Clear() {
	clear(lt.stats)
}
