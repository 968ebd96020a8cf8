// Package telemetry provides garden event tracking, window statistics and run output.
package telemetry

import "github.com/google/uuid"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventPlanted EventType = iota
	EventStageChanged
	EventPollinated
	EventHarvested
	EventPlantDied
	EventPlantRemoved
	EventPestSpawned
	EventPestLeveledUp
	EventPestReduced
	EventPestRemoved
	EventPestCleared
	EventPestTreated
	EventWeedSeeded
	EventWeedSpread
	EventStructurePlaced
	EventStructureRemoved
	EventStructureConnected
)

var eventNames = [...]string{
	EventPlanted:            "planted",
	EventStageChanged:       "stage_changed",
	EventPollinated:         "pollinated",
	EventHarvested:          "harvested",
	EventPlantDied:          "plant_died",
	EventPlantRemoved:       "plant_removed",
	EventPestSpawned:        "pest_spawned",
	EventPestLeveledUp:      "pest_leveled_up",
	EventPestReduced:        "pest_reduced",
	EventPestRemoved:        "pest_removed",
	EventPestCleared:        "pest_cleared",
	EventPestTreated:        "pest_treated",
	EventWeedSeeded:         "weed_seeded",
	EventWeedSpread:         "weed_spread",
	EventStructurePlaced:    "structure_placed",
	EventStructureRemoved:   "structure_removed",
	EventStructureConnected: "structure_connected",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type EventType `csv:"-" db:"-"`
	Name string    `csv:"event" db:"event"`
	Tick int       `csv:"tick" db:"tick"`
	X    int       `csv:"x" db:"x"`
	Y    int       `csv:"y" db:"y"`

	// Optional fields depending on event type
	PlantID string  `csv:"plant_id" db:"plant_id"`
	Subject string  `csv:"subject" db:"subject"` // species, structure or pest name
	Detail  string  `csv:"detail" db:"detail"`   // stage for stage changes
	Level   int     `csv:"level" db:"level"`     // pest level
	Amount  float64 `csv:"amount" db:"amount"`   // plant size, or yield for harvests
}

func newEvent(t EventType, tick, x, y int) Event {
	return Event{Type: t, Name: t.String(), Tick: tick, X: x, Y: y}
}

// NewPlantEvent creates an event about one plant.
func NewPlantEvent(t EventType, tick int, id uuid.UUID, species string, x, y int, amount float64) Event {
	ev := newEvent(t, tick, x, y)
	ev.PlantID = id.String()
	ev.Subject = species
	ev.Amount = amount
	return ev
}

// NewStageEvent creates a growth stage transition event.
func NewStageEvent(tick int, id uuid.UUID, species string, x, y int, stage string) Event {
	ev := newEvent(EventStageChanged, tick, x, y)
	ev.PlantID = id.String()
	ev.Subject = species
	ev.Detail = stage
	return ev
}

// NewPestEvent creates a pest event. Level is the pest level after the change.
func NewPestEvent(t EventType, tick, x, y int, pest string, level int) Event {
	ev := newEvent(t, tick, x, y)
	ev.Subject = pest
	ev.Level = level
	return ev
}

// NewCellEvent creates an event carrying only a cell position.
func NewCellEvent(t EventType, tick, x, y int) Event {
	return newEvent(t, tick, x, y)
}

// NewStructureEvent creates a structure event.
func NewStructureEvent(t EventType, tick int, name string, x, y int) Event {
	ev := newEvent(t, tick, x, y)
	ev.Subject = name
	return ev
}
