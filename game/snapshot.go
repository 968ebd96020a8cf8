package game

import (
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/telemetry"
)

// LedgerEntry accumulates harvests of one species.
type LedgerEntry struct {
	Species  string
	Yield    float64 // Cumulative
	Price    float64 // Per unit yield
	Harvests int
}

// PlantSnapshot is a read-only copy of a plant.
type PlantSnapshot struct {
	ID          string
	Species     string
	Stage       string
	Size        float64
	RootHealth  float64
	StemHealth  float64
	RootDensity float64
	CHO         float64
	ATP         float64
	Progress    float64
	Pollinated  bool
	AgeDays     float64
}

// StructureSnapshot is a read-only copy of a structure.
type StructureSnapshot struct {
	Name        string
	Kind        string
	Water       float64 // Irrigation only
	Capacity    float64
	Connections []components.Direction // Trellis and net only
}

// CellSnapshot is a read-only view of one cell.
type CellSnapshot struct {
	Coord components.Coord

	// Soil
	Moisture    float64
	Compaction  float64
	Microbes    float64
	Organic     float64
	BN          float64
	PH          float64
	Nutrition   float64
	Condition   float64
	Oxygen      float64
	WetDuration int

	// At most one of Plant and Structure is set.
	Plant     *PlantSnapshot
	Structure *StructureSnapshot

	Pest      string
	PestLevel int
	WeedLevel int
	Status    string
}

// GlobalSnapshot is a read-only view of the global garden state.
type GlobalSnapshot struct {
	Tick        int
	Temperature float64
	Humidity    float64
	WindSpeed   float64
	WindDir     string
	Pollination bool
	TimeOfDay   float64 // Minutes since midnight
	Days        float64
	Money       float64
	Pollinator  components.Coord
	Attraction  float64
	Ledger      []LedgerEntry
	Pending     *PendingPlacement
}

// CellAt returns a snapshot of the cell at c.
func (s *Simulation) CellAt(c components.Coord) (CellSnapshot, bool) {
	e, ok := s.entityAt(c)
	if !ok {
		return CellSnapshot{}, false
	}

	soil := s.soilMap.Get(e)
	pw := s.pwMap.Get(e)
	snap := CellSnapshot{
		Coord:       c,
		Moisture:    soil.Moisture(),
		Compaction:  soil.Compaction(),
		Microbes:    soil.Microbes(),
		Organic:     soil.Organic(),
		BN:          soil.BN(),
		PH:          soil.PH(),
		Nutrition:   soil.Nutrition(),
		Condition:   soil.Condition(),
		Oxygen:      soil.Oxygen(),
		WetDuration: soil.WetDuration(),
		Pest:        pw.Pest().String(),
		PestLevel:   pw.PestLevel(),
		WeedLevel:   pw.WeedLevel(),
		Status:      s.cellMap.Get(e).Status,
	}

	switch occ := s.occupant(e).(type) {
	case components.Empty:
	case *components.Plant:
		snap.Plant = &PlantSnapshot{
			ID:          occ.ID.String(),
			Species:     s.cfg.Species[occ.Species].Name,
			Stage:       occ.Stage().String(),
			Size:        occ.Size(),
			RootHealth:  occ.RootHealth(),
			StemHealth:  occ.StemHealth(),
			RootDensity: occ.RootDensity(),
			CHO:         occ.CHO(),
			ATP:         occ.ATP(),
			Progress:    occ.Progress(),
			Pollinated:  occ.Pollinated,
			AgeDays:     occ.AgeDays,
		}
	case *components.Structure:
		st := &StructureSnapshot{
			Name:     s.cfg.Structures[occ.Config].Name,
			Kind:     occ.Kind.String(),
			Water:    occ.Water(),
			Capacity: occ.Capacity(),
		}
		for _, d := range components.Cardinals {
			if occ.Connected(d) {
				st.Connections = append(st.Connections, d)
			}
		}
		snap.Structure = st
	default:
		panic("game: unhandled occupant")
	}
	return snap, true
}

// Cells returns snapshots of every cell in row-major order.
func (s *Simulation) Cells() []CellSnapshot {
	out := make([]CellSnapshot, 0, len(s.order))
	for _, e := range s.order {
		snap, _ := s.CellAt(s.cellMap.Get(e).Coord)
		out = append(out, snap)
	}
	return out
}

// Ledger returns a copy of the harvest ledger, indexed like the species table.
func (s *Simulation) Ledger() []LedgerEntry {
	out := make([]LedgerEntry, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// Global returns a snapshot of the global state.
func (s *Simulation) Global() GlobalSnapshot {
	w := s.weather
	g := GlobalSnapshot{
		Tick:        s.tick,
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		WindSpeed:   w.WindSpeed,
		WindDir:     w.WindDir.String(),
		Pollination: w.Pollination,
		TimeOfDay:   w.TimeOfDay,
		Days:        w.Days,
		Money:       s.money,
		Pollinator:  w.Pollinator,
		Attraction:  w.Attraction,
		Ledger:      s.Ledger(),
	}
	if s.pending != nil {
		pp := *s.pending
		pp.Neighbors = append([]components.Direction(nil), s.pending.Neighbors...)
		g.Pending = &pp
	}
	return g
}

// Revenue returns the total harvest revenue so far.
func (s *Simulation) Revenue() float64 {
	var total float64
	for _, e := range s.ledger {
		total += e.Yield * e.Price
	}
	return total
}

// SoilValue returns the soil field with a components.SoilFieldDescriptors id.
func (c CellSnapshot) SoilValue(id string) (float64, bool) {
	switch id {
	case "moisture":
		return c.Moisture, true
	case "wet_duration":
		return float64(c.WetDuration), true
	case "compaction":
		return c.Compaction, true
	case "oxygen":
		return c.Oxygen, true
	case "organic":
		return c.Organic, true
	case "bn":
		return c.BN, true
	case "microbes":
		return c.Microbes, true
	case "ph":
		return c.PH, true
	case "nutrition":
		return c.Nutrition, true
	case "condition":
		return c.Condition, true
	}
	return 0, false
}

// Value returns the plant field with a components.PlantFieldDescriptors id.
func (p *PlantSnapshot) Value(id string) (float64, bool) {
	switch id {
	case "size":
		return p.Size, true
	case "progress":
		return p.Progress, true
	case "age_days":
		return p.AgeDays, true
	case "root_health":
		return p.RootHealth, true
	case "stem_health":
		return p.StemHealth, true
	case "root_density":
		return p.RootDensity, true
	case "cho":
		return p.CHO, true
	case "atp":
		return p.ATP, true
	}
	return 0, false
}

// Snapshot captures the garden for JSON export, tagged with an optional bookmark.
func (s *Simulation) Snapshot(bm *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        s.seed,
		Climate:     s.cfg.Weather.Climate,
		Width:       s.cfg.World.Width,
		Height:      s.cfg.World.Height,
		Tick:        s.tick,
		Days:        s.weather.Days,
		Money:       s.money,
		Temperature: s.weather.Temperature,
		Humidity:    s.weather.Humidity,
		Cells:       make([]telemetry.CellState, 0, len(s.order)),
		Bookmark:    bm,
	}
	for _, c := range s.Cells() {
		cs := telemetry.CellState{
			X:          c.Coord.X,
			Y:          c.Coord.Y,
			Moisture:   c.Moisture,
			Compaction: c.Compaction,
			Oxygen:     c.Oxygen,
			Organic:    c.Organic,
			BN:         c.BN,
			Microbes:   c.Microbes,
			PH:         c.PH,
			PestLevel:  c.PestLevel,
			WeedLevel:  c.WeedLevel,
		}
		if c.PestLevel > 0 {
			cs.Pest = c.Pest
		}
		if p := c.Plant; p != nil {
			cs.Plant = &telemetry.PlantState{
				ID:         p.ID,
				Species:    p.Species,
				Stage:      p.Stage,
				Size:       p.Size,
				RootHealth: p.RootHealth,
				StemHealth: p.StemHealth,
				Progress:   p.Progress,
				Pollinated: p.Pollinated,
			}
		}
		if st := c.Structure; st != nil {
			ss := &telemetry.StructureState{Name: st.Name, Kind: st.Kind, Water: st.Water}
			for _, d := range st.Connections {
				ss.Connections = append(ss.Connections, d.String())
			}
			cs.Structure = ss
		}
		snap.Cells = append(snap.Cells, cs)
	}
	return snap
}
