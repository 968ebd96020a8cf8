package systems

import (
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// StructureModel applies irrigation and support structure rules.
type StructureModel struct {
	cfg *config.Config
}

// NewStructureModel creates a structure model from config.
func NewStructureModel(cfg *config.Config) *StructureModel {
	return &StructureModel{cfg: cfg}
}

// New builds a structure from its config entry.
func (m *StructureModel) New(configIdx int) components.Structure {
	sc := &m.cfg.Structures[configIdx]
	kind, _ := components.ParseStructureKind(sc.Kind)
	return components.NewStructure(kind, configIdx, sc.Capacity, sc.InitialWater)
}

// ---------- Irrigation ----------

// WaterShare is an amount of released water destined for one cell.
type WaterShare struct {
	Coord  components.Coord
	Amount float64
}

// IrrigationRings returns the in-bounds cells at Chebyshev distance 1 and 2 from center,
// in row-major order.
func IrrigationRings(center components.Coord, width, height int) (inner, outer []components.Coord) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := center.Add(dx, dy)
			if c.X < 0 || c.Y < 0 || c.X >= width || c.Y >= height {
				continue
			}
			if max(abs(dx), abs(dy)) == 1 {
				inner = append(inner, c)
			} else {
				outer = append(outer, c)
			}
		}
	}
	return inner, outer
}

// Release takes up to one tick's release from storage and splits it over the rings.
// The inner ring gets innerShare and the outer ring the rest, each divided evenly.
// A missing ring passes its share to the other. Nothing is released when both are empty.
func (m *StructureModel) Release(st *components.Structure, center components.Coord) []WaterShare {
	if st.Kind != components.Irrigation {
		return nil
	}
	sc := &m.cfg.Structures[st.Config]
	inner, outer := IrrigationRings(center, m.cfg.World.Width, m.cfg.World.Height)
	if len(inner) == 0 && len(outer) == 0 {
		return nil
	}

	released := min(sc.ReleaseRate, st.Water())
	if released <= 0 {
		return nil
	}
	st.SetWater(st.Water() - released)

	innerAmount := released * clamp01(sc.InnerShare)
	outerAmount := released - innerAmount
	switch {
	case len(outer) == 0:
		innerAmount, outerAmount = released, 0
	case len(inner) == 0:
		innerAmount, outerAmount = 0, released
	}

	shares := make([]WaterShare, 0, len(inner)+len(outer))
	for _, c := range inner {
		shares = append(shares, WaterShare{Coord: c, Amount: innerAmount / float64(len(inner))})
	}
	for _, c := range outer {
		shares = append(shares, WaterShare{Coord: c, Amount: outerAmount / float64(len(outer))})
	}
	return shares
}

// Fill tops up an irrigation store by the configured increment, capped at capacity.
// Returns the amount added.
func (m *StructureModel) Fill(st *components.Structure) float64 {
	if st.Kind != components.Irrigation {
		return 0
	}
	before := st.Water()
	st.SetWater(before + m.cfg.Structures[st.Config].FillIncrement)
	return st.Water() - before
}

// ---------- Support modifiers ----------

// Support holds the modifiers a plant receives from adjacent support structures.
type Support struct {
	Trellis         bool
	Net             bool
	YieldBonus      float64 // Yield multiplier for trellis-loving species
	BNReduction     float64 // Fraction of BN draw removed for trellis-loving species
	HeatMitigation  float64 // Fraction of heat damage removed
	SapLevelUpScale float64 // Multiplier on sap-feeder level-up chance
}

// NoSupport is the neutral modifier set.
func NoSupport() Support {
	return Support{YieldBonus: 1, SapLevelUpScale: 1}
}

// SupportFrom combines the modifiers of neighboring structures. The strongest
// structure of each kind applies; duplicates do not stack.
func (m *StructureModel) SupportFrom(neighbors []*components.Structure) Support {
	sup := NoSupport()
	for _, st := range neighbors {
		sc := &m.cfg.Structures[st.Config]
		switch st.Kind {
		case components.Trellis:
			sup.Trellis = true
			sup.YieldBonus = max(sup.YieldBonus, sc.YieldBonus)
			sup.BNReduction = max(sup.BNReduction, clamp01(sc.BNReduction))
		case components.Net:
			sup.Net = true
			sup.HeatMitigation = max(sup.HeatMitigation, clamp01(sc.HeatMitigation))
			sup.SapLevelUpScale = min(sup.SapLevelUpScale, sc.SapLevelUpScale)
		}
	}
	return sup
}

// ---------- Connectivity ----------

// StructureGrid gives access to the structures of neighboring cells.
type StructureGrid interface {
	StructureAt(c components.Coord) (*components.Structure, bool)
}

// SameKindNeighbors lists the orthogonal directions holding a structure of kind.
func SameKindNeighbors(grid StructureGrid, at components.Coord, kind components.StructureKind) []components.Direction {
	var dirs []components.Direction
	for _, d := range components.Cardinals {
		dx, dy := d.Offset()
		if n, ok := grid.StructureAt(at.Add(dx, dy)); ok && n.Kind == kind {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Connect links st at `at` with every same-kind orthogonal neighbor, setting both sides.
// Returns the linked directions.
func Connect(grid StructureGrid, at components.Coord, st *components.Structure) []components.Direction {
	if !st.Kind.Connectable() {
		return nil
	}
	dirs := SameKindNeighbors(grid, at, st.Kind)
	for _, d := range dirs {
		dx, dy := d.Offset()
		n, _ := grid.StructureAt(at.Add(dx, dy))
		st.SetConnected(d, true)
		n.SetConnected(d.Opposite(), true)
	}
	return dirs
}

// Disconnect clears every link of st and the mirrored flag on each linked neighbor.
func Disconnect(grid StructureGrid, at components.Coord, st *components.Structure) []components.Direction {
	var cleared []components.Direction
	for _, d := range components.Cardinals {
		if !st.Connected(d) {
			continue
		}
		dx, dy := d.Offset()
		if n, ok := grid.StructureAt(at.Add(dx, dy)); ok {
			n.SetConnected(d.Opposite(), false)
		}
		st.SetConnected(d, false)
		cleared = append(cleared, d)
	}
	return cleared
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
