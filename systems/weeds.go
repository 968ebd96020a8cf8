package systems

import (
	"math/rand"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// WeedModel runs weed growth, nutrient drain, seeding and downwind spread.
type WeedModel struct {
	cfg  *config.WeedConfig
	soil *SoilModel
}

// NewWeedModel creates a weed model that drains BN through the given soil model.
func NewWeedModel(cfg *config.Config, soil *SoilModel) *WeedModel {
	return &WeedModel{cfg: &cfg.Weeds, soil: soil}
}

// Grow applies one tick of weed growth and BN drain to a cell.
// Cells without weeds may be seeded when canSeed is set and the soil is moist enough.
// Returns true when a new weed appeared.
func (m *WeedModel) Grow(pw *components.PestWeed, s *components.Soil, canSeed bool, rng *rand.Rand) bool {
	level := pw.WeedLevel()
	if level == 0 {
		if canSeed && s.Moisture() > m.cfg.SeedMoisture && rng.Float64() < m.cfg.SeedChance {
			pw.SetWeedLevel(1)
			return true
		}
		return false
	}

	if level < components.MaxWeedLevel && rng.Float64() < m.cfg.GrowthChance {
		level++
		pw.SetWeedLevel(level)
	}
	m.soil.DrawBN(s, m.cfg.BNDrain*float64(level))
	return false
}

// Downwind reports whether offset (dx, dy) lies in the half-plane away from the wind source.
// Wind is named by where it comes from: an east wind carries seeds west.
func Downwind(wind components.Direction, dx, dy int) bool {
	switch wind {
	case components.DirEast:
		return dx < 0
	case components.DirWest:
		return dx > 0
	case components.DirNorth:
		return dy > 0
	case components.DirSouth:
		return dy < 0
	default:
		return true
	}
}

// SpreadTarget picks the cell a max-level weed spreads to this tick, if any.
// eligible reports whether a neighbor is in bounds, unoccupied and weed-free.
func (m *WeedModel) SpreadTarget(pw *components.PestWeed, at components.Coord, wind components.Direction,
	eligible func(components.Coord) bool, rng *rand.Rand) (components.Coord, bool) {
	if pw.WeedLevel() < components.MaxWeedLevel || rng.Float64() >= m.cfg.SpreadChance {
		return components.Coord{}, false
	}
	var candidates []components.Coord
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx == 0 && dy == 0) || !Downwind(wind, dx, dy) {
				continue
			}
			c := at.Add(dx, dy)
			if eligible(c) {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return components.Coord{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}
