package systems

import (
	"math/rand"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// PestEnv is what the pest rules read for one cell.
type PestEnv struct {
	HasPlant         bool
	Humidity         float64
	Attraction       float64 // Global beneficial attraction
	SuppressorNearby bool    // A nematode-suppressing plant occupies or borders the cell
	Support          Support
}

// PestChange describes what happened to a cell's pest this tick.
type PestChange uint8

const (
	PestUnchanged PestChange = iota
	PestSpawned
	PestLeveledUp
	PestReduced
	PestRemoved
	PestCleared // Host plant gone
)

func (c PestChange) String() string {
	switch c {
	case PestSpawned:
		return "pest_spawned"
	case PestLeveledUp:
		return "pest_leveled_up"
	case PestReduced:
		return "pest_reduced"
	case PestRemoved:
		return "pest_removed"
	case PestCleared:
		return "pest_cleared"
	default:
		return "pest_unchanged"
	}
}

// PestModel runs stochastic pest spawn, level-up and removal.
type PestModel struct {
	cfg *config.PestConfig
}

// NewPestModel creates a pest model from config.
func NewPestModel(cfg *config.Config) *PestModel {
	return &PestModel{cfg: &cfg.Pests}
}

// SpawnChances returns the per-tick spawn probabilities for an empty pest slot.
func (m *PestModel) SpawnChances(s *components.Soil, env PestEnv) (sap, root float64) {
	if !env.HasPlant {
		return 0, 0
	}
	sc, rc := &m.cfg.SapFeeder, &m.cfg.RootFeeder

	rootConditions := s.WetDuration() >= rc.WetDuration && s.Microbes() < rc.MaxMicrobes
	if rootConditions {
		root = rc.SpawnChance
		if env.SuppressorNearby {
			root *= rc.Suppression
		}
	}

	sap = sc.SpawnChance
	if s.Moisture() > sc.MoistureThreshold || env.Humidity > sc.HumidityThreshold {
		sap *= 2
	}
	if rootConditions {
		sap *= sc.CompetingScale
	}
	return sap, root
}

// Update applies one tick of pest rules to a cell and reports the change.
func (m *PestModel) Update(pw *components.PestWeed, s *components.Soil, env PestEnv, rng *rand.Rand) PestChange {
	if !env.HasPlant {
		if pw.HasPest() {
			pw.ClearPest()
			return PestCleared
		}
		return PestUnchanged
	}

	if !pw.HasPest() {
		sap, root := m.SpawnChances(s, env)
		// Root-feeder draw takes precedence
		if rng.Float64() < root {
			pw.SetPest(components.RootFeeder, 1)
			return PestSpawned
		}
		if rng.Float64() < sap {
			pw.SetPest(components.SapFeeder, 1)
			return PestSpawned
		}
		return PestUnchanged
	}

	change := PestUnchanged
	kind, level := pw.Pest(), pw.PestLevel()

	levelUp := m.cfg.RootFeeder.LevelUpChance
	if kind == components.SapFeeder {
		levelUp = m.cfg.SapFeeder.LevelUpChance * env.Support.SapLevelUpScale
	}
	if level < components.MaxPestLevel && rng.Float64() < levelUp {
		level++
		pw.SetPest(kind, level)
		change = PestLeveledUp
	}

	switch kind {
	case components.SapFeeder:
		sc := &m.cfg.SapFeeder
		if env.Attraction > sc.AttractionThreshold && rng.Float64() < sc.RemovalPerAttraction*env.Attraction {
			pw.SetPest(kind, level-1)
			if pw.HasPest() {
				change = PestReduced
			} else {
				change = PestRemoved
			}
		}
	case components.RootFeeder:
		rc := &m.cfg.RootFeeder
		if s.Microbes() > rc.RemovalMicrobes && rng.Float64() < rc.RemovalChance {
			pw.ClearPest()
			change = PestRemoved
		}
	}
	return change
}
