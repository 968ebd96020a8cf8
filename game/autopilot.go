package game

import (
	"log/slog"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// irrigationReserve is the money kept back when the autopilot builds irrigation.
const irrigationReserve = 20

// Autopilot is a scripted gardener for headless runs and parameter tuning.
// It lays out irrigation once, then periodically harvests, clears, waters,
// refills and replants.
type Autopilot struct {
	cfg  *config.AutopilotConfig
	next int // Rotation position of the next seed
}

// ActStats counts the commands issued in one autopilot pass.
type ActStats struct {
	Harvests int
	Planted  int
	Watered  int
	Refilled int
	Tilled   int
	Treated  int
	Revenue  float64
}

// NewAutopilot creates an autopilot from config.
func NewAutopilot(cfg *config.Config) *Autopilot {
	return &Autopilot{cfg: &cfg.Autopilot}
}

// Setup places irrigation on a regular lattice while money allows.
func (a *Autopilot) Setup(s *Simulation) int {
	step := a.cfg.IrrigationStep
	if step <= 0 {
		return 0
	}
	name, cost, ok := irrigationConfig(s.cfg)
	if !ok {
		return 0
	}

	placed := 0
	for y := step / 2; y < s.cfg.World.Height; y += step {
		for x := step / 2; x < s.cfg.World.Width; x += step {
			if s.money < cost+irrigationReserve {
				return placed
			}
			if s.PlaceStructure(components.Coord{X: x, Y: y}, name).OK {
				placed++
			}
		}
	}
	return placed
}

func irrigationConfig(cfg *config.Config) (string, float64, bool) {
	for _, st := range cfg.Structures {
		if st.Kind == components.Irrigation.String() {
			return st.Name, st.Cost, true
		}
	}
	return "", 0, false
}

// Run advances the simulation by ticks headless ticks, acting every ActEvery ticks.
func (a *Autopilot) Run(s *Simulation, ticks int) ActStats {
	var total ActStats
	minutes := s.cfg.Derived.MinutesPerTick
	for i := 0; i < ticks; i++ {
		s.Step(minutes)
		if a.cfg.ActEvery > 0 && s.tick%a.cfg.ActEvery == 0 {
			st := a.Act(s)
			total.add(st)
		}
	}
	return total
}

func (t *ActStats) add(o ActStats) {
	t.Harvests += o.Harvests
	t.Planted += o.Planted
	t.Watered += o.Watered
	t.Refilled += o.Refilled
	t.Tilled += o.Tilled
	t.Treated += o.Treated
	t.Revenue += o.Revenue
}

// Act makes one pass over the garden in row-major order.
func (a *Autopilot) Act(s *Simulation) ActStats {
	var st ActStats
	for _, e := range s.order {
		c := s.cellMap.Get(e).Coord

		switch occ := s.occupant(e).(type) {
		case *components.Structure:
			if occ.Kind == components.Irrigation && occ.Water() < a.cfg.RefillBelow {
				if s.AddWater(c).OK {
					st.Refilled++
				}
			}
			continue

		case *components.Plant:
			if occ.Stage() == components.Senescent {
				s.RemoveEntity(c)
				break
			}
			if res := s.Harvest(c); res.OK {
				st.Harvests++
				st.Revenue += res.Revenue
				break
			}
			if s.pwMap.Get(e).PestLevel() >= 2 && s.ApplyPestTreatment(c).OK {
				st.Treated++
			}

		case components.Empty:
		}

		if _, empty := s.occupant(e).(components.Empty); empty {
			if s.pwMap.Get(e).WeedLevel() > 0 && s.Till(c).OK {
				st.Tilled++
			}
			if a.plant(s, c) {
				st.Planted++
			}
		}

		if s.soilMap.Get(e).Moisture() < a.cfg.WaterBelow && s.AddWater(c).OK {
			st.Watered++
		}
	}
	if st.Harvests > 0 || st.Planted > 0 {
		slog.Debug("autopilot_pass", "tick", s.tick, "harvests", st.Harvests, "planted", st.Planted,
			"watered", st.Watered, "money", s.money)
	}
	return st
}

// plant sows the next species in the rotation. The rotation only advances on success.
func (a *Autopilot) plant(s *Simulation, c components.Coord) bool {
	if len(a.cfg.Rotation) == 0 {
		return false
	}
	species := a.cfg.Rotation[a.next%len(a.cfg.Rotation)]
	if !s.PlantSeed(c, species).OK {
		return false
	}
	a.next++
	return true
}
