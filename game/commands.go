package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/telemetry"
	"github.com/pthm-cable/garden/traits"
)

// Reason explains why a command did not complete.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonInvalidKind       Reason = "invalid_kind"
	ReasonOccupied          Reason = "occupied"
	ReasonEmpty             Reason = "empty"
	ReasonSenescent         Reason = "senescent"
	ReasonImmature          Reason = "immature"
	ReasonUnpollinated      Reason = "unpollinated"
	ReasonOutOfBounds       Reason = "out_of_bounds"
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonNoTarget          Reason = "no_target"
	ReasonPending           Reason = "pending"
	ReasonNoPending         Reason = "no_pending"
	ReasonInvalidArgument   Reason = "invalid_argument"
)

// Result is the outcome of a command. Domain failures are reported here, never as errors.
type Result struct {
	OK     bool
	Reason Reason
	Coord  components.Coord
	Cost   float64

	// Harvest
	Yield   float64
	Revenue float64

	// PlaceStructure awaiting ConfirmConnect
	Pending   bool
	Neighbors []components.Direction // Same-kind neighbors that would be linked

	Detail string
}

func fail(r Reason) Result {
	return Result{Reason: r}
}

// cellFor resolves a command target, failing out_of_bounds.
func (s *Simulation) cellFor(c components.Coord) (ecs.Entity, Result, bool) {
	e, ok := s.entityAt(c)
	if !ok {
		r := fail(ReasonOutOfBounds)
		r.Coord = c
		return e, r, false
	}
	return e, Result{Coord: c}, true
}

// charge debits cost when affordable.
func (s *Simulation) charge(cost float64) bool {
	if cost > s.money {
		return false
	}
	s.money -= cost
	return true
}

// PlantSeed plants a seedling of species on an empty cell.
func (s *Simulation) PlantSeed(c components.Coord, species string) Result {
	idx, known := s.cfg.Derived.SpeciesIndex[species]
	if !known {
		return Result{Reason: ReasonInvalidKind, Coord: c, Detail: species}
	}
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	if _, empty := s.occupant(e).(components.Empty); !empty {
		res.Reason = ReasonOccupied
		return res
	}
	cost := s.cfg.Species[idx].SeedCost
	if !s.charge(cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}

	p := s.plants.New(idx)
	s.plantMap.Add(e, &p)
	s.lifetimes.Register(p.ID, idx, c.X, c.Y, s.tick, p.Size())
	s.cellMap.Get(e).Status = components.Seedling.String()
	s.emit(telemetry.NewPlantEvent(telemetry.EventPlanted, s.tick, p.ID, species, c.X, c.Y, p.Size()))

	res.OK, res.Cost, res.Detail = true, cost, p.ID.String()
	return res
}

// AddWater waters a cell. Orthogonal neighbors receive a splash fraction.
// On an irrigation structure the water fills its store instead.
func (s *Simulation) AddWater(c components.Coord) Result {
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	cost := s.cfg.Economy.WaterCost
	if !s.charge(cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}
	res.OK, res.Cost = true, cost

	if st, isStruct := s.occupant(e).(*components.Structure); isStruct && st.Kind == components.Irrigation {
		added := s.structures.Fill(st)
		res.Detail = "filled"
		slog.Debug("irrigation_filled", "x", c.X, "y", c.Y, "added", added, "level", st.Water())
		return res
	}

	if p, isPlant := s.occupant(e).(*components.Plant); isPlant {
		s.lifetimes.RecordWatering(p.ID)
	}
	amount := s.cfg.Actions.WaterAmount
	s.soil.AddMoisture(s.soilMap.Get(e), amount)
	for _, n := range s.neighbors(c) {
		s.soil.AddMoisture(s.soilMap.Get(n), amount*s.cfg.Actions.WaterSplash)
	}
	res.Detail = "watered"
	return res
}

// AddAmendment works an amendment (compost, mineral, sand...) into the soil.
func (s *Simulation) AddAmendment(c components.Coord, kind string) Result {
	am, known := s.cfg.AmendmentByName(kind)
	if !known {
		return Result{Reason: ReasonInvalidKind, Coord: c, Detail: kind}
	}
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	if !s.charge(am.Cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}
	s.soil.ApplyAmendment(s.soilMap.Get(e), am)
	res.OK, res.Cost, res.Detail = true, am.Cost, kind
	return res
}

// PlaceStructure builds a structure on an empty cell. A trellis or net placed next to
// structures of its kind is not built yet: the result is pending until ConfirmConnect
// or CancelPending. A newer placement replaces an unresolved one.
func (s *Simulation) PlaceStructure(c components.Coord, kind string) Result {
	idx, known := s.cfg.Derived.StructureIndex[kind]
	if !known {
		return Result{Reason: ReasonInvalidKind, Coord: c, Detail: kind}
	}
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	if _, empty := s.occupant(e).(components.Empty); !empty {
		res.Reason = ReasonOccupied
		return res
	}
	cost := s.cfg.Structures[idx].Cost
	if cost > s.money {
		res.Reason = ReasonInsufficientFunds
		return res
	}

	st := s.structures.New(idx)
	if st.Kind.Connectable() {
		if dirs := systems.SameKindNeighbors(s, c, st.Kind); len(dirs) > 0 {
			if s.pending != nil {
				slog.Info("pending_superseded", "x", s.pending.Coord.X, "y", s.pending.Coord.Y)
			}
			s.pending = &PendingPlacement{Coord: c, Structure: kind, ConfigIdx: idx, Neighbors: dirs}
			res.Reason, res.Pending, res.Neighbors, res.Detail = ReasonPending, true, dirs, kind
			return res
		}
	}

	s.charge(cost)
	s.placeStructure(e, c, &st)
	res.OK, res.Cost, res.Detail = true, cost, kind
	return res
}

// placeStructure adds st to the cell entity. The entity must be empty.
func (s *Simulation) placeStructure(e ecs.Entity, c components.Coord, st *components.Structure) {
	s.structMap.Add(e, st)
	s.cellMap.Get(e).Status = st.Kind.String()
	s.emit(telemetry.NewStructureEvent(telemetry.EventStructurePlaced, s.tick, s.cfg.Structures[st.Config].Name, c.X, c.Y))
}

// Till turns a cell over: removes any plant (returning residue) or structure,
// clears weeds and pests and loosens the soil.
func (s *Simulation) Till(c components.Coord) Result {
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	cost := s.cfg.Economy.TillCost
	if !s.charge(cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}

	switch s.occupant(e).(type) {
	case *components.Plant:
		s.removePlant(e, telemetry.EventPlantRemoved, true)
	case *components.Structure:
		s.removeStructure(e)
	case components.Empty:
	}
	pw := s.pwMap.Get(e)
	pw.ClearPest()
	pw.SetWeedLevel(0)
	s.soil.Loosen(s.soilMap.Get(e), s.cfg.Actions.TillCompaction)
	s.cellMap.Get(e).Status = "empty"

	res.OK, res.Cost, res.Detail = true, cost, "tilled"
	return res
}

// ApplyPestTreatment clears the pest on a cell.
func (s *Simulation) ApplyPestTreatment(c components.Coord) Result {
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	pw := s.pwMap.Get(e)
	if !pw.HasPest() {
		res.Reason = ReasonNoTarget
		return res
	}
	cost := s.cfg.Economy.TreatmentCost
	if !s.charge(cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}
	pest := pw.Pest()
	pw.ClearPest()
	s.emit(telemetry.NewPestEvent(telemetry.EventPestTreated, s.tick, c.X, c.Y, pest.String(), 0))
	res.OK, res.Cost, res.Detail = true, cost, pest.String()
	return res
}

// ApplySoilConditioner steps pH toward the optimal band and loosens the soil.
func (s *Simulation) ApplySoilConditioner(c components.Coord) Result {
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	cost := s.cfg.Economy.ConditionerCost
	if !s.charge(cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}
	soil := s.soilMap.Get(e)
	s.soil.NudgePH(soil, s.cfg.Actions.ConditionerPHStep)
	s.soil.Loosen(soil, s.cfg.Actions.ConditionerCompaction)
	res.OK, res.Cost = true, cost
	return res
}

// Harvest picks a ripe plant, credits its revenue and removes it.
// Failure reasons are checked in order: empty, senescent, immature, unpollinated.
func (s *Simulation) Harvest(c components.Coord) Result {
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	p, isPlant := s.occupant(e).(*components.Plant)
	if !isPlant {
		res.Reason = ReasonEmpty
		return res
	}
	sp := &s.cfg.Species[p.Species]
	switch {
	case p.Stage() == components.Senescent:
		res.Reason = ReasonSenescent
		return res
	case int(p.Stage()) < sp.HarvestStageIdx:
		res.Reason = ReasonImmature
		return res
	case sp.TraitSet.Has(traits.NeedsPollination) && !p.Pollinated:
		res.Reason = ReasonUnpollinated
		return res
	}

	yield := s.yieldOf(p, c)
	revenue := yield * sp.Price
	s.money += revenue
	entry := &s.ledger[p.Species]
	entry.Yield += yield
	entry.Harvests++
	s.collector.RecordHarvest(yield, revenue)
	s.hallOfFame.Consider(sp.Name, s.lifetimes.Get(p.ID), s.tick, s.cfg.Derived.MinutesPerTick, yield, revenue)

	if sp.TraitSet.Has(traits.Perennial) {
		slog.Warn("perennial_regrowth_not_implemented", "species", sp.Name, "x", c.X, "y", c.Y)
	}
	s.emit(telemetry.NewPlantEvent(telemetry.EventHarvested, s.tick, p.ID, sp.Name, c.X, c.Y, yield))
	s.removePlant(e, telemetry.EventPlantRemoved, false)
	s.cellMap.Get(e).Status = "empty"

	res.OK, res.Yield, res.Revenue, res.Detail = true, yield, revenue, sp.Name
	return res
}

// yieldOf computes harvest yield: max yield scaled by size and health, with the
// trellis bonus for trellis-loving species and the pollination bonus.
func (s *Simulation) yieldOf(p *components.Plant, c components.Coord) float64 {
	sp := &s.cfg.Species[p.Species]
	health := (p.RootHealth() + p.StemHealth()) / 200
	y := sp.MaxYield * p.Size() * health
	if sp.TraitSet.Has(traits.TrellisLoving) {
		if sup := s.supportAt(c); sup.Trellis {
			y *= sup.YieldBonus
		}
	}
	if p.Pollinated {
		y *= 1 + s.cfg.Plant.PollinationBonus
	}
	return y
}

// RemoveEntity removes the plant or structure on a cell without tilling.
func (s *Simulation) RemoveEntity(c components.Coord) Result {
	e, res, ok := s.cellFor(c)
	if !ok {
		return res
	}
	switch s.occupant(e).(type) {
	case *components.Plant:
		s.removePlant(e, telemetry.EventPlantRemoved, true)
	case *components.Structure:
		s.removeStructure(e)
	case components.Empty:
		res.Reason = ReasonEmpty
		return res
	}
	s.cellMap.Get(e).Status = "empty"
	res.OK = true
	return res
}
