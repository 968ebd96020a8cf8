package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/telemetry"
	"github.com/pthm-cable/garden/traits"
)

// Options configures a new Simulation.
type Options struct {
	Config *config.Config // nil = embedded defaults
	Seed   int64          // 0 = config world.seed, then time-based

	// Telemetry
	StatsCallback    func(telemetry.WindowStats) // Called once per stats window
	EventCallback    func(telemetry.Event)       // Called for every emitted event
	BookmarkCallback func(telemetry.Bookmark)    // Called for every triggered bookmark
	Output           *telemetry.OutputManager    // CSV output, may be nil
	Store            *telemetry.Store            // SQLite run history, may be nil
	LogStats         bool                        // Log window stats through slog
	Perf             *telemetry.PerfCollector    // Per-phase tick timing, may be nil
}

// Simulation owns the garden: the cell entities, global weather, money and ledger.
// It is single-threaded; commands and ticks must not run concurrently.
type Simulation struct {
	cfg  *config.Config
	opts Options
	seed int64
	rng  *rand.Rand

	world *ecs.World

	// Every cell entity carries Cell, Soil and PestWeed.
	// Plant and Structure are optional and mutually exclusive.
	cellMapper *ecs.Map3[components.Cell, components.Soil, components.PestWeed]
	cellMap    *ecs.Map[components.Cell]
	soilMap    *ecs.Map[components.Soil]
	pwMap      *ecs.Map[components.PestWeed]
	plantMap   *ecs.Map[components.Plant]
	structMap  *ecs.Map[components.Structure]
	plantQuery *ecs.Filter2[components.Cell, components.Plant]

	// Cells keyed by coordinate, and the fixed row-major update order.
	index map[components.Coord]ecs.Entity
	order []ecs.Entity

	soil       *systems.SoilModel
	plants     *systems.PlantModel
	structures *systems.StructureModel
	pests      *systems.PestModel
	weeds      *systems.WeedModel
	weather    *systems.Weather

	money   float64
	ledger  []LedgerEntry // Indexed like config.Species
	pending *PendingPlacement
	tick    int

	collector  *telemetry.Collector
	events     []telemetry.Event // Buffered for output until the window flushes
	runID      int64
	lifetimes  *telemetry.LifetimeTracker
	hallOfFame *telemetry.HallOfFame
	bookmarks  *telemetry.BookmarkDetector
}

// NewSimulation creates a simulation with a freshly generated garden.
func NewSimulation(opts Options) *Simulation {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulation{cfg: cfg, opts: opts, seed: seed}
	s.soil = systems.NewSoilModel(cfg)
	s.plants = systems.NewPlantModel(cfg, s.soil)
	s.structures = systems.NewStructureModel(cfg)
	s.pests = systems.NewPestModel(cfg)
	s.weeds = systems.NewWeedModel(cfg, s.soil)
	s.collector = telemetry.NewCollector(cfg.Telemetry.WindowTicks, cfg.Derived.MinutesPerTick)
	s.lifetimes = telemetry.NewLifetimeTracker()
	s.hallOfFame = telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)
	s.Reset()
	return s
}

// Reset rebuilds the grid, weather, money and ledger from config.
// The random stream restarts from the simulation seed.
func (s *Simulation) Reset() {
	cfg := s.cfg
	s.rng = rand.New(rand.NewSource(s.seed))

	world := ecs.NewWorld()
	s.world = world
	s.cellMapper = ecs.NewMap3[components.Cell, components.Soil, components.PestWeed](world)
	s.cellMap = ecs.NewMap[components.Cell](world)
	s.soilMap = ecs.NewMap[components.Soil](world)
	s.pwMap = ecs.NewMap[components.PestWeed](world)
	s.plantMap = ecs.NewMap[components.Plant](world)
	s.structMap = ecs.NewMap[components.Structure](world)
	s.plantQuery = ecs.NewFilter2[components.Cell, components.Plant](world)

	w, h := cfg.World.Width, cfg.World.Height
	s.index = make(map[components.Coord]ecs.Entity, w*h)
	s.order = make([]ecs.Entity, 0, w*h)

	noise := systems.NewSoilNoise(s.seed, &cfg.World)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := components.Coord{X: x, Y: y}
			soil := s.soil.NewSoil(noise.Offsets(x, y))
			cell := components.Cell{Coord: c, Status: "empty"}
			pw := components.PestWeed{}
			e := s.cellMapper.NewEntity(&cell, &soil, &pw)
			s.index[c] = e
			s.order = append(s.order, e)
		}
	}

	s.weather = systems.NewWeather(cfg, s.rng)
	s.money = cfg.Economy.StartMoney
	s.ledger = make([]LedgerEntry, len(cfg.Species))
	for i, sp := range cfg.Species {
		s.ledger[i] = LedgerEntry{Species: sp.Name, Price: sp.Price}
	}
	s.pending = nil
	s.tick = 0
	s.collector.Reset()
	s.events = s.events[:0]
	s.lifetimes.Clear()
	s.hallOfFame.Clear()
	s.bookmarks = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory)
	s.beginRun()

	slog.Debug("garden_reset", "width", w, "height", h, "seed", s.seed, "climate", cfg.Weather.Climate)
}

// Config returns the simulation config. Callers must not modify it.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Seed returns the seed driving the simulation's random stream.
func (s *Simulation) Seed() int64 { return s.seed }

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int { return s.tick }

// Money returns the player's current funds.
func (s *Simulation) Money() float64 { return s.money }

// Weather exposes the global weather state for inspection.
func (s *Simulation) Weather() *systems.Weather { return s.weather }

// ---------- Cell access ----------

func (s *Simulation) inBounds(c components.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.cfg.World.Width && c.Y < s.cfg.World.Height
}

func (s *Simulation) entityAt(c components.Coord) (ecs.Entity, bool) {
	e, ok := s.index[c]
	return e, ok
}

// occupant returns what stands on the cell as a closed variant.
// The returned pointers are invalid after the entity gains or loses a component.
func (s *Simulation) occupant(e ecs.Entity) components.Occupant {
	if s.plantMap.Has(e) {
		return s.plantMap.Get(e)
	}
	if s.structMap.Has(e) {
		return s.structMap.Get(e)
	}
	return components.Empty{}
}

// StructureAt implements systems.StructureGrid.
func (s *Simulation) StructureAt(c components.Coord) (*components.Structure, bool) {
	e, ok := s.entityAt(c)
	if !ok || !s.structMap.Has(e) {
		return nil, false
	}
	return s.structMap.Get(e), true
}

// neighbors returns the in-bounds orthogonal neighbor entities in Cardinals order.
func (s *Simulation) neighbors(c components.Coord) []ecs.Entity {
	out := make([]ecs.Entity, 0, 4)
	for _, d := range components.Cardinals {
		dx, dy := d.Offset()
		if e, ok := s.entityAt(c.Add(dx, dy)); ok {
			out = append(out, e)
		}
	}
	return out
}

// supportAt combines the support structures bordering c.
func (s *Simulation) supportAt(c components.Coord) systems.Support {
	var adj []*components.Structure
	for _, n := range s.neighbors(c) {
		if s.structMap.Has(n) {
			adj = append(adj, s.structMap.Get(n))
		}
	}
	return s.structures.SupportFrom(adj)
}

// shadeAt returns the evaporation multiplier for c from large neighboring plants.
func (s *Simulation) shadeAt(c components.Coord) float64 {
	for _, n := range s.neighbors(c) {
		if s.plantMap.Has(n) && s.plantMap.Get(n).Size() >= s.cfg.Soil.ShadeMinPlantSize {
			return s.cfg.Soil.ShadeModifier
		}
	}
	return 1
}

// suppressorNear reports whether a nematode-suppressing plant stands on or next to c.
func (s *Simulation) suppressorNear(e ecs.Entity, c components.Coord) bool {
	check := func(e ecs.Entity) bool {
		if !s.plantMap.Has(e) {
			return false
		}
		p := s.plantMap.Get(e)
		return s.cfg.Species[p.Species].TraitSet.Has(traits.SuppressesNematodes)
	}
	if check(e) {
		return true
	}
	for _, n := range s.neighbors(c) {
		if check(n) {
			return true
		}
	}
	return false
}

// ---------- Tick ----------

// MinutesFor converts real elapsed time at a speed multiplier into simulated minutes.
func (s *Simulation) MinutesFor(elapsed time.Duration, speed float64) float64 {
	return elapsed.Seconds() * speed * systems.MinutesPerDay / s.cfg.Time.DayLengthSeconds
}

// AdvanceTick runs one tick covering elapsed real time at the given speed multiplier.
func (s *Simulation) AdvanceTick(elapsed time.Duration, speed float64) Result {
	if elapsed < 0 || speed < 0 {
		return fail(ReasonInvalidArgument)
	}
	s.Step(s.MinutesFor(elapsed, speed))
	return Result{OK: true, Detail: s.weather.WindDir.String()}
}

// Step runs one tick of the given simulated minutes. The update order is fixed:
//  1. soil environment per cell, accumulating evaporation
//  2. entities per cell (structure release, plant update, death, neighbor effects, oxygen)
//  3. weeds per cell
//  4. pests per cell
//  5. global weather from the total evaporation
//  6. pollinator movement and pollination
//  7. beneficial attraction decay then gain
//
// Cells are visited row-major and neighbor reads see this tick's earlier writes.
func (s *Simulation) Step(minutes float64) {
	perf := s.opts.Perf
	perf.StartTick()
	perf.StartPhase(telemetry.PhaseWeather)
	s.weather.AdvanceTime(minutes, s.rng)

	perf.StartPhase(telemetry.PhaseSoil)
	totalEvap := s.updateEnvironment()
	perf.StartPhase(telemetry.PhaseOccupants)
	for _, e := range s.order {
		s.updateEntity(e, minutes)
	}
	perf.StartPhase(telemetry.PhaseWeeds)
	for _, e := range s.order {
		s.updateWeeds(e)
	}
	perf.StartPhase(telemetry.PhasePests)
	for _, e := range s.order {
		s.updatePests(e)
	}
	perf.StartPhase(telemetry.PhaseWeather)
	s.weather.Update(totalEvap, s.rng)
	perf.StartPhase(telemetry.PhasePollinator)
	s.updatePollinator()
	s.weather.UpdateAttraction(s.countAttractors())

	perf.StartPhase(telemetry.PhaseTelemetry)
	s.tick++
	s.collector.RecordTick(totalEvap)
	s.flushTelemetry()
	perf.EndTick()
}

// updateEnvironment runs the per-cell soil step and returns total evaporation.
func (s *Simulation) updateEnvironment() float64 {
	env := systems.SoilEnv{
		Temperature: s.weather.Temperature,
		Humidity:    s.weather.Humidity,
	}
	var total float64
	for _, e := range s.order {
		c := s.cellMap.Get(e).Coord
		env.Shade = s.shadeAt(c)
		total += s.soil.Step(s.soilMap.Get(e), env)
	}
	return total
}

// updateEntity runs the occupant of one cell and finalizes its soil oxygen.
func (s *Simulation) updateEntity(e ecs.Entity, minutes float64) {
	c := s.cellMap.Get(e).Coord
	var status string
	var consumed float64

	switch occ := s.occupant(e).(type) {
	case components.Empty:
		status = "empty"

	case *components.Structure:
		for _, share := range s.structures.Release(occ, c) {
			if n, ok := s.entityAt(share.Coord); ok {
				s.soil.AddMoisture(s.soilMap.Get(n), share.Amount)
			}
		}
		status = occ.Kind.String()

	case *components.Plant:
		pw := s.pwMap.Get(e)
		res := s.plants.Update(occ, s.soilMap.Get(e), systems.PlantEnv{
			Minutes:     minutes,
			TimeOfDay:   s.weather.TimeOfDay,
			Temperature: s.weather.Temperature,
			Wind:        s.weather.WindSpeed,
			Pest:        pw.Pest(),
			PestLevel:   pw.PestLevel(),
			Support:     s.supportAt(c),
		})
		if res.StageChanged {
			s.emit(telemetry.NewStageEvent(s.tick, occ.ID, s.cfg.Species[occ.Species].Name, c.X, c.Y, occ.Stage().String()))
		}
		status = res.Status
		if res.Dead {
			s.removePlant(e, telemetry.EventPlantDied, true)
		} else {
			s.lifetimes.Observe(occ.ID, occ.Size(), pw.HasPest(), occ.Pollinated)
			s.applyNeighborEffect(occ, c, res.NeighborBoost, minutes)
			consumed = res.OxygenConsumed
		}

	default:
		panic("game: unhandled occupant")
	}

	s.soil.UpdateOxygen(s.soilMap.Get(e), consumed)
	s.cellMap.Get(e).Status = status
}

// applyNeighborEffect donates the species' soil effect to each orthogonal neighbor.
func (s *Simulation) applyNeighborEffect(p *components.Plant, c components.Coord, boost, minutes float64) {
	eff := s.cfg.Species[p.Species].NeighborEffect
	if eff == (config.NeighborEffect{}) || boost <= 0 {
		return
	}
	k := boost * minutes
	for _, n := range s.neighbors(c) {
		s.soil.AddNutrients(s.soilMap.Get(n), eff.OrganicMatter*k, eff.Microbes*k, eff.BN*k)
	}
}

// updateWeeds grows, seeds and spreads the weeds of one cell.
func (s *Simulation) updateWeeds(e ecs.Entity) {
	c := s.cellMap.Get(e).Coord
	pw := s.pwMap.Get(e)
	canSeed := !s.structMap.Has(e)
	if s.weeds.Grow(pw, s.soilMap.Get(e), canSeed, s.rng) {
		s.emit(telemetry.NewCellEvent(telemetry.EventWeedSeeded, s.tick, c.X, c.Y))
	}

	target, ok := s.weeds.SpreadTarget(pw, c, s.weather.WindDir, s.weedEligible, s.rng)
	if !ok {
		return
	}
	te, _ := s.entityAt(target)
	s.pwMap.Get(te).SetWeedLevel(1)
	s.emit(telemetry.NewCellEvent(telemetry.EventWeedSpread, s.tick, target.X, target.Y))
}

// weedEligible reports whether a weed can spread into c.
func (s *Simulation) weedEligible(c components.Coord) bool {
	e, ok := s.entityAt(c)
	if !ok {
		return false
	}
	if _, empty := s.occupant(e).(components.Empty); !empty {
		return false
	}
	return s.pwMap.Get(e).WeedLevel() == 0
}

// updatePests runs the pest rules of one cell.
func (s *Simulation) updatePests(e ecs.Entity) {
	c := s.cellMap.Get(e).Coord
	pw := s.pwMap.Get(e)
	before := pw.Pest()
	change := s.pests.Update(pw, s.soilMap.Get(e), systems.PestEnv{
		HasPlant:         s.plantMap.Has(e),
		Humidity:         s.weather.Humidity,
		Attraction:       s.weather.Attraction,
		SuppressorNearby: s.suppressorNear(e, c),
		Support:          s.supportAt(c),
	}, s.rng)

	switch change {
	case systems.PestSpawned:
		s.emit(telemetry.NewPestEvent(telemetry.EventPestSpawned, s.tick, c.X, c.Y, pw.Pest().String(), pw.PestLevel()))
	case systems.PestLeveledUp:
		s.emit(telemetry.NewPestEvent(telemetry.EventPestLeveledUp, s.tick, c.X, c.Y, pw.Pest().String(), pw.PestLevel()))
	case systems.PestReduced:
		s.emit(telemetry.NewPestEvent(telemetry.EventPestReduced, s.tick, c.X, c.Y, pw.Pest().String(), pw.PestLevel()))
	case systems.PestRemoved:
		s.emit(telemetry.NewPestEvent(telemetry.EventPestRemoved, s.tick, c.X, c.Y, before.String(), 0))
	case systems.PestCleared:
		s.emit(telemetry.NewPestEvent(telemetry.EventPestCleared, s.tick, c.X, c.Y, before.String(), 0))
	}
}

// updatePollinator moves the pollinator and pollinates flowering plants that need it.
// A plant is pollinated when the pollinator stands on it, or by chance while
// global pollination is active.
func (s *Simulation) updatePollinator() {
	cfg := s.cfg
	s.weather.Pollinator = systems.MovePollinator(s.weather.Pollinator, cfg.World.Width, cfg.World.Height,
		cfg.Pollinator.AttractWeight, s.attractsPollinator, s.rng)

	for _, e := range s.order {
		if !s.plantMap.Has(e) {
			continue
		}
		p := s.plantMap.Get(e)
		if p.Pollinated || p.Stage() < components.Flowering || p.Stage() == components.Senescent ||
			!cfg.Species[p.Species].TraitSet.Has(traits.NeedsPollination) {
			continue
		}
		here := s.cellMap.Get(e).Coord == s.weather.Pollinator
		if here || (s.weather.Pollination && s.rng.Float64() < cfg.Weather.PollinationChance) {
			p.Pollinated = true
			c := s.cellMap.Get(e).Coord
			s.emit(telemetry.NewPlantEvent(telemetry.EventPollinated, s.tick, p.ID, cfg.Species[p.Species].Name, c.X, c.Y, 0))
		}
	}
}

// qualifiesAttractor reports whether a plant raises beneficial attraction.
func (s *Simulation) qualifiesAttractor(p *components.Plant) bool {
	return s.cfg.Species[p.Species].TraitSet.Has(traits.AttractsBeneficials) &&
		int(p.Stage()) >= s.cfg.Pollinator.MinStageIdx && p.Stage() != components.Senescent
}

func (s *Simulation) attractsPollinator(c components.Coord) bool {
	e, ok := s.entityAt(c)
	if !ok || !s.plantMap.Has(e) {
		return false
	}
	return s.qualifiesAttractor(s.plantMap.Get(e))
}

// countAttractors counts plants raising beneficial attraction. Order does not matter here.
func (s *Simulation) countAttractors() int {
	n := 0
	query := s.plantQuery.Query()
	for query.Next() {
		_, p := query.Get()
		if s.qualifiesAttractor(p) {
			n++
		}
	}
	return n
}

// ---------- Occupant removal ----------

// removePlant deletes the plant on e, clears its pests and optionally returns residue to the soil.
func (s *Simulation) removePlant(e ecs.Entity, kind telemetry.EventType, residue bool) {
	p := s.plantMap.Get(e)
	c := s.cellMap.Get(e).Coord
	id, species, size := p.ID, p.Species, p.Size()

	s.plantMap.Remove(e)
	s.lifetimes.Remove(id)
	s.pwMap.Get(e).ClearPest()
	if residue {
		s.soil.AddNutrients(s.soilMap.Get(e), size*s.cfg.Plant.ResidueOrganic, 0, 0)
	}
	s.emit(telemetry.NewPlantEvent(kind, s.tick, id, s.cfg.Species[species].Name, c.X, c.Y, size))
}

// removeStructure clears mirrored connections, then deletes the structure on e.
func (s *Simulation) removeStructure(e ecs.Entity) {
	c := s.cellMap.Get(e).Coord
	st := s.structMap.Get(e)
	name := s.cfg.Structures[st.Config].Name
	systems.Disconnect(s, c, st)
	s.structMap.Remove(e)
	s.emit(telemetry.NewStructureEvent(telemetry.EventStructureRemoved, s.tick, name, c.X, c.Y))
}
