package systems

import (
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/traits"
)

// Plant status tags, in precedence order within each group.
const (
	StatusDead        = "dead"
	StatusSenescent   = "senescent"
	StatusSapFeeders  = "sap_feeders"
	StatusRootFeeders = "root_feeders"
	StatusLowEnergy   = "low_energy"
	StatusTooCold     = "too_cold"
	StatusTooHot      = "too_hot"
	StatusNoLight     = "no_light"
	StatusGrowing     = "growing"
	StatusShrinking   = "shrinking"
	StatusStable      = "stable"
)

// PlantEnv is everything a plant reads from its cell and the world for one update.
type PlantEnv struct {
	Minutes     float64 // Elapsed simulated minutes this tick
	TimeOfDay   float64
	Temperature float64
	Wind        float64
	Pest        components.PestKind
	PestLevel   int
	Support     Support
}

// PlantResult reports the outcome of one plant update.
type PlantResult struct {
	Status         string
	OxygenConsumed float64
	Dead           bool
	StageChanged   bool
	NeighborBoost  float64 // Multiplier for species neighbor effects, 0 when none apply
}

// PlantModel runs plant physiology: the energy economy and the growth stage machine.
type PlantModel struct {
	cfg  *config.Config
	soil *SoilModel
}

// NewPlantModel creates a plant model that draws from soil through the given soil model.
func NewPlantModel(cfg *config.Config, soil *SoilModel) *PlantModel {
	return &PlantModel{cfg: cfg, soil: soil}
}

// New creates a seedling of the species at index.
func (m *PlantModel) New(species int) components.Plant {
	pc := &m.cfg.Plant
	return components.NewPlant(species, components.PlantInit{
		Size:        pc.InitialSize,
		CHO:         pc.InitialCHO,
		ATP:         pc.InitialATP,
		RootDensity: pc.InitialRootDensity,
		LeafDensity: pc.InitialLeafDensity,
		StemDev:     pc.InitialStemDev,
	})
}

// StageFor maps maturity progress to the stage it would reach without nutrient gating.
func (m *PlantModel) StageFor(progress float64) components.Stage {
	th := m.cfg.Plant.StageThresholds
	switch {
	case progress >= th[2]:
		return components.Fruiting
	case progress >= th[1]:
		return components.Flowering
	case progress >= th[0]:
		return components.Vegetative
	default:
		return components.Seedling
	}
}

// HealthFactor averages stem health, root health and leaf density into [HealthFactorMin, 1].
func (m *PlantModel) HealthFactor(p *components.Plant) float64 {
	h := mean(p.StemHealth(), p.RootHealth(), p.LeafDensity()*100) / 100
	return clamp(h, m.cfg.Plant.HealthFactorMin, 1)
}

// SoilFactor scales soil condition relative to the grow threshold.
func (m *PlantModel) SoilFactor(condition float64) float64 {
	pc := &m.cfg.Plant
	if pc.GrowThreshold <= 0 {
		return pc.SoilFactorMax
	}
	return clamp(condition/pc.GrowThreshold, pc.SoilFactorMin, pc.SoilFactorMax)
}

// waterFactor is the photosynthesis water stress multiplier.
func (m *PlantModel) waterFactor(s *components.Soil) float64 {
	pc := &m.cfg.Plant
	if m.soil.Wet(s) {
		return pc.WetStress
	}
	if pc.OptimalMoisture <= 0 {
		return 1
	}
	return clamp01(s.Moisture() / pc.OptimalMoisture)
}

// Photosynthesis returns the CHO gained over the elapsed minutes. Zero without light or size.
func (m *PlantModel) Photosynthesis(p *components.Plant, s *components.Soil, light, tempF, minutes float64) float64 {
	if light <= 0 || p.Size() <= 0 {
		return 0
	}
	stageF := 0.5 + 0.5*float64(min(p.Stage(), components.Fruiting))/float64(components.Fruiting)
	return m.cfg.Plant.PhotoRate * light * p.LeafDensity() * p.Size() *
		m.HealthFactor(p) * m.waterFactor(s) * tempF * stageF * minutes
}

// Update advances one plant by env.Minutes, drawing water and BN from soil.
// Oxygen demand is reported, not applied.
func (m *PlantModel) Update(p *components.Plant, s *components.Soil, env PlantEnv) PlantResult {
	pc := &m.cfg.Plant
	sp := &m.cfg.Species[p.Species]
	dayFrac := env.Minutes / 1440

	if p.Stage() == components.Senescent {
		return m.updateSenescent(p, env.Minutes)
	}

	// 1. Age
	p.AgeTicks++
	p.AgeDays += dayFrac

	// 2. Maturity and stage
	rate := 1 / sp.MaturityDays
	soilF := m.SoilFactor(s.Condition())
	healthF := m.HealthFactor(p)
	p.SetProgress(p.Progress() + rate*dayFrac*soilF*healthF)

	res := PlantResult{}
	target := m.StageFor(p.Progress())
	for next := p.Stage() + 1; next <= target; next++ {
		if next >= components.Flowering && s.BN() < pc.MinBNForBloom {
			break // stall until nutrients recover
		}
		if p.Advance(next) {
			res.StageChanged = true
		}
	}
	if p.Progress() >= 1 && p.Stage() == components.Fruiting && !sp.TraitSet.Has(traits.Perennial) {
		p.Advance(components.Senescent)
		res.StageChanged = true
		res.Status = StatusSenescent
		return res
	}

	// 3. Light and temperature
	light := LightFactor(env.TimeOfDay, pc)
	tempF := TemperatureFactor(env.Temperature, pc)

	// 4. Photosynthesis
	p.SetCHO(p.CHO() + m.Photosynthesis(p, s, light, tempF, env.Minutes))

	// 5. Maintenance respiration
	resp := pc.RespirationRate * p.Size() * RespirationMultiplier(env.Temperature, pc) * env.Minutes
	p.SetCHO(p.CHO() - min(resp, p.CHO()))

	// 6. Soil draws
	m.soil.AddMoisture(s, -pc.WaterUse*p.Size()*sp.WaterUse*env.Minutes)
	uptake := p.RootHealth() / 100
	bnDraw := pc.NutrientUse * p.Size() * sp.NutrientUse * p.RootDensity() * uptake * env.Minutes
	if env.Support.Trellis && sp.TraitSet.Has(traits.TrellisLoving) {
		bnDraw *= 1 - env.Support.BNReduction
	}
	m.soil.DrawBN(s, bnDraw)
	res.OxygenConsumed = pc.OxygenUse * p.Size() * sp.OxygenUse

	// 7. Root damage and recovery demand
	lowOxygen := s.Oxygen() < pc.LowOxygen
	wet := m.soil.Wet(s)
	hot := env.Temperature > pc.HotTemp
	rootPest := env.Pest == components.RootFeeder
	var damage float64
	if lowOxygen {
		damage += pc.LowOxygenDamage
	}
	if wet {
		damage += pc.WetDamage * sp.WetSensitivity
	}
	if hot {
		damage += pc.HeatDamage * (1 - env.Support.HeatMitigation)
	}
	if rootPest {
		damage += pc.RootFeederDamage * float64(env.PestLevel)
	}
	p.SetRootHealth(p.RootHealth() - damage*env.Minutes)

	var recoveryCost float64
	stressed := lowOxygen || wet || hot || rootPest
	if p.RootHealth() < components.RootHealthBound.Max && !stressed {
		recoveryCost = pc.RecoveryATPCost
	}

	// 8. Stem and leaf development
	windStim := 0.0
	if pc.WindStressSpeed > 0 {
		windStim = clamp01(env.Wind / pc.WindStressSpeed)
	}
	stemTarget := 0.2 + 0.4*light + 0.4*windStim
	leafTarget := 0.2 + 0.15*float64(p.Stage()) + 0.3*light
	a := clamp01(pc.DevelopmentSmoothing)
	p.SetStemDev(lerp(p.StemDev(), stemTarget, a))
	p.SetLeafDensity(lerp(p.LeafDensity(), leafTarget, a))
	p.SetStemHealth(lerp(p.StemHealth(), 100*(0.5+0.5*p.StemDev()), a))

	// 9. Potential growth
	var potential, growthCost float64
	if s.Condition() > pc.GrowThreshold && s.Moisture() >= pc.ShrinkMoisture &&
		tempF > pc.TempFloor && light > pc.LightFloor {
		stageMult := pc.StageGrowthMults[min(int(p.Stage()), len(pc.StageGrowthMults)-1)]
		potential = rate * pc.GrowthScale * soilF * healthF * tempF * stageMult * dayFrac
		growthCost = pc.GrowthATPCost * potential * (1 + p.Size())
	}

	// 10. ATP generation, limited by this tick's demand and available CHO
	if pc.ATPPerCHO > 0 {
		spend := min((recoveryCost+growthCost)/pc.ATPPerCHO, p.CHO())
		p.SetCHO(p.CHO() - spend)
		p.SetATP(p.ATP() + spend*pc.ATPPerCHO)
	}

	// 11. Spend ATP: recovery first, then growth or shrink
	if recoveryCost > 0 && p.ATP() >= recoveryCost {
		p.SetATP(p.ATP() - recoveryCost)
		p.SetRootHealth(p.RootHealth() + pc.RecoveryRate*env.Minutes)
	}
	growth := 0
	starved := false
	if s.Moisture() < pc.ShrinkMoisture {
		shrink := pc.ShrinkRate
		switch env.Pest {
		case components.RootFeeder:
			shrink += pc.PestShrink * float64(env.PestLevel)
		case components.SapFeeder:
			shrink += 0.5 * pc.PestShrink * float64(env.PestLevel)
		}
		p.SetSize(p.Size() - shrink*env.Minutes)
		growth = -1
	} else if potential > 0 {
		if p.ATP() >= growthCost {
			p.SetATP(p.ATP() - growthCost)
			p.SetSize(p.Size() + potential)
			growth = 1
		} else {
			starved = true
		}
	}

	// 12. Root density drift
	drive := mean(p.Size(), s.Nutrition()/100, s.Oxygen()/100, 1-s.Compaction()/100)
	p.SetRootDensity(p.RootDensity() + pc.RootDensityRate*dayFrac*tempF*drive)

	// 13. Neighbor effects are applied by the caller
	if p.RootDensity() > pc.GoodRootDensity && p.RootHealth() > pc.GoodRootHealth {
		res.NeighborBoost = pc.NeighborBonus
	} else {
		res.NeighborBoost = 1
	}

	if p.Dead() {
		res.Dead = true
		res.Status = StatusDead
		return res
	}

	// 14. Status
	switch {
	case env.Pest == components.SapFeeder:
		res.Status = StatusSapFeeders
	case env.Pest == components.RootFeeder:
		res.Status = StatusRootFeeders
	case starved || (p.CHO() <= 0 && p.ATP() <= 0):
		res.Status = StatusLowEnergy
	case env.Temperature <= pc.ColdTemp:
		res.Status = StatusTooCold
	case env.Temperature >= pc.HotTemp:
		res.Status = StatusTooHot
	case light <= 0:
		res.Status = StatusNoLight
	case growth > 0:
		res.Status = StatusGrowing
	case growth < 0:
		res.Status = StatusShrinking
	default:
		res.Status = StatusStable
	}
	return res
}

// updateSenescent decays a senescent plant. No photosynthesis, growth or recovery runs.
func (m *PlantModel) updateSenescent(p *components.Plant, minutes float64) PlantResult {
	pc := &m.cfg.Plant
	p.AgeTicks++
	p.AgeDays += minutes / 1440
	p.SetRootHealth(p.RootHealth() - pc.SenescentRootDecay*minutes)
	p.SetSize(p.Size() - pc.SenescentSizeDecay*minutes)
	leak := clamp01(pc.SenescentLeak * minutes)
	p.SetCHO(p.CHO() * (1 - leak))
	p.SetATP(p.ATP() * (1 - leak))

	if p.Dead() || p.Size() <= pc.NegligibleSize {
		return PlantResult{Status: StatusDead, Dead: true}
	}
	return PlantResult{Status: StatusSenescent}
}
