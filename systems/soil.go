package systems

import (
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// SoilModel applies soil chemistry rules. Every mutating operation ends with
// a recompute so derived values are never stale when read.
type SoilModel struct {
	soil     *config.SoilConfig
	microbes *config.MicrobeConfig
}

// NewSoilModel creates a soil model from config.
func NewSoilModel(cfg *config.Config) *SoilModel {
	return &SoilModel{soil: &cfg.Soil, microbes: &cfg.Microbes}
}

// SoilEnv is the ambient input to a per-tick soil update.
type SoilEnv struct {
	Temperature float64
	Humidity    float64
	Shade       float64 // Evaporation multiplier, 1 when unshaded
}

// NewSoil creates soil from the configured initial values offset by the given deltas.
func (m *SoilModel) NewSoil(dMoisture, dOrganic, dCompaction float64) components.Soil {
	c := m.soil
	s := components.NewSoil(
		c.InitialMoisture+dMoisture,
		c.InitialCompaction+dCompaction,
		c.InitialMicrobes,
		c.InitialOrganic+dOrganic,
		c.InitialBN,
		c.InitialPH,
	)
	m.Recompute(&s)
	return s
}

// Recompute derives nutrition, soil condition and oxygen potential from raw inputs.
// Oxygen keeps the consumption stored at the last finalization.
func (m *SoilModel) Recompute(s *components.Soil) {
	c := m.soil
	microbeF := clamp100(s.Microbes() * c.MicrobeScale)
	nutrition := mean(
		clamp100(s.BN()*c.BNScale),
		clamp100(s.Organic()*c.OMScale),
		m.PHFactor(s.PH()),
		microbeF,
	)
	aeration := 100 - s.Compaction()
	condition := mean(s.Moisture(), clamp100(nutrition), aeration, microbeF)

	oxygen := 100.0
	if s.Moisture() >= c.WetThreshold || s.Compaction() >= components.CompactionBound.Max {
		oxygen *= c.SaturatedOxygenFactor
	}
	s.SetDerived(nutrition, condition, oxygen)
}

// PHFactor scores pH on [0,100]: full inside the optimal band, decaying linearly outside.
func (m *SoilModel) PHFactor(ph float64) float64 {
	d := bandDistance(ph, m.soil.PHOptimalMin, m.soil.PHOptimalMax)
	return clamp100(100 - d*m.soil.PHDecayPerUnit)
}

// Wet reports whether moisture is at or above the wet threshold.
func (m *SoilModel) Wet(s *components.Soil) bool {
	return s.Moisture() >= m.soil.WetThreshold
}

// Step runs the per-tick environment update for one cell and returns the evaporated amount.
func (m *SoilModel) Step(s *components.Soil, env SoilEnv) float64 {
	m.UpdateMicrobes(s, env.Temperature)
	evaporated := m.ApplyEvaporation(s, env.Temperature, env.Humidity, env.Shade)
	m.UpdateDegradation(s)
	m.UpdatePH(s)
	m.UpdateWetDuration(s)
	return evaporated
}

// AddMoisture changes moisture by delta.
func (m *SoilModel) AddMoisture(s *components.Soil, delta float64) {
	s.SetMoisture(s.Moisture() + delta)
	m.Recompute(s)
}

// AddNutrients adds organic matter, microbes and BN in one recompute.
func (m *SoilModel) AddNutrients(s *components.Soil, organic, microbes, bn float64) {
	s.SetOrganic(s.Organic() + organic)
	s.SetMicrobes(s.Microbes() + microbes)
	s.SetBN(s.BN() + bn)
	m.Recompute(s)
}

// DrawBN removes up to amount of BN and returns what was taken.
func (m *SoilModel) DrawBN(s *components.Soil, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	taken := min(amount, s.BN())
	s.SetBN(s.BN() - taken)
	m.Recompute(s)
	return taken
}

// Loosen reduces compaction by amount.
func (m *SoilModel) Loosen(s *components.Soil, amount float64) {
	s.SetCompaction(s.Compaction() - amount)
	m.Recompute(s)
}

// NudgePH moves pH one step of size step toward the optimal band.
func (m *SoilModel) NudgePH(s *components.Soil, step float64) {
	c := m.soil
	switch {
	case s.PH() < c.PHOptimalMin:
		s.SetPH(min(s.PH()+step, c.PHOptimalMin))
	case s.PH() > c.PHOptimalMax:
		s.SetPH(max(s.PH()-step, c.PHOptimalMax))
	}
	m.Recompute(s)
}

// ApplyAmendment adds an amendment's deltas to the soil.
func (m *SoilModel) ApplyAmendment(s *components.Soil, am *config.AmendmentConfig) {
	s.SetOrganic(s.Organic() + am.OrganicMatter)
	s.SetMicrobes(s.Microbes() + am.Microbes)
	s.SetBN(s.BN() + am.BN)
	s.SetMoisture(s.Moisture() + am.Moisture)
	s.SetCompaction(s.Compaction() + am.Compaction)
	s.SetPH(s.PH() + am.PH)
	m.Recompute(s)
}

// MicrobeActivity returns the temperature activity factor in [0,1].
func (m *SoilModel) MicrobeActivity(temp float64) float64 {
	c := m.microbes
	switch {
	case temp > c.LethalTemp:
		return 0
	case temp < c.ColdTemp:
		return c.ColdActivity
	case temp < c.OptimalMin:
		return lerp(c.ColdActivity, 1, ramp(temp, c.ColdTemp, c.OptimalMin))
	case temp <= c.OptimalMax:
		return 1
	default:
		return 1 - ramp(temp, c.OptimalMax, c.LethalTemp)
	}
}

// phSuitability scales OM conversion by pH distance from the optimal band.
func (m *SoilModel) phSuitability(ph float64) float64 {
	d := bandDistance(ph, m.soil.PHOptimalMin, m.soil.PHOptimalMax)
	return max(m.microbes.PHMinFactor, 1-d*m.microbes.PHPenalty)
}

// UpdateMicrobes grows or kills microbes for the temperature and converts organic matter to BN.
func (m *SoilModel) UpdateMicrobes(s *components.Soil, temp float64) {
	c := m.microbes

	if temp > c.LethalTemp {
		s.SetMicrobes(s.Microbes() * (1 - c.LethalDieOff))
		m.Recompute(s)
		return
	}

	activity := m.MicrobeActivity(temp)
	pop := s.Microbes()

	var growth float64
	if s.Oxygen() >= c.MinOxygen && s.Moisture() >= c.MinMoisture && s.BN() >= c.MinBN {
		growth = pop * c.GrowthRate * activity * (1 - pop/components.MicrobesBound.Max)
		if s.Oxygen() > c.HighOxygen {
			growth *= c.HighOxygenMult
		}
	}

	var death float64
	if s.Organic() < c.LowOMThreshold {
		death += pop * c.LowOMDeath
	}
	if temp > c.OptimalMax {
		death += pop * c.HeatDeath
	}

	var converted float64
	if pop >= c.MinPopulation {
		converted = pop * c.ConversionRate * activity * m.phSuitability(s.PH())
		if pop > c.HighPopulation {
			converted *= c.HighPopBonus
		}
		converted = min(converted, s.Organic())
	}

	s.SetMicrobes(pop + growth - death)
	s.SetOrganic(s.Organic() - converted)
	s.SetBN(s.BN() + converted)
	m.Recompute(s)
}

// ApplyEvaporation removes moisture for the conditions and returns the amount removed.
func (m *SoilModel) ApplyEvaporation(s *components.Soil, temp, humidity, shade float64) float64 {
	c := m.soil
	tempTerm := max(0, temp) / c.EvapRefTemp
	humidityTerm := 1 - c.EvapHumidityFactor*clamp100(humidity)/100
	rate := max(0, c.EvapBase*tempTerm*humidityTerm*shade)
	amount := rate * s.Moisture() / 100
	m.AddMoisture(s, -amount)
	return amount
}

// UpdateDegradation drains moisture and microbes faster when wet than when moist.
func (m *SoilModel) UpdateDegradation(s *components.Soil) {
	c := m.soil
	switch {
	case s.Moisture() >= c.WetThreshold:
		s.SetMoisture(s.Moisture() - c.WetMoistureDecay)
		s.SetMicrobes(s.Microbes() - c.WetMicrobeDecay)
	case s.Moisture() >= c.MoistThreshold:
		s.SetMoisture(s.Moisture() - c.MoistMoistureDecay)
		s.SetMicrobes(s.Microbes() - c.MoistMicrobeDecay)
	}
	m.Recompute(s)
}

// UpdateOxygen finalizes oxygen as potential minus plant consumption. The
// consumption survives later recomputes until the next finalization.
func (m *SoilModel) UpdateOxygen(s *components.Soil, consumption float64) {
	s.SetOxygenUse(consumption)
	m.Recompute(s)
}

// UpdatePH acidifies soil carrying excess organic matter.
func (m *SoilModel) UpdatePH(s *components.Soil) {
	if s.Organic() > m.soil.AcidifyOMThreshold {
		s.SetPH(s.PH() - m.soil.AcidifyRate)
		m.Recompute(s)
	}
}

// UpdateWetDuration counts consecutive wet ticks.
func (m *SoilModel) UpdateWetDuration(s *components.Soil) {
	if m.Wet(s) {
		s.SetWetDuration(s.WetDuration() + 1)
	} else {
		s.SetWetDuration(0)
	}
}
