package components

// Soil is the biogeochemical state of one cell.
// Fields are written through bounded setters; nutrition, condition and
// oxygen are derived and only set by the soil model after a recompute.
type Soil struct {
	moisture    float64
	compaction  float64
	microbes    float64
	organic     float64
	bn          float64
	ph          float64
	wetDuration int

	// Derived
	nutrition  float64
	condition  float64
	oxygenBase float64
	oxygenUse  float64 // Plant consumption at the last finalization
	oxygen     float64
}

// NewSoil creates soil from raw inputs. Derived values start at zero until recomputed.
func NewSoil(moisture, compaction, microbes, organic, bn, ph float64) Soil {
	var s Soil
	s.SetMoisture(moisture)
	s.SetCompaction(compaction)
	s.SetMicrobes(microbes)
	s.SetOrganic(organic)
	s.SetBN(bn)
	s.SetPH(ph)
	return s
}

func (s *Soil) Moisture() float64   { return s.moisture }
func (s *Soil) Compaction() float64 { return s.compaction }
func (s *Soil) Microbes() float64   { return s.microbes }
func (s *Soil) Organic() float64    { return s.organic }
func (s *Soil) BN() float64         { return s.bn }
func (s *Soil) PH() float64         { return s.ph }
func (s *Soil) WetDuration() int    { return s.wetDuration }
func (s *Soil) Nutrition() float64  { return s.nutrition }
func (s *Soil) Condition() float64  { return s.condition }
func (s *Soil) OxygenBase() float64 { return s.oxygenBase }
func (s *Soil) Oxygen() float64     { return s.oxygen }
func (s *Soil) OxygenUse() float64  { return s.oxygenUse }

func (s *Soil) SetMoisture(v float64)   { s.moisture = MoistureBound.Apply(v) }
func (s *Soil) SetCompaction(v float64) { s.compaction = CompactionBound.Apply(v) }
func (s *Soil) SetMicrobes(v float64)   { s.microbes = MicrobesBound.Apply(v) }
func (s *Soil) SetOrganic(v float64)    { s.organic = OrganicBound.Apply(v) }
func (s *Soil) SetBN(v float64)         { s.bn = BNBound.Apply(v) }
func (s *Soil) SetPH(v float64)         { s.ph = PHBound.Apply(v) }

// SetWetDuration sets the consecutive wet tick counter. Negative values reset to 0.
func (s *Soil) SetWetDuration(ticks int) {
	if ticks < 0 {
		ticks = 0
	}
	s.wetDuration = ticks
}

// SetDerived stores the recomputed nutrition, condition and oxygen potential.
// Oxygen is the potential minus the stored consumption.
func (s *Soil) SetDerived(nutrition, condition, oxygenBase float64) {
	s.nutrition = NutritionBound.Apply(nutrition)
	s.condition = ConditionBound.Apply(condition)
	s.oxygenBase = OxygenBound.Apply(oxygenBase)
	s.oxygen = OxygenBound.Apply(s.oxygenBase - s.oxygenUse)
}

// SetOxygenUse stores plant oxygen consumption and rederives oxygen from the potential.
// Consumption holds until the next finalization. Negative values reset to 0.
func (s *Soil) SetOxygenUse(v float64) {
	s.oxygenUse = max(0, v)
	s.oxygen = OxygenBound.Apply(s.oxygenBase - s.oxygenUse)
}
