package components

import "github.com/google/uuid"

// Stage is a plant growth stage. Stages only move forward.
type Stage uint8

const (
	Seedling Stage = iota
	Vegetative
	Flowering
	Fruiting
	Senescent
)

var stageNames = [...]string{"seedling", "vegetative", "flowering", "fruiting", "senescent"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Plant is the physiological state of a plant occupying a cell.
type Plant struct {
	ID      uuid.UUID
	Species int // Index into config.Species

	size        float64
	rootHealth  float64
	stemHealth  float64
	rootDensity float64
	leafDensity float64
	stemDev     float64
	cho         float64
	atp         float64
	progress    float64
	stage       Stage

	Pollinated bool
	AgeTicks   int
	AgeDays    float64
}

// PlantInit holds the starting physiology for a new plant.
type PlantInit struct {
	Size, CHO, ATP                    float64
	RootDensity, LeafDensity, StemDev float64
}

// NewPlant creates a seedling of the given species.
func NewPlant(species int, init PlantInit) Plant {
	p := Plant{ID: uuid.New(), Species: species, stage: Seedling}
	p.SetSize(init.Size)
	p.SetRootHealth(RootHealthBound.Max)
	p.SetStemHealth(StemHealthBound.Max)
	p.SetRootDensity(init.RootDensity)
	p.SetLeafDensity(init.LeafDensity)
	p.SetStemDev(init.StemDev)
	p.SetCHO(init.CHO)
	p.SetATP(init.ATP)
	return p
}

func (p *Plant) Size() float64        { return p.size }
func (p *Plant) RootHealth() float64  { return p.rootHealth }
func (p *Plant) StemHealth() float64  { return p.stemHealth }
func (p *Plant) RootDensity() float64 { return p.rootDensity }
func (p *Plant) LeafDensity() float64 { return p.leafDensity }
func (p *Plant) StemDev() float64     { return p.stemDev }
func (p *Plant) CHO() float64         { return p.cho }
func (p *Plant) ATP() float64         { return p.atp }
func (p *Plant) Progress() float64    { return p.progress }
func (p *Plant) Stage() Stage         { return p.stage }

func (p *Plant) SetSize(v float64)        { p.size = SizeBound.Apply(v) }
func (p *Plant) SetRootHealth(v float64)  { p.rootHealth = RootHealthBound.Apply(v) }
func (p *Plant) SetStemHealth(v float64)  { p.stemHealth = StemHealthBound.Apply(v) }
func (p *Plant) SetRootDensity(v float64) { p.rootDensity = RootDensityBound.Apply(v) }
func (p *Plant) SetLeafDensity(v float64) { p.leafDensity = DevelopBound.Apply(v) }
func (p *Plant) SetStemDev(v float64)     { p.stemDev = DevelopBound.Apply(v) }
func (p *Plant) SetCHO(v float64)         { p.cho = EnergyBound.Apply(v) }
func (p *Plant) SetATP(v float64)         { p.atp = EnergyBound.Apply(v) }
func (p *Plant) SetProgress(v float64)    { p.progress = ProgressBound.Apply(v) }

// Advance moves the plant to stage s. Returns false and leaves the stage
// unchanged when s is not later than the current stage.
func (p *Plant) Advance(s Stage) bool {
	if s <= p.stage || s > Senescent {
		return false
	}
	p.stage = s
	return true
}

// Dead reports whether the plant can no longer live.
func (p *Plant) Dead() bool {
	return p.size <= 0 || p.rootHealth <= 0
}
