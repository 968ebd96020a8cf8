package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

func newPlantFixture(t *testing.T, species string) (*config.Config, *SoilModel, *PlantModel, components.Plant) {
	t.Helper()
	cfg := config.Default()
	soil := NewSoilModel(cfg)
	pm := NewPlantModel(cfg, soil)
	idx, ok := cfg.Derived.SpeciesIndex[species]
	if !ok {
		t.Fatalf("species %q missing", species)
	}
	return cfg, soil, pm, pm.New(idx)
}

func TestLightFactor(t *testing.T) {
	pc := &config.Default().Plant
	mid := (pc.DawnMinute + pc.DuskMinute) / 2
	tests := []struct {
		name   string
		minute float64
		want   float64
	}{
		{"midnight", 0, 0},
		{"dawn", pc.DawnMinute, 0},
		{"noon", mid, 1},
		{"dusk", pc.DuskMinute, 0},
		{"night", pc.DuskMinute + 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LightFactor(tt.minute, pc); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LightFactor(%v) = %v, want %v", tt.minute, got, tt.want)
			}
		})
	}
}

func TestTemperatureFactor(t *testing.T) {
	pc := &config.Default().Plant
	tests := []struct {
		name string
		temp float64
		want float64
	}{
		{"freezing", pc.ColdTemp - 3, pc.TempFloor},
		{"optimal", (pc.OptimalMin + pc.OptimalMax) / 2, 1},
		{"hot", pc.HotTemp + 1, pc.TempFloor},
		{"cool midpoint", (pc.ColdTemp + pc.OptimalMin) / 2, (pc.TempFloor + 1) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TemperatureFactor(tt.temp, pc); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TemperatureFactor(%v) = %v, want %v", tt.temp, got, tt.want)
			}
		})
	}
}

func TestRespirationMultiplierClamped(t *testing.T) {
	pc := &config.Default().Plant
	if got := RespirationMultiplier(pc.RespRefTemp, pc); got != 1 {
		t.Errorf("at reference = %v, want 1", got)
	}
	if got := RespirationMultiplier(pc.RespRefTemp+50, pc); got != 2 {
		t.Errorf("hot = %v, want 2", got)
	}
	if got := RespirationMultiplier(pc.RespRefTemp-50, pc); got != 0.5 {
		t.Errorf("cold = %v, want 0.5", got)
	}
}

func TestNoLightNoPhotosynthesis(t *testing.T) {
	cfg, soil, pm, p := newPlantFixture(t, "lettuce")
	s := soil.NewSoil(0, 0, 0)
	if got := pm.Photosynthesis(&p, &s, 0, 1, 60); got != 0 {
		t.Errorf("photosynthesis without light = %v", got)
	}

	before := p.CHO()
	pm.Update(&p, &s, PlantEnv{
		Minutes:     cfg.Derived.MinutesPerTick,
		TimeOfDay:   0,
		Temperature: 22,
		Support:     NoSupport(),
	})
	if p.CHO() > before {
		t.Errorf("CHO rose at night: %v -> %v", before, p.CHO())
	}
}

func TestBloomGatedByBN(t *testing.T) {
	_, soil, pm, p := newPlantFixture(t, "tomato")
	s := components.NewSoil(50, 30, 300, 40, 0, 6.5)
	soil.Recompute(&s)

	p.SetProgress(0.5)
	pm.Update(&p, &s, PlantEnv{Minutes: 5, TimeOfDay: 720, Temperature: 22, Support: NoSupport()})
	if p.Stage() != components.Vegetative {
		t.Errorf("stage = %v, want vegetative while BN is short", p.Stage())
	}

	soil.AddNutrients(&s, 0, 0, 50)
	pm.Update(&p, &s, PlantEnv{Minutes: 5, TimeOfDay: 720, Temperature: 22, Support: NoSupport()})
	if p.Stage() != components.Flowering {
		t.Errorf("stage = %v, want flowering once BN recovers", p.Stage())
	}
}

func TestMatureAnnualTurnsSenescent(t *testing.T) {
	_, soil, pm, p := newPlantFixture(t, "carrot")
	s := soil.NewSoil(0, 0, 0)
	p.Advance(components.Fruiting)
	p.SetProgress(1)

	res := pm.Update(&p, &s, PlantEnv{Minutes: 5, TimeOfDay: 720, Temperature: 22, Support: NoSupport()})
	if p.Stage() != components.Senescent || res.Status != StatusSenescent || !res.StageChanged {
		t.Errorf("stage = %v status = %q", p.Stage(), res.Status)
	}

	sizeBefore := p.Size()
	res = pm.Update(&p, &s, PlantEnv{Minutes: 5, TimeOfDay: 720, Temperature: 22, Support: NoSupport()})
	if p.Size() >= sizeBefore {
		t.Errorf("senescent plant did not decay: %v -> %v", sizeBefore, p.Size())
	}
	if p.Stage() != components.Senescent {
		t.Errorf("stage left senescent: %v", p.Stage())
	}
}

func TestDroughtShrinks(t *testing.T) {
	cfg, soil, pm, p := newPlantFixture(t, "lettuce")
	s := components.NewSoil(cfg.Plant.ShrinkMoisture-5, 30, 300, 40, 30, 6.5)
	soil.Recompute(&s)

	before := p.Size()
	res := pm.Update(&p, &s, PlantEnv{Minutes: 5, TimeOfDay: 720, Temperature: 22, Support: NoSupport()})
	if p.Size() >= before {
		t.Errorf("size %v -> %v, want shrink", before, p.Size())
	}
	if res.Status != StatusShrinking {
		t.Errorf("status = %q, want %q", res.Status, StatusShrinking)
	}
}

func TestUpdateKeepsPlantInBounds(t *testing.T) {
	cfg, soil, pm, p := newPlantFixture(t, "tomato")
	s := soil.NewSoil(0, 0, 0)
	stage := p.Stage()
	for i := range 20000 {
		env := PlantEnv{
			Minutes:     cfg.Derived.MinutesPerTick,
			TimeOfDay:   math.Mod(float64(i)*cfg.Derived.MinutesPerTick, 1440),
			Temperature: 22,
			Support:     NoSupport(),
		}
		if i%50 == 0 {
			soil.AddMoisture(&s, 10)
		}
		res := pm.Update(&p, &s, env)
		if p.Stage() < stage {
			t.Fatalf("tick %d: stage went back %v -> %v", i, stage, p.Stage())
		}
		stage = p.Stage()
		if p.Size() < 0 || p.Size() > 1 || p.RootHealth() < 0 || p.RootHealth() > 100 ||
			p.Progress() < 0 || p.Progress() > 1 || p.CHO() < 0 || p.ATP() < 0 {
			t.Fatalf("tick %d: plant out of bounds: %+v", i, p)
		}
		if res.Dead {
			break
		}
	}
}

func TestStageFor(t *testing.T) {
	_, _, pm, _ := newPlantFixture(t, "bean")
	th := config.Default().Plant.StageThresholds
	tests := []struct {
		progress float64
		want     components.Stage
	}{
		{0, components.Seedling},
		{th[0], components.Vegetative},
		{th[1], components.Flowering},
		{th[2], components.Fruiting},
		{1, components.Fruiting},
	}
	for _, tt := range tests {
		if got := pm.StageFor(tt.progress); got != tt.want {
			t.Errorf("StageFor(%v) = %v, want %v", tt.progress, got, tt.want)
		}
	}
}

// healthySoil is moist, loose, nutrient-rich soil with full oxygen.
func healthySoil(m *SoilModel) components.Soil {
	s := components.NewSoil(50, 30, 300, 40, 30, 6.5)
	m.Recompute(&s)
	return s
}

func TestRootDamage(t *testing.T) {
	cfg := config.Default()
	pc := &cfg.Plant
	lettuce, _ := cfg.SpeciesByName("lettuce")
	const minutes = 5.0

	tests := []struct {
		name  string
		soil  func(*SoilModel) components.Soil
		env   PlantEnv
		wantD float64 // Damage per minute
	}{
		{
			name:  "unstressed",
			soil:  healthySoil,
			env:   PlantEnv{Temperature: 22, Support: NoSupport()},
			wantD: 0,
		},
		{
			name: "low oxygen",
			soil: func(m *SoilModel) components.Soil {
				s := healthySoil(m)
				m.UpdateOxygen(&s, 100-pc.LowOxygen+5)
				return s
			},
			env:   PlantEnv{Temperature: 22, Support: NoSupport()},
			wantD: pc.LowOxygenDamage,
		},
		{
			name: "saturated",
			soil: func(m *SoilModel) components.Soil {
				s := components.NewSoil(95, 30, 300, 40, 30, 6.5)
				m.Recompute(&s)
				return s
			},
			env:   PlantEnv{Temperature: 22, Support: NoSupport()},
			wantD: pc.LowOxygenDamage + pc.WetDamage*lettuce.WetSensitivity,
		},
		{
			name:  "heat",
			soil:  healthySoil,
			env:   PlantEnv{Temperature: pc.HotTemp + 2, Support: NoSupport()},
			wantD: pc.HeatDamage,
		},
		{
			name:  "heat under net",
			soil:  healthySoil,
			env:   PlantEnv{Temperature: pc.HotTemp + 2, Support: Support{Net: true, HeatMitigation: 0.5, YieldBonus: 1, SapLevelUpScale: 1}},
			wantD: pc.HeatDamage * 0.5,
		},
		{
			name:  "root feeders",
			soil:  healthySoil,
			env:   PlantEnv{Temperature: 22, Pest: components.RootFeeder, PestLevel: 3, Support: NoSupport()},
			wantD: pc.RootFeederDamage * 3,
		},
		{
			name:  "sap feeders",
			soil:  healthySoil,
			env:   PlantEnv{Temperature: 22, Pest: components.SapFeeder, PestLevel: 3, Support: NoSupport()},
			wantD: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, soil, pm, p := newPlantFixture(t, "lettuce")
			s := tt.soil(soil)
			tt.env.Minutes = minutes
			tt.env.TimeOfDay = 720
			pm.Update(&p, &s, tt.env)
			if want := 100 - tt.wantD*minutes; math.Abs(p.RootHealth()-want) > 1e-9 {
				t.Errorf("root health = %v, want %v", p.RootHealth(), want)
			}
		})
	}
}

func TestRecoveryOnlyWithoutStress(t *testing.T) {
	cfg := config.Default()
	pc := &cfg.Plant
	const minutes = 5.0

	tests := []struct {
		name     string
		temp     float64
		night    bool
		noEnergy bool
		want     float64
	}{
		{"unstressed recovers", 22, false, false, 50 + pc.RecoveryRate*minutes},
		{"heat blocks recovery", pc.HotTemp + 2, false, false, 50 - pc.HeatDamage*minutes},
		{"no energy to recover", 22, true, true, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, soil, pm, p := newPlantFixture(t, "lettuce")
			s := healthySoil(soil)
			p.SetRootHealth(50)
			if tt.noEnergy {
				p.SetCHO(0)
				p.SetATP(0)
			}
			env := PlantEnv{Minutes: minutes, TimeOfDay: 720, Temperature: tt.temp, Support: NoSupport()}
			if tt.night {
				env.TimeOfDay = 0
			}
			atp := p.ATP()
			pm.Update(&p, &s, env)
			if math.Abs(p.RootHealth()-tt.want) > 1e-9 {
				t.Errorf("root health = %v, want %v", p.RootHealth(), tt.want)
			}
			if tt.temp > pc.HotTemp && p.ATP() != atp {
				t.Errorf("stressed plant spent ATP: %v -> %v", atp, p.ATP())
			}
		})
	}
}

func TestPestShrink(t *testing.T) {
	cfg := config.Default()
	pc := &cfg.Plant
	const minutes = 5.0

	tests := []struct {
		name  string
		pest  components.PestKind
		level int
		extra float64
	}{
		{"no pest", components.NoPest, 0, 0},
		{"root feeders", components.RootFeeder, 2, pc.PestShrink * 2},
		{"sap feeders", components.SapFeeder, 2, 0.5 * pc.PestShrink * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, soil, pm, p := newPlantFixture(t, "lettuce")
			s := components.NewSoil(pc.ShrinkMoisture-5, 30, 300, 40, 30, 6.5)
			soil.Recompute(&s)
			before := p.Size()
			pm.Update(&p, &s, PlantEnv{
				Minutes: minutes, TimeOfDay: 720, Temperature: 22,
				Pest: tt.pest, PestLevel: tt.level, Support: NoSupport(),
			})
			want := before - (pc.ShrinkRate+tt.extra)*minutes
			if math.Abs(p.Size()-want) > 1e-12 {
				t.Errorf("size = %v, want %v", p.Size(), want)
			}
		})
	}
}

func TestStatusPrecedence(t *testing.T) {
	cfg := config.Default()
	pc := &cfg.Plant
	hot := pc.HotTemp + 2
	cold := pc.ColdTemp - 3

	poorSoil := func(m *SoilModel) components.Soil {
		s := components.NewSoil(pc.ShrinkMoisture+5, 90, 0, 0, 0, 6.5)
		m.Recompute(&s)
		return s
	}
	drySoil := func(m *SoilModel) components.Soil {
		s := components.NewSoil(pc.ShrinkMoisture-5, 30, 300, 40, 30, 6.5)
		m.Recompute(&s)
		return s
	}

	tests := []struct {
		name     string
		soil     func(*SoilModel) components.Soil
		minute   float64
		temp     float64
		pest     components.PestKind
		noEnergy bool
		want     string
	}{
		{"sap feeders over heat", healthySoil, 720, hot, components.SapFeeder, false, StatusSapFeeders},
		{"root feeders over low energy", healthySoil, 0, 22, components.RootFeeder, true, StatusRootFeeders},
		{"low energy over heat", healthySoil, 0, hot, components.NoPest, true, StatusLowEnergy},
		{"low energy over darkness", healthySoil, 0, 22, components.NoPest, true, StatusLowEnergy},
		{"cold", healthySoil, 720, cold, components.NoPest, false, StatusTooCold},
		{"heat", healthySoil, 720, hot, components.NoPest, false, StatusTooHot},
		{"cold over shrinking", drySoil, 720, cold, components.NoPest, false, StatusTooCold},
		{"darkness", healthySoil, 0, 22, components.NoPest, false, StatusNoLight},
		{"growing", healthySoil, 720, 22, components.NoPest, false, StatusGrowing},
		{"shrinking", drySoil, 720, 22, components.NoPest, false, StatusShrinking},
		{"stable", poorSoil, 720, 22, components.NoPest, false, StatusStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, soil, pm, p := newPlantFixture(t, "lettuce")
			s := tt.soil(soil)
			if tt.noEnergy {
				p.SetCHO(0)
				p.SetATP(0)
			}
			level := 0
			if tt.pest != components.NoPest {
				level = 1
			}
			res := pm.Update(&p, &s, PlantEnv{
				Minutes: 5, TimeOfDay: tt.minute, Temperature: tt.temp,
				Pest: tt.pest, PestLevel: level, Support: NoSupport(),
			})
			if res.Status != tt.want {
				t.Errorf("status = %q, want %q", res.Status, tt.want)
			}
		})
	}
}

func TestNeighborBoost(t *testing.T) {
	cfg := config.Default()
	pc := &cfg.Plant
	tests := []struct {
		name    string
		density float64
		health  float64
		want    float64
	}{
		{"good roots", pc.GoodRootDensity + 0.5, 100, pc.NeighborBonus},
		{"sparse roots", pc.GoodRootDensity - 0.2, 100, 1},
		{"damaged roots", pc.GoodRootDensity + 0.5, pc.GoodRootHealth - 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, soil, pm, p := newPlantFixture(t, "bean")
			s := healthySoil(soil)
			p.SetRootDensity(tt.density)
			p.SetRootHealth(tt.health)
			res := pm.Update(&p, &s, PlantEnv{Minutes: 5, TimeOfDay: 720, Temperature: 22, Support: NoSupport()})
			if res.NeighborBoost != tt.want {
				t.Errorf("boost = %v, want %v", res.NeighborBoost, tt.want)
			}
		})
	}
}

func TestATPGenerationFollowsDemand(t *testing.T) {
	_, soil, pm, p := newPlantFixture(t, "lettuce")
	pc := &pm.cfg.Plant
	s := healthySoil(soil)
	p.SetRootHealth(50)
	p.SetCHO(5)
	p.SetATP(10)
	const minutes, temp = 5.0, 22.0

	resp := pc.RespirationRate * p.Size() * RespirationMultiplier(temp, pc) * minutes
	pm.Update(&p, &s, PlantEnv{Minutes: minutes, TimeOfDay: 0, Temperature: temp, Support: NoSupport()})

	// A stocked ATP reserve still converts CHO for this tick's recovery demand.
	if want := 5 - resp - pc.RecoveryATPCost/pc.ATPPerCHO; math.Abs(p.CHO()-want) > 1e-12 {
		t.Errorf("CHO = %v, want %v", p.CHO(), want)
	}
	if math.Abs(p.ATP()-10) > 1e-9 {
		t.Errorf("ATP = %v, want 10", p.ATP())
	}
	if want := 50 + pc.RecoveryRate*minutes; math.Abs(p.RootHealth()-want) > 1e-9 {
		t.Errorf("root health = %v, want %v", p.RootHealth(), want)
	}
}
