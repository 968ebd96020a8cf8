package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

func TestRecomputeOxygenPotential(t *testing.T) {
	cfg := config.Default()
	m := NewSoilModel(cfg)

	tests := []struct {
		name       string
		moisture   float64
		compaction float64
		want       float64
	}{
		{"moist", 50, 30, 100},
		{"wet", 85, 30, 100 * cfg.Soil.SaturatedOxygenFactor},
		{"compacted", 50, 100, 100 * cfg.Soil.SaturatedOxygenFactor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := components.NewSoil(tt.moisture, tt.compaction, 300, 40, 30, 6.5)
			m.Recompute(&s)
			if math.Abs(s.Oxygen()-tt.want) > 1e-9 {
				t.Errorf("oxygen = %v, want %v", s.Oxygen(), tt.want)
			}
			if s.Condition() < 0 || s.Condition() > 100 || s.Nutrition() < 0 || s.Nutrition() > 100 {
				t.Errorf("derived out of range: nutrition %v condition %v", s.Nutrition(), s.Condition())
			}
		})
	}
}

func TestPHFactor(t *testing.T) {
	m := NewSoilModel(config.Default())
	tests := []struct{ ph, want float64 }{
		{6.5, 100},
		{6.0, 100},
		{5.5, 80},
		{8.0, 60},
		{4.0, 20},
	}
	for _, tt := range tests {
		if got := m.PHFactor(tt.ph); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PHFactor(%v) = %v, want %v", tt.ph, got, tt.want)
		}
	}
}

func TestStepKeepsSoilInBounds(t *testing.T) {
	cfg := config.Default()
	m := NewSoilModel(cfg)
	envs := []SoilEnv{
		{Temperature: 50, Humidity: 0, Shade: 1},
		{Temperature: -10, Humidity: 100, Shade: 1},
		{Temperature: 25, Humidity: 60, Shade: cfg.Soil.ShadeModifier},
	}
	for _, env := range envs {
		s := m.NewSoil(40, 50, 60)
		for range 5000 {
			if ev := m.Step(&s, env); ev < 0 {
				t.Fatalf("negative evaporation %v", ev)
			}
		}
		if s.Moisture() < 0 || s.Moisture() > 100 || s.Microbes() < 0 || s.Microbes() > 1000 ||
			s.PH() < 4 || s.PH() > 9 || s.Organic() < 0 || s.BN() < 0 {
			t.Errorf("env %+v: soil out of bounds: %+v", env, s)
		}
	}
}

func TestEvaporationShadeAndHumidity(t *testing.T) {
	m := NewSoilModel(config.Default())
	evap := func(humidity, shade float64) float64 {
		s := components.NewSoil(60, 30, 300, 40, 30, 6.5)
		return m.ApplyEvaporation(&s, 30, humidity, shade)
	}
	if dry, humid := evap(10, 1), evap(90, 1); dry <= humid {
		t.Errorf("dry air %v should evaporate more than humid %v", dry, humid)
	}
	if open, shaded := evap(50, 1), evap(50, 0.8); shaded >= open {
		t.Errorf("shaded %v should evaporate less than open %v", shaded, open)
	}
}

func TestMicrobeActivity(t *testing.T) {
	cfg := config.Default()
	m := NewSoilModel(cfg)
	tests := []struct {
		temp float64
		want float64
	}{
		{50, 0},
		{0, cfg.Microbes.ColdActivity},
		{25, 1},
		{cfg.Microbes.OptimalMax, 1},
	}
	for _, tt := range tests {
		if got := m.MicrobeActivity(tt.temp); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MicrobeActivity(%v) = %v, want %v", tt.temp, got, tt.want)
		}
	}
}

func TestLethalHeatKillsMicrobes(t *testing.T) {
	cfg := config.Default()
	m := NewSoilModel(cfg)
	s := components.NewSoil(50, 30, 400, 40, 30, 6.5)
	m.UpdateMicrobes(&s, cfg.Microbes.LethalTemp+5)
	if want := 400 * (1 - cfg.Microbes.LethalDieOff); math.Abs(s.Microbes()-want) > 1e-9 {
		t.Errorf("microbes = %v, want %v", s.Microbes(), want)
	}
}

func TestWetDurationCounts(t *testing.T) {
	m := NewSoilModel(config.Default())
	s := components.NewSoil(90, 30, 300, 40, 30, 6.5)
	m.UpdateWetDuration(&s)
	m.UpdateWetDuration(&s)
	if s.WetDuration() != 2 {
		t.Errorf("WetDuration = %d, want 2", s.WetDuration())
	}
	m.AddMoisture(&s, -60)
	m.UpdateWetDuration(&s)
	if s.WetDuration() != 0 {
		t.Errorf("WetDuration = %d after drying, want 0", s.WetDuration())
	}
}

func TestNudgePHStopsAtBand(t *testing.T) {
	cfg := config.Default()
	m := NewSoilModel(cfg)
	s := components.NewSoil(50, 30, 300, 40, 30, 5.9)
	m.NudgePH(&s, 0.3)
	if s.PH() != cfg.Soil.PHOptimalMin {
		t.Errorf("pH = %v, want %v", s.PH(), cfg.Soil.PHOptimalMin)
	}
	m.NudgePH(&s, 0.3)
	if s.PH() != cfg.Soil.PHOptimalMin {
		t.Errorf("pH inside band moved to %v", s.PH())
	}
}

func TestDrawBNLimitedByStock(t *testing.T) {
	m := NewSoilModel(config.Default())
	s := components.NewSoil(50, 30, 300, 40, 2, 6.5)
	if got := m.DrawBN(&s, 5); got != 2 {
		t.Errorf("DrawBN = %v, want 2", got)
	}
	if s.BN() != 0 {
		t.Errorf("BN = %v, want 0", s.BN())
	}
}

func TestFinalizedOxygenSurvivesSoilWrites(t *testing.T) {
	cfg := config.Default()
	m := NewSoilModel(cfg)
	s := components.NewSoil(50, 30, 300, 40, 30, 6.5)
	m.UpdateOxygen(&s, 12)
	want := s.OxygenBase() - 12

	writes := []struct {
		name  string
		write func()
	}{
		{"draw bn", func() { m.DrawBN(&s, 1) }},
		{"add nutrients", func() { m.AddNutrients(&s, 0.1, 1, 0.1) }},
		{"add moisture", func() { m.AddMoisture(&s, 0.5) }},
		{"step", func() { m.Step(&s, SoilEnv{Temperature: 22, Humidity: 60, Shade: 1}) }},
	}
	for _, w := range writes {
		w.write()
		if math.Abs(s.Oxygen()-want) > 1e-9 {
			t.Errorf("after %s oxygen = %v, want %v", w.name, s.Oxygen(), want)
		}
	}

	m.AddMoisture(&s, cfg.Soil.WetThreshold)
	if want := max(0, s.OxygenBase()-12); s.Oxygen() != want {
		t.Errorf("saturated oxygen = %v, want %v", s.Oxygen(), want)
	}
	m.UpdateOxygen(&s, 0)
	if s.Oxygen() != s.OxygenBase() {
		t.Errorf("oxygen = %v, want potential %v once consumption stops", s.Oxygen(), s.OxygenBase())
	}
}

func TestSoilNoiseWithinVariation(t *testing.T) {
	cfg := config.Default()
	n := NewSoilNoise(42, &cfg.World)
	for y := range cfg.World.Height {
		for x := range cfg.World.Width {
			dm, do, dc := n.Offsets(x, y)
			if math.Abs(dm) > cfg.World.MoistureVariation || math.Abs(do) > cfg.World.OrganicVariation ||
				math.Abs(dc) > cfg.World.CompactionVariation {
				t.Fatalf("(%d,%d) offsets %v %v %v exceed variation", x, y, dm, do, dc)
			}
		}
	}

	again := NewSoilNoise(42, &cfg.World)
	a1, a2, a3 := n.Offsets(3, 4)
	b1, b2, b3 := again.Offsets(3, 4)
	if a1 != b1 || a2 != b2 || a3 != b3 {
		t.Error("same seed gave different offsets")
	}
}
