package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

func TestSpawnChances(t *testing.T) {
	cfg := config.Default()
	m := NewPestModel(cfg)
	sc, rc := cfg.Pests.SapFeeder, cfg.Pests.RootFeeder

	dry := components.NewSoil(40, 30, 300, 40, 30, 6.5)
	soggy := components.NewSoil(90, 30, 100, 40, 30, 6.5)
	soggy.SetWetDuration(rc.WetDuration)

	tests := []struct {
		name      string
		soil      components.Soil
		env       PestEnv
		sap, root float64
	}{
		{"no plant", dry, PestEnv{}, 0, 0},
		{"baseline", dry, PestEnv{HasPlant: true, Humidity: 50}, sc.SpawnChance, 0},
		{"humid", dry, PestEnv{HasPlant: true, Humidity: 90}, sc.SpawnChance * 2, 0},
		{"waterlogged", soggy, PestEnv{HasPlant: true, Humidity: 50}, sc.SpawnChance * 2 * sc.CompetingScale, rc.SpawnChance},
		{"suppressed", soggy, PestEnv{HasPlant: true, Humidity: 50, SuppressorNearby: true}, sc.SpawnChance * 2 * sc.CompetingScale, rc.SpawnChance * rc.Suppression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sap, root := m.SpawnChances(&tt.soil, tt.env)
			if sap != tt.sap || root != tt.root {
				t.Errorf("chances = %v/%v, want %v/%v", sap, root, tt.sap, tt.root)
			}
		})
	}
}

func TestPestClearedWithoutHost(t *testing.T) {
	m := NewPestModel(config.Default())
	var pw components.PestWeed
	pw.SetPest(components.SapFeeder, 3)
	s := components.NewSoil(50, 30, 300, 40, 30, 6.5)

	if got := m.Update(&pw, &s, PestEnv{}, rand.New(rand.NewSource(1))); got != PestCleared {
		t.Errorf("change = %v, want pest_cleared", got)
	}
	if pw.HasPest() || pw.PestLevel() != 0 {
		t.Error("pest survived without host")
	}
}

func TestPestLevelStaysBounded(t *testing.T) {
	cfg := config.Default()
	cfg.Pests.SapFeeder.LevelUpChance = 1
	cfg.Pests.SapFeeder.SpawnChance = 1
	m := NewPestModel(cfg)
	rng := rand.New(rand.NewSource(2))

	var pw components.PestWeed
	s := components.NewSoil(50, 30, 300, 40, 30, 6.5)
	env := PestEnv{HasPlant: true, Humidity: 50, Support: NoSupport()}
	for range 20 {
		m.Update(&pw, &s, env, rng)
		if pw.PestLevel() < 0 || pw.PestLevel() > components.MaxPestLevel {
			t.Fatalf("level = %d", pw.PestLevel())
		}
	}
	if pw.Pest() != components.SapFeeder || pw.PestLevel() != components.MaxPestLevel {
		t.Errorf("pest = %v level %d, want sap feeder at max", pw.Pest(), pw.PestLevel())
	}
}

func TestNetSlowsSapFeeders(t *testing.T) {
	cfg := config.Default()
	cfg.Pests.SapFeeder.LevelUpChance = 1
	m := NewPestModel(cfg)
	rng := rand.New(rand.NewSource(4))

	var pw components.PestWeed
	pw.SetPest(components.SapFeeder, 1)
	s := components.NewSoil(50, 30, 300, 40, 30, 6.5)
	sup := NoSupport()
	sup.SapLevelUpScale = 0
	m.Update(&pw, &s, PestEnv{HasPlant: true, Support: sup}, rng)
	if pw.PestLevel() != 1 {
		t.Errorf("level = %d under a full net, want 1", pw.PestLevel())
	}
}

func TestRootFeederRemovedByMicrobes(t *testing.T) {
	cfg := config.Default()
	cfg.Pests.RootFeeder.RemovalChance = 1
	cfg.Pests.RootFeeder.LevelUpChance = 0
	m := NewPestModel(cfg)

	var pw components.PestWeed
	pw.SetPest(components.RootFeeder, 2)
	s := components.NewSoil(50, 30, cfg.Pests.RootFeeder.RemovalMicrobes+50, 40, 30, 6.5)
	got := m.Update(&pw, &s, PestEnv{HasPlant: true, Support: NoSupport()}, rand.New(rand.NewSource(1)))
	if got != PestRemoved || pw.HasPest() {
		t.Errorf("change = %v, pest %v", got, pw.Pest())
	}
}

func TestDownwind(t *testing.T) {
	tests := []struct {
		wind   components.Direction
		dx, dy int
		want   bool
	}{
		{components.DirEast, -1, 0, true},
		{components.DirEast, -1, 1, true},
		{components.DirEast, 0, 1, false},
		{components.DirEast, 1, 0, false},
		{components.DirWest, 1, -1, true},
		{components.DirNorth, 0, 1, true},
		{components.DirNorth, 0, -1, false},
		{components.DirSouth, 1, -1, true},
		{components.DirNone, 1, 1, true},
	}
	for _, tt := range tests {
		if got := Downwind(tt.wind, tt.dx, tt.dy); got != tt.want {
			t.Errorf("Downwind(%v, %d, %d) = %v, want %v", tt.wind, tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestWeedSpreadTarget(t *testing.T) {
	cfg := config.Default()
	cfg.Weeds.SpreadChance = 1
	m := NewWeedModel(cfg, NewSoilModel(cfg))
	rng := rand.New(rand.NewSource(9))
	at := components.Coord{X: 5, Y: 5}
	all := func(components.Coord) bool { return true }

	var pw components.PestWeed
	pw.SetWeedLevel(components.MaxWeedLevel - 1)
	if _, ok := m.SpreadTarget(&pw, at, components.DirNone, all, rng); ok {
		t.Error("weed below max level spread")
	}

	pw.SetWeedLevel(components.MaxWeedLevel)
	for range 100 {
		c, ok := m.SpreadTarget(&pw, at, components.DirEast, all, rng)
		if !ok {
			t.Fatal("no spread target")
		}
		if c.X >= at.X {
			t.Fatalf("east wind spread to %v", c)
		}
	}

	none := func(components.Coord) bool { return false }
	if _, ok := m.SpreadTarget(&pw, at, components.DirEast, none, rng); ok {
		t.Error("spread with no eligible neighbor")
	}
}

func TestWeedGrowth(t *testing.T) {
	cfg := config.Default()
	cfg.Weeds.SeedChance = 1
	cfg.Weeds.GrowthChance = 1
	soil := NewSoilModel(cfg)
	m := NewWeedModel(cfg, soil)
	rng := rand.New(rand.NewSource(1))
	s := soil.NewSoil(0, 0, 0)

	var pw components.PestWeed
	if m.Grow(&pw, &s, false, rng) || pw.WeedLevel() != 0 {
		t.Fatal("seeded while seeding disabled")
	}
	if !m.Grow(&pw, &s, true, rng) || pw.WeedLevel() != 1 {
		t.Fatalf("seed failed, level %d", pw.WeedLevel())
	}

	bn := s.BN()
	for range 10 {
		m.Grow(&pw, &s, true, rng)
	}
	if pw.WeedLevel() != components.MaxWeedLevel {
		t.Errorf("weed level = %d, want max", pw.WeedLevel())
	}
	if s.BN() >= bn {
		t.Errorf("BN %v -> %v, weeds should drain", bn, s.BN())
	}
}

func TestMovePollinator(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	never := func(components.Coord) bool { return false }

	if got := MovePollinator(components.Coord{}, 1, 1, 5, never, rng); got != (components.Coord{}) {
		t.Errorf("1x1 garden moved to %v", got)
	}

	from := components.Coord{X: 0, Y: 0}
	for range 200 {
		c := MovePollinator(from, 4, 4, 5, never, rng)
		if c.X < 0 || c.Y < 0 || c.X > 1 || c.Y > 1 || c == from {
			t.Fatalf("moved from %v to %v", from, c)
		}
	}

	target := components.Coord{X: 1, Y: 1}
	only := func(c components.Coord) bool { return c == target }
	hits := 0
	for range 1000 {
		if MovePollinator(from, 4, 4, 1000, only, rng) == target {
			hits++
		}
	}
	if hits < 900 {
		t.Errorf("attractive cell chosen %d/1000 times", hits)
	}
}
