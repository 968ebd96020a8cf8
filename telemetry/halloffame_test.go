package telemetry

import (
	"testing"

	"github.com/google/uuid"
)

func TestHallOfFameKeepsBestYields(t *testing.T) {
	hof := NewHallOfFame(3)
	lt := NewLifetimeTracker()

	yields := []float64{1.0, 4.0, 2.0, 3.0, 0.5}
	for i, y := range yields {
		id := uuid.New()
		lt.Register(id, 0, i, 0, 0, 0.05)
		added := hof.Consider("tomato", lt.Remove(id), 288, 5, y, y*3)
		if wantAdded := i < 3 || y > 1.0; added != wantAdded {
			t.Errorf("yield %.1f: added = %v, want %v", y, added, wantAdded)
		}
	}

	best := hof.Best("tomato")
	if len(best) != 3 {
		t.Fatalf("len(best) = %d, want 3", len(best))
	}
	for i, want := range []float64{4, 3, 2} {
		if best[i].Yield != want {
			t.Errorf("best[%d].Yield = %v, want %v", i, best[i].Yield, want)
		}
	}
	if best[0].Days != 1 {
		t.Errorf("Days = %v, want 1 (288 ticks at 5 min)", best[0].Days)
	}
}

func TestHallOfFameTopAcrossSpecies(t *testing.T) {
	hof := NewHallOfFame(5)
	lt := NewLifetimeTracker()
	for species, y := range map[string]float64{"bean": 1.5, "tomato": 3.0, "carrot": 2.0} {
		id := uuid.New()
		lt.Register(id, 0, 0, 0, 0, 0.05)
		hof.Consider(species, lt.Get(id), 100, 5, y, y)
	}

	species, best, ok := hof.Top()
	if !ok || species != "tomato" || best.Yield != 3.0 {
		t.Errorf("Top() = %s %+v %v, want tomato 3.0", species, best, ok)
	}
	if got := hof.Species(); len(got) != 3 || got[0] != "bean" {
		t.Errorf("Species() = %v", got)
	}

	hof.Clear()
	if _, _, ok := hof.Top(); ok {
		t.Error("Top() found an entry after Clear")
	}
}

func TestHallOfFameRejectsEmpty(t *testing.T) {
	hof := NewHallOfFame(3)
	if hof.Consider("bean", nil, 10, 5, 1, 1) {
		t.Error("accepted a harvest with no lifetime")
	}
	lt := NewLifetimeTracker()
	id := uuid.New()
	lt.Register(id, 0, 0, 0, 0, 0.05)
	if hof.Consider("bean", lt.Get(id), 10, 5, 0, 0) {
		t.Error("accepted a zero-yield harvest")
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	id := uuid.New()
	lt.Register(id, 2, 3, 4, 50, 0.05)

	lt.Observe(id, 0.3, true, false)
	lt.Observe(id, 0.2, false, true)
	lt.Observe(id, 0.4, true, false)
	lt.RecordWatering(id)
	lt.Observe(uuid.New(), 1, true, true) // unknown plants are ignored

	s := lt.Get(id)
	if s == nil {
		t.Fatal("Get returned nil")
	}
	if s.PeakSize != 0.4 || s.PestTicks != 2 || s.Waterings != 1 || !s.Pollinated {
		t.Errorf("stats = %+v", s)
	}
	if s.Species != 2 || s.X != 3 || s.Y != 4 || s.PlantedTick != 50 {
		t.Errorf("registration = %+v", s)
	}

	if lt.Remove(id) == nil || lt.Len() != 0 {
		t.Error("Remove did not drop the plant")
	}
}
