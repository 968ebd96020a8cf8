package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

func TestBaseTemperatureCurve(t *testing.T) {
	cfg := config.Default()
	w := NewWeather(cfg, rand.New(rand.NewSource(1)))
	cl := w.Climate()
	peak := cfg.Weather.PeakMinute

	tests := []struct {
		name   string
		minute float64
		want   float64
	}{
		{"peak", peak, cl.TempMax},
		{"trough", math.Mod(peak+720, MinutesPerDay), cl.TempMin},
		{"quarter", math.Mod(peak+360, MinutesPerDay), (cl.TempMin + cl.TempMax) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.BaseTemperature(tt.minute); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BaseTemperature(%v) = %v, want %v", tt.minute, got, tt.want)
			}
		})
	}
}

func TestAdvanceTimeWraps(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(7))
	w := NewWeather(cfg, rng)
	start := w.TimeOfDay

	w.AdvanceTime(2*MinutesPerDay+30, rng)
	if math.Abs(w.Days-(2+30.0/MinutesPerDay)) > 1e-9 {
		t.Errorf("Days = %v", w.Days)
	}
	if want := math.Mod(start+30, MinutesPerDay); math.Abs(w.TimeOfDay-want) > 1e-9 {
		t.Errorf("TimeOfDay = %v, want %v", w.TimeOfDay, want)
	}

	w.AdvanceTime(-5, rng)
	if math.Abs(w.Days-(2+30.0/MinutesPerDay)) > 1e-9 {
		t.Error("negative elapsed time moved the clock")
	}
	jitter := cfg.Weather.TempJitter
	if base := w.BaseTemperature(w.TimeOfDay); math.Abs(w.Temperature-base) > jitter+1e-9 {
		t.Errorf("temperature %v strays more than %v from %v", w.Temperature, jitter, base)
	}
}

func TestHumidityStaysInRange(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(3))
	w := NewWeather(cfg, rng)
	for range 2000 {
		w.Update(5000, rng)
	}
	if w.Humidity != 100 {
		t.Errorf("humidity = %v under heavy evaporation, want 100", w.Humidity)
	}
	for range 2000 {
		w.WindSpeed = 1e6
		w.Update(0, rng)
	}
	if w.Humidity < 0 {
		t.Errorf("humidity = %v", w.Humidity)
	}
}

func TestAttractionDecaysThenGains(t *testing.T) {
	cfg := config.Default()
	w := NewWeather(cfg, rand.New(rand.NewSource(1)))
	wc := &cfg.Weather

	w.Attraction = 1
	w.UpdateAttraction(2)
	if want := 1*wc.AttractionDecay + 2*wc.AttractionGain; math.Abs(w.Attraction-want) > 1e-12 {
		t.Errorf("attraction = %v, want %v", w.Attraction, want)
	}

	w.UpdateAttraction(1_000_000)
	if w.Attraction != wc.AttractionMax {
		t.Errorf("attraction = %v, want cap %v", w.Attraction, wc.AttractionMax)
	}
}

func TestPollinationThreshold(t *testing.T) {
	cfg := config.Default()
	w := NewWeather(cfg, rand.New(rand.NewSource(1)))
	wc := &cfg.Weather

	w.Attraction = 0
	if got := w.PollinationThreshold(); got != wc.PollinationWind {
		t.Errorf("threshold = %v, want %v", got, wc.PollinationWind)
	}
	w.Attraction = wc.AttractionMax
	want := wc.PollinationWind * (1 - wc.PollinationMaxReduce)
	if got := w.PollinationThreshold(); math.Abs(got-want) > 1e-12 {
		t.Errorf("threshold = %v, want %v", got, want)
	}
}

func TestWindDirectionOnlyRerolledDaily(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(11))
	w := NewWeather(cfg, rng)
	dir := w.WindDir
	for range 100 {
		w.AdvanceTime(1, rng)
	}
	if w.WindDir != dir {
		t.Errorf("wind changed within the day: %v -> %v", dir, w.WindDir)
	}
}

func TestRollDirectionWeights(t *testing.T) {
	cfg := config.Default()
	cfg.Weather.NoWindWeight, cfg.Weather.DirectionWeight = 0, 1
	rng := rand.New(rand.NewSource(5))
	w := NewWeather(cfg, rng)
	for range 200 {
		if d := w.rollDirection(rng); d == components.DirNone {
			t.Fatal("rolled no wind with zero weight")
		}
	}
}
