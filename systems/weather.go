package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// MinutesPerDay is the length of a simulated day.
const MinutesPerDay = 1440

// Weather is the global climate, time, wind, humidity and pollinator state.
// One instance lives for a simulation run and is rebuilt on reset.
type Weather struct {
	cfg     *config.WeatherConfig
	climate *config.ClimateConfig

	Temperature float64
	Humidity    float64
	WindSpeed   float64
	WindDir     components.Direction
	Pollination bool

	TimeOfDay float64 // Minutes since midnight, [0, 1440)
	Days      float64 // Simulated days elapsed
	Ticks     int

	Attraction float64 // Beneficial attraction
	Pollinator components.Coord

	day int // Whole day the wind direction was last rolled for
}

// NewWeather creates weather for the active climate at the configured start time.
func NewWeather(cfg *config.Config, rng *rand.Rand) *Weather {
	w := &Weather{
		cfg:        &cfg.Weather,
		climate:    cfg.ActiveClimate(),
		TimeOfDay:  math.Mod(cfg.Time.StartMinute, MinutesPerDay),
		Pollinator: components.Coord{X: cfg.World.Width / 2, Y: cfg.World.Height / 2},
	}
	w.Humidity = w.climate.Humidity
	w.WindDir = w.rollDirection(rng)
	w.Temperature = w.temperatureAt(w.TimeOfDay, rng)
	return w
}

// Climate returns the active climate.
func (w *Weather) Climate() *config.ClimateConfig { return w.climate }

// AdvanceTime moves the clock forward and refreshes temperature.
// Wind direction is rerolled once each time a day boundary is crossed.
func (w *Weather) AdvanceTime(minutes float64, rng *rand.Rand) {
	if minutes < 0 || math.IsNaN(minutes) {
		minutes = 0
	}
	w.Days += minutes / MinutesPerDay
	w.TimeOfDay = math.Mod(w.TimeOfDay+minutes, MinutesPerDay)
	if d := int(w.Days); d > w.day {
		w.day = d
		w.WindDir = w.rollDirection(rng)
	}
	w.Temperature = w.temperatureAt(w.TimeOfDay, rng)
}

// BaseTemperature is the daily curve without jitter: a cosine over the climate range
// peaking at PeakMinute.
func (w *Weather) BaseTemperature(minute float64) float64 {
	mid := (w.climate.TempMin + w.climate.TempMax) / 2
	amp := (w.climate.TempMax - w.climate.TempMin) / 2
	return mid + amp*math.Cos(2*math.Pi*(minute-w.cfg.PeakMinute)/MinutesPerDay)
}

func (w *Weather) temperatureAt(minute float64, rng *rand.Rand) float64 {
	jitter := 0.0
	if w.cfg.TempJitter > 0 {
		jitter = (rng.Float64()*2 - 1) * w.cfg.TempJitter
	}
	return w.BaseTemperature(minute) + jitter
}

// rollDirection picks "no wind" against the four directions by configured weight.
func (w *Weather) rollDirection(rng *rand.Rand) components.Direction {
	none := float64(max(0, w.cfg.NoWindWeight))
	dirs := float64(max(0, w.cfg.DirectionWeight))
	if none+dirs <= 0 {
		return components.DirNone
	}
	r := rng.Float64() * (none + dirs)
	if r < none {
		return components.DirNone
	}
	i := int((r - none) / dirs * 4)
	return components.Cardinals[min(i, 3)]
}

// Update runs the end-of-tick global weather step: periodic wind speed,
// humidity from evaporation, wind and climate pull, then the pollination flag.
func (w *Weather) Update(totalEvaporation float64, rng *rand.Rand) {
	w.Ticks++
	if w.cfg.WindIntervalTicks > 0 && w.Ticks%w.cfg.WindIntervalTicks == 0 {
		w.WindSpeed = 0
		if rng.Float64() < w.climate.WindChance {
			w.WindSpeed = w.climate.WindMin + rng.Float64()*(w.climate.WindMax-w.climate.WindMin)
		}
	}

	h := w.Humidity
	h += totalEvaporation * w.cfg.HumidityEvapGain
	h -= w.WindSpeed * w.cfg.HumidityWindLoss
	h += (w.climate.Humidity - h) * w.cfg.HumidityPull
	w.Humidity = clamp100(h)

	w.Pollination = w.WindSpeed >= w.PollinationThreshold()
}

// PollinationThreshold is the wind speed needed for pollination, lowered by attraction.
func (w *Weather) PollinationThreshold() float64 {
	reduce := min(w.cfg.PollinationMaxReduce, w.Attraction*w.cfg.PollinationAttraction)
	return w.cfg.PollinationWind * (1 - reduce)
}

// UpdateAttraction decays attraction geometrically, then adds gain per qualifying plant.
func (w *Weather) UpdateAttraction(qualifying int) {
	a := w.Attraction * w.cfg.AttractionDecay
	a += float64(qualifying) * w.cfg.AttractionGain
	w.Attraction = clamp(a, 0, w.cfg.AttractionMax)
}
