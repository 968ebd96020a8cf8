package systems

import (
	"math"

	"github.com/pthm-cable/garden/config"
)

// LightFactor returns daylight intensity in [0,1] for a time of day in minutes.
// It follows a half sine between dawn and dusk and is zero outside that window.
func LightFactor(minute float64, cfg *config.PlantConfig) float64 {
	dawn, dusk := cfg.DawnMinute, cfg.DuskMinute
	if dusk <= dawn || minute <= dawn || minute >= dusk {
		return 0
	}
	return math.Sin(math.Pi * (minute - dawn) / (dusk - dawn))
}

// TemperatureFactor is the banded plant temperature response.
// Full inside the optimal band, linear toward TempFloor at the cold and hot limits,
// and TempFloor beyond them.
func TemperatureFactor(temp float64, cfg *config.PlantConfig) float64 {
	switch {
	case temp <= cfg.ColdTemp || temp >= cfg.HotTemp:
		return cfg.TempFloor
	case temp < cfg.OptimalMin:
		return lerp(cfg.TempFloor, 1, ramp(temp, cfg.ColdTemp, cfg.OptimalMin))
	case temp <= cfg.OptimalMax:
		return 1
	default:
		return lerp(1, cfg.TempFloor, ramp(temp, cfg.OptimalMax, cfg.HotTemp))
	}
}

// RespirationMultiplier doubles every 10C above the reference, clamped to [0.5, 2].
func RespirationMultiplier(temp float64, cfg *config.PlantConfig) float64 {
	return clamp(math.Pow(2, (temp-cfg.RespRefTemp)/10), 0.5, 2.0)
}
