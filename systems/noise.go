package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/garden/config"
)

// SoilNoise generates the initial soil heterogeneity field.
// Each soil input gets its own noise channel so the fields are uncorrelated.
type SoilNoise struct {
	moisture   opensimplex.Noise
	organic    opensimplex.Noise
	compaction opensimplex.Noise
	world      *config.WorldConfig
}

// NewSoilNoise creates noise channels from a seed.
func NewSoilNoise(seed int64, world *config.WorldConfig) *SoilNoise {
	return &SoilNoise{
		moisture:   opensimplex.NewNormalized(seed),
		organic:    opensimplex.NewNormalized(seed + 1),
		compaction: opensimplex.NewNormalized(seed + 2),
		world:      world,
	}
}

// Offsets returns the moisture, organic matter and compaction deltas for a cell.
// Each lies within +/- the configured variation.
func (n *SoilNoise) Offsets(x, y int) (dMoisture, dOrganic, dCompaction float64) {
	fx, fy := float64(x), float64(y)
	f := n.world.NoiseScale
	dMoisture = centered(octaveNoise(n.moisture, fx, fy, 3, f, 0.5)) * n.world.MoistureVariation
	dOrganic = centered(octaveNoise(n.organic, fx, fy, 3, f, 0.5)) * n.world.OrganicVariation
	dCompaction = centered(octaveNoise(n.compaction, fx, fy, 2, f, 0.5)) * n.world.CompactionVariation
	return dMoisture, dOrganic, dCompaction
}

// centered maps a [0,1] noise sample onto [-1,1].
func centered(v float64) float64 {
	return clamp(v*2-1, -1, 1)
}

// octaveNoise layers several frequencies of noise into a fractal sample in [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxVal == 0 {
		return 0.5
	}
	return total / maxVal
}
