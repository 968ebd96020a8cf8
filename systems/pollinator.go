package systems

import (
	"math/rand"

	"github.com/pthm-cable/garden/components"
)

// MovePollinator steps the pollinator agent to a random in-bounds neighbor.
// Neighbors for which attractive returns true are weighted by attractWeight, others by 1.
func MovePollinator(from components.Coord, width, height int, attractWeight float64,
	attractive func(components.Coord) bool, rng *rand.Rand) components.Coord {
	var (
		cells   [8]components.Coord
		weights [8]float64
		n       int
		total   float64
	)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := from.Add(dx, dy)
			if c.X < 0 || c.Y < 0 || c.X >= width || c.Y >= height {
				continue
			}
			wgt := 1.0
			if attractive(c) {
				wgt = max(attractWeight, 0)
			}
			cells[n], weights[n] = c, wgt
			total += wgt
			n++
		}
	}
	if n == 0 || total <= 0 {
		return from
	}

	r := rng.Float64() * total
	for i := 0; i < n; i++ {
		r -= weights[i]
		if r < 0 {
			return cells[i]
		}
	}
	return cells[n-1]
}
