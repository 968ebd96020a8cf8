package systems

// Clamp functions for common value ranges

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// clamp100 clamps v to the [0, 100] range used by soil scores.
func clamp100(v float64) float64 {
	return clamp(v, 0, 100)
}

// lerp interpolates linearly from a to b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ramp maps v from [lo, hi] onto [0, 1], clamped.
func ramp(v, lo, hi float64) float64 {
	if hi <= lo {
		if v >= hi {
			return 1
		}
		return 0
	}
	return clamp01((v - lo) / (hi - lo))
}

// mean returns the arithmetic mean of vs.
func mean(vs ...float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// bandDistance returns how far v lies outside [lo, hi], or 0 inside.
func bandDistance(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}
