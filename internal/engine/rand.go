package engine

import "math/rand"

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// randFloat returns a uniform value in [min, max).
func randFloat(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// spawnRand derives an independent generator from parent. rand.Rand is
// not safe for concurrent use, so every component running on its own
// goroutine gets its own.
func spawnRand(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewSource(parent.Int63()))
}

// randInt returns a uniform integer in [min, max].
func randInt(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
