package engine

import "math/rand"

// Rand is the run's random engine. It wraps math/rand with the seed it
// was built from, so a run can report its seed for replay.
type Rand struct {
	*rand.Rand
	seed int64
}

func NewRand(seed int64) *Rand {
	return &Rand{Rand: rand.New(rand.NewSource(seed)), seed: seed}
}

func (r *Rand) Seed() int64 { return r.seed }

// Reseed restarts the stream from a new seed. Only valid before a run
// starts using the engine.
func (r *Rand) Reseed(seed int64) {
	r.Rand = rand.New(rand.NewSource(seed))
	r.seed = seed
}

// Gauss samples a normal deviate with the given mean and sigma.
func (r *Rand) Gauss(mean, sigma float64) float64 {
	return mean + sigma*r.NormFloat64()
}
