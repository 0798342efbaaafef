package physics

import (
	"math"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// Decay samples in-flight decay of unstable particles. The sampled
// length is memoryless, so re-proposing every step keeps the
// exponential law exact.
type Decay struct {
	rng *engine.Rand
}

func NewDecay(rng *engine.Rand) *Decay {
	return &Decay{rng: rng}
}

func (d *Decay) Name() string { return "Decay" }

func (d *Decay) StepLimit(tr *engine.Track) float64 {
	tau := tr.Particle.MeanLife
	if tau <= 0 {
		return engine.Unlimited
	}
	gamma := 1 + tr.Energy/tr.Particle.Mass
	beta := math.Sqrt(1 - 1/(gamma*gamma))
	meanPath := gamma * beta * 299.792458 * tau
	if meanPath <= 0 {
		return 0
	}
	return -meanPath * math.Log(d.rng.Float64())
}

// Execute kills the parent. A decaying muon hands part of its energy
// to an electron secondary; other species just disappear with a local
// deposit of the remaining kinetic energy.
func (d *Decay) Execute(tr *engine.Track, s *engine.Step) {
	if tr.Particle.Name == "muon" {
		electron, _ := engine.ParticleByName("electron")
		s.Secondaries = append(s.Secondaries, &engine.Track{
			Particle:  electron,
			Energy:    tr.Energy / 3,
			Position:  tr.Position,
			Direction: tr.Direction,
			Time:      tr.Time,
			Weight:    tr.Weight,
			Alive:     true,
		})
		s.Edep += tr.Energy * 2 / 3
	} else {
		s.Edep += tr.Energy
	}
	tr.Energy = 0
	tr.Kill()
}
