package physics

import (
	"fmt"
	"math"

	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
)

// Absorption attenuates neutral particles with a sampled interaction
// length and deposits the full energy at the interaction point.
type Absorption struct {
	world *geometry.World
	db    *geometry.MaterialDatabase
	rng   *engine.Rand

	// massAttenuation in cm^2/g, the single tunable of the model
	massAttenuation float64
}

func NewAbsorption(world *geometry.World, db *geometry.MaterialDatabase, rng *engine.Rand) *Absorption {
	return &Absorption{
		world:           world,
		db:              db,
		rng:             rng,
		massAttenuation: 0.07,
	}
}

func (a *Absorption) Name() string { return "Absorption" }

func (a *Absorption) StepLimit(tr *engine.Track) float64 {
	if tr.Particle.Charge != 0 {
		return engine.Unlimited
	}
	mat := a.material(tr.Volume)
	mu := a.massAttenuation * mat.Density // per cm
	if mu <= 0 {
		return engine.Unlimited
	}
	meanPath := 10.0 / mu // mm
	return -meanPath * math.Log(a.rng.Float64())
}

func (a *Absorption) Execute(tr *engine.Track, s *engine.Step) {
	s.Edep += tr.Energy
	tr.Energy = 0
	tr.Kill()
}

func (a *Absorption) material(volume string) geometry.Material {
	if v, err := a.world.Find(volume); err == nil {
		if m, err := a.db.Find(v.Material); err == nil {
			return m
		}
	}
	m, _ := a.db.Find("Vacuum")
	return m
}

func (a *Absorption) Params() map[string]float64 {
	return map[string]float64{"mass_attenuation": a.massAttenuation}
}

func (a *Absorption) SetParam(name string, value float64) error {
	if name != "mass_attenuation" {
		return fmt.Errorf("physics: Absorption has no parameter %q", name)
	}
	if value <= 0 {
		return fmt.Errorf("physics: mass_attenuation must be positive, got %f", value)
	}
	a.massAttenuation = value
	return nil
}
