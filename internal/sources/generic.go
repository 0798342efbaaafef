// Package sources provides primary particle generators.
package sources

import (
	"fmt"
	"math"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// GenericSource shoots n events of a single species from a disc,
// with an optional gaussian energy spread. One primary per event.
type GenericSource struct {
	name      string
	particle  engine.Particle
	n         int
	energy    float64
	sigma     float64
	diameter  float64
	position  engine.Vec3
	direction engine.Vec3
}

func NewGenericSource(name, particle string, n int, energy float64) (*GenericSource, error) {
	p, err := engine.ParticleByName(particle)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("sources: event count must be positive, got %d", n)
	}
	if energy <= 0 {
		return nil, fmt.Errorf("sources: energy must be positive, got %f", energy)
	}
	return &GenericSource{
		name:      name,
		particle:  p,
		n:         n,
		energy:    energy,
		direction: engine.Vec3{Z: 1},
	}, nil
}

func (s *GenericSource) Name() string    { return s.name }
func (s *GenericSource) EventCount() int { return s.n }

// SetSigma sets the gaussian energy spread.
func (s *GenericSource) SetSigma(sigma float64) { s.sigma = sigma }

// SetDiameter sets the emission disc diameter, 0 for a point source.
func (s *GenericSource) SetDiameter(d float64) { s.diameter = d }

// SetPosition places the emission disc center.
func (s *GenericSource) SetPosition(p engine.Vec3) { s.position = p }

// SetDirection sets the beam axis; the vector is normalized.
func (s *GenericSource) SetDirection(d engine.Vec3) { s.direction = d.Unit() }

func (s *GenericSource) GeneratePrimaries(eventID int, rng *engine.Rand) []*engine.Track {
	energy := s.energy
	if s.sigma > 0 {
		energy = rng.Gauss(s.energy, s.sigma)
		if energy < 0 {
			energy = 0
		}
	}

	pos := s.position
	if s.diameter > 0 {
		// uniform over the disc, in the plane perpendicular to z
		r := s.diameter / 2 * math.Sqrt(rng.Float64())
		phi := 2 * math.Pi * rng.Float64()
		pos = pos.Add(engine.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi)})
	}

	return []*engine.Track{{
		Particle:  s.particle,
		Energy:    energy,
		Position:  pos,
		Direction: s.direction,
		Weight:    1,
		Alive:     true,
	}}
}

func (s *GenericSource) Params() map[string]float64 {
	return map[string]float64{
		"n":        float64(s.n),
		"energy":   s.energy,
		"sigma":    s.sigma,
		"diameter": s.diameter,
	}
}

func (s *GenericSource) SetParam(name string, value float64) error {
	switch name {
	case "n":
		if value < 1 {
			return fmt.Errorf("sources: n must be at least 1, got %f", value)
		}
		s.n = int(value)
	case "energy":
		if value <= 0 {
			return fmt.Errorf("sources: energy must be positive, got %f", value)
		}
		s.energy = value
	case "sigma":
		s.sigma = value
	case "diameter":
		s.diameter = value
	default:
		return fmt.Errorf("sources: GenericSource has no parameter %q", name)
	}
	return nil
}
