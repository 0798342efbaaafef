package sources

import (
	"fmt"
	"sort"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// Builder creates a source of one type from its user parameters.
type Builder func(name string, spec Spec) (engine.Source, error)

// Spec is the user-facing description of a source.
type Spec struct {
	Particle  string
	N         int
	Energy    float64
	Sigma     float64
	Diameter  float64
	Position  engine.Vec3
	Direction engine.Vec3
}

var builders = map[string]Builder{
	"generic": func(name string, spec Spec) (engine.Source, error) {
		src, err := NewGenericSource(name, spec.Particle, spec.N, spec.Energy)
		if err != nil {
			return nil, err
		}
		src.SetSigma(spec.Sigma)
		src.SetDiameter(spec.Diameter)
		src.SetPosition(spec.Position)
		if spec.Direction != (engine.Vec3{}) {
			src.SetDirection(spec.Direction)
		}
		return src, nil
	},
}

// New builds a source of the given type.
func New(typeName, name string, spec Spec) (engine.Source, error) {
	b, ok := builders[typeName]
	if !ok {
		return nil, fmt.Errorf("sources: unknown source type %q", typeName)
	}
	return b(name, spec)
}

// TypeNames returns the registered source types, sorted.
func TypeNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
