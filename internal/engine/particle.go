package engine

import (
	"fmt"
	"sort"
)

// Particle describes a particle species. Mass is the rest mass in MeV,
// MeanLife the proper lifetime in ns (zero means stable).
type Particle struct {
	Name     string
	Mass     float64
	Charge   float64
	MeanLife float64
}

var particleTable = map[string]Particle{
	"proton":   {Name: "proton", Mass: 938.272 * MeV, Charge: 1},
	"electron": {Name: "electron", Mass: 0.511 * MeV, Charge: -1},
	"positron": {Name: "positron", Mass: 0.511 * MeV, Charge: 1},
	"gamma":    {Name: "gamma", Mass: 0, Charge: 0},
	"neutron":  {Name: "neutron", Mass: 939.565 * MeV, Charge: 0, MeanLife: 8.8e11 * NS},
	"alpha":    {Name: "alpha", Mass: 3727.379 * MeV, Charge: 2},
	"muon":     {Name: "muon", Mass: 105.658 * MeV, Charge: -1, MeanLife: 2197.0 * NS},
}

// ParticleByName looks up a species in the built-in table.
func ParticleByName(name string) (Particle, error) {
	p, ok := particleTable[name]
	if !ok {
		return Particle{}, fmt.Errorf("%w: %q", ErrUnknownParticle, name)
	}
	return p, nil
}

// ParticleNames returns the names of all known species, sorted.
func ParticleNames() []string {
	names := make([]string, 0, len(particleTable))
	for name := range particleTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
