package config

import (
	"fmt"
	"sort"
)

// Presets are ready-made simulation setups selectable by name.
var Presets = map[string]*Config{
	"proton-bragg": {
		Run:   RunConfig{Seed: DefaultSeed, EnergyCut: DefaultEnergyCut},
		World: WorldConfig{HalfSize: 500, Material: "Air"},
		Volumes: []VolumeConfig{
			{
				Name: "waterbox", Type: "Box",
				Size:        [3]float64{400, 400, 400},
				Translation: [3]float64{0, 0, 250},
				Material:    "Water", Mother: "world",
			},
		},
		Source: SourceConfig{
			Type: "generic", Name: "beam", Particle: "proton",
			N: 2000, Energy: 150, Sigma: 1.0, Diameter: 20,
			Direction: [3]float64{0, 0, 1},
		},
		Actors: []ActorConfig{
			{Name: "stats", Type: "SimulationStatistics"},
			{
				Name: "dose", Type: "Dose", AttachedTo: "waterbox",
				Bins: 200, Center: 250, HalfLength: 200,
			},
		},
	},
	"gamma-attenuation": {
		Run:   RunConfig{Seed: DefaultSeed, EnergyCut: DefaultEnergyCut},
		World: WorldConfig{HalfSize: 500, Material: "Air"},
		Volumes: []VolumeConfig{
			{
				Name: "slab", Type: "Box",
				Size:        [3]float64{300, 300, 100},
				Translation: [3]float64{0, 0, 100},
				Material:    "Lead", Mother: "world",
			},
		},
		Source: SourceConfig{
			Type: "generic", Name: "beam", Particle: "gamma",
			N: 5000, Energy: 1.0,
			Direction: [3]float64{0, 0, 1},
		},
		Actors: []ActorConfig{
			{Name: "stats", Type: "SimulationStatistics"},
			{
				Name: "dose", Type: "Dose", AttachedTo: "slab",
				Bins: 100, Center: 100, HalfLength: 50,
			},
		},
	},
	"muon-decay": {
		Run:   RunConfig{Seed: DefaultSeed, EnergyCut: DefaultEnergyCut},
		World: WorldConfig{HalfSize: 5000, Material: "Vacuum"},
		Source: SourceConfig{
			Type: "generic", Name: "beam", Particle: "muon",
			N: 1000, Energy: 10,
			Direction: [3]float64{0, 0, 1},
		},
		Actors: []ActorConfig{
			{Name: "stats", Type: "SimulationStatistics"},
		},
	},
}

// Preset returns a copy of the named preset.
func Preset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("config: unknown preset %q", name)
	}
	cp := *p
	return &cp, nil
}

// PresetNames returns the preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
