// Package config loads and saves simulation descriptions.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSeed      = 123456
	DefaultEnergyCut = 0.001 // MeV
	DefaultWorldHalf = 500.0 // mm
	DefaultEvents    = 1000
	DefaultEnergy    = 150.0 // MeV
)

type Config struct {
	Run     RunConfig      `yaml:"run"`
	World   WorldConfig    `yaml:"world"`
	Volumes []VolumeConfig `yaml:"volumes"`
	Source  SourceConfig   `yaml:"source"`
	Physics PhysicsConfig  `yaml:"physics"`
	Actors  []ActorConfig  `yaml:"actors"`
}

type RunConfig struct {
	Seed      int64   `yaml:"seed"`
	EnergyCut float64 `yaml:"energy_cut"`
	Verbose   bool    `yaml:"verbose"`
}

type WorldConfig struct {
	HalfSize float64 `yaml:"half_size"`
	Material string  `yaml:"material"`
}

type VolumeConfig struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Size        [3]float64 `yaml:"size"`
	Rmax        float64    `yaml:"rmax"`
	HalfZ       float64    `yaml:"half_z"`
	Translation [3]float64 `yaml:"translation"`
	Material    string     `yaml:"material"`
	Mother      string     `yaml:"mother"`
}

type SourceConfig struct {
	Type      string     `yaml:"type"`
	Name      string     `yaml:"name"`
	Particle  string     `yaml:"particle"`
	N         int        `yaml:"n"`
	Energy    float64    `yaml:"energy"`
	Sigma     float64    `yaml:"sigma"`
	Diameter  float64    `yaml:"diameter"`
	Position  [3]float64 `yaml:"position"`
	Direction [3]float64 `yaml:"direction"`
}

type PhysicsConfig struct {
	// Processes lists the attached processes by name; empty means the
	// full default list.
	Processes []string `yaml:"processes"`
	// MaxStep caps every step when positive (StepLimiter).
	MaxStep float64 `yaml:"max_step"`
}

type ActorConfig struct {
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	AttachedTo string  `yaml:"attached_to"`
	Output     string  `yaml:"output"`
	Bins       int     `yaml:"bins"`
	Center     float64 `yaml:"center"`
	HalfLength float64 `yaml:"half_length"`
}

func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Seed:      DefaultSeed,
			EnergyCut: DefaultEnergyCut,
		},
		World: WorldConfig{
			HalfSize: DefaultWorldHalf,
			Material: "Air",
		},
		Volumes: []VolumeConfig{
			{
				Name:        "waterbox",
				Type:        "Box",
				Size:        [3]float64{400, 400, 400},
				Translation: [3]float64{0, 0, 250},
				Material:    "Water",
				Mother:      "world",
			},
		},
		Source: SourceConfig{
			Type:      "generic",
			Name:      "beam",
			Particle:  "proton",
			N:         DefaultEvents,
			Energy:    DefaultEnergy,
			Direction: [3]float64{0, 0, 1},
		},
		Actors: []ActorConfig{
			{Name: "stats", Type: "SimulationStatistics"},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the parts the assembly step cannot default away.
func (c *Config) Validate() error {
	if c.World.HalfSize <= 0 {
		return fmt.Errorf("config: world half_size must be positive, got %f", c.World.HalfSize)
	}
	if c.Source.N <= 0 {
		return fmt.Errorf("config: source n must be positive, got %d", c.Source.N)
	}
	if c.Source.Energy <= 0 {
		return fmt.Errorf("config: source energy must be positive, got %f", c.Source.Energy)
	}
	for _, v := range c.Volumes {
		if v.Name == "" {
			return fmt.Errorf("config: volume without a name")
		}
	}
	for _, a := range c.Actors {
		if a.Name == "" {
			return fmt.Errorf("config: actor without a name")
		}
	}
	return nil
}
