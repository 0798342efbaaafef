// Package assembly builds a runnable simulation from a configuration:
// geometry tree, physics list, sources and actors wired into a run
// manager, with actor outputs collected at the end.
package assembly

import (
	"fmt"
	"sort"

	"github.com/nkrah/opengate-nils/internal/actors"
	"github.com/nkrah/opengate-nils/internal/config"
	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
	"github.com/nkrah/opengate-nils/internal/physics"
	"github.com/nkrah/opengate-nils/internal/sources"
	"github.com/nkrah/opengate-nils/internal/stepper"
)

// defaultProcesses is the full physics list, attached when the
// configuration does not narrow it down.
var defaultProcesses = []string{
	"Transportation",
	"IonisationLoss",
	"MultipleScattering",
	"Decay",
	"Absorption",
}

// Assembly is a built simulation ready to run.
type Assembly struct {
	World   *geometry.World
	DB      *geometry.MaterialDatabase
	Physics *engine.PhysicsList
	Manager *engine.RunManager
	Actors  map[string]engine.Actor

	outputs map[string]string
}

// Build assembles engine objects from the configuration.
func Build(cfg *config.Config) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db := geometry.NewMaterialDatabase()
	worldMat := cfg.World.Material
	if worldMat == "" {
		worldMat = "Air"
	}
	if _, err := db.Find(worldMat); err != nil {
		return nil, err
	}
	world := geometry.NewWorld(cfg.World.HalfSize, worldMat)

	for _, vc := range cfg.Volumes {
		v, err := buildVolume(vc, db)
		if err != nil {
			return nil, err
		}
		mother := vc.Mother
		if mother == "" {
			mother = geometry.WorldName
		}
		if err := world.Add(v, mother); err != nil {
			return nil, err
		}
	}

	ecfg := engine.DefaultConfig()
	ecfg.Seed = cfg.Run.Seed
	if cfg.Run.EnergyCut > 0 {
		ecfg.EnergyCut = cfg.Run.EnergyCut
	}

	plist := engine.NewPhysicsList()
	rm := engine.NewRunManager(world, plist, ecfg)
	if err := attachProcesses(plist, cfg.Physics, world, db, rm.Rng()); err != nil {
		return nil, err
	}

	src, err := sources.New(cfg.Source.Type, cfg.Source.Name, sources.Spec{
		Particle:  cfg.Source.Particle,
		N:         cfg.Source.N,
		Energy:    cfg.Source.Energy,
		Sigma:     cfg.Source.Sigma,
		Diameter:  cfg.Source.Diameter,
		Position:  vec3(cfg.Source.Position),
		Direction: vec3(cfg.Source.Direction),
	})
	if err != nil {
		return nil, err
	}
	rm.AddSource(src)

	a := &Assembly{
		World:   world,
		DB:      db,
		Physics: plist,
		Manager: rm,
		Actors:  make(map[string]engine.Actor),
		outputs: make(map[string]string),
	}
	for _, ac := range cfg.Actors {
		actor, err := buildActor(ac)
		if err != nil {
			return nil, err
		}
		a.Actors[ac.Name] = actor
		rm.AddActor(actor)
		if ac.Output != "" {
			a.outputs[ac.Name] = ac.Output
		}
	}
	return a, nil
}

// Stats returns the first statistics actor, nil when none configured.
func (a *Assembly) Stats() *actors.SimulationStatisticsActor {
	for _, actor := range a.Actors {
		if s, ok := actor.(*actors.SimulationStatisticsActor); ok {
			return s
		}
	}
	return nil
}

// Dose returns the first dose actor, nil when none configured.
func (a *Assembly) Dose() *actors.DoseActor {
	for _, actor := range a.Actors {
		if d, ok := actor.(*actors.DoseActor); ok {
			return d
		}
	}
	return nil
}

// OutputPaths lists the configured actor output files.
func (a *Assembly) OutputPaths() []string {
	paths := make([]string, 0, len(a.outputs))
	for _, p := range a.outputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteOutputs stores each actor's configured output file.
func (a *Assembly) WriteOutputs() error {
	for name, path := range a.outputs {
		var err error
		switch actor := a.Actors[name].(type) {
		case *actors.SimulationStatisticsActor:
			err = actor.Write(path)
		case *actors.DoseActor:
			err = actor.ExportJSON(path)
		case *actors.PhaseSpaceActor:
			err = actor.WriteCSV(path)
		default:
			err = fmt.Errorf("assembly: actor %q has no output writer", name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func buildVolume(vc config.VolumeConfig, db *geometry.MaterialDatabase) (*geometry.Volume, error) {
	material := vc.Material
	if material == "" {
		material = "Water"
	}
	if _, err := db.Find(material); err != nil {
		return nil, err
	}

	var shape geometry.Shape
	switch vc.Type {
	case "Box", "":
		shape = geometry.Box{
			HalfX: vc.Size[0] / 2,
			HalfY: vc.Size[1] / 2,
			HalfZ: vc.Size[2] / 2,
		}
	case "Sphere":
		shape = geometry.Sphere{Rmax: vc.Rmax}
	case "Tubs":
		shape = geometry.Tubs{Rmax: vc.Rmax, HalfZ: vc.HalfZ}
	default:
		return nil, fmt.Errorf("assembly: unknown volume type %q", vc.Type)
	}

	return &geometry.Volume{
		Name:        vc.Name,
		Shape:       shape,
		Translation: vec3(vc.Translation),
		Material:    material,
	}, nil
}

func buildActor(ac config.ActorConfig) (engine.Actor, error) {
	switch ac.Type {
	case "SimulationStatistics", "":
		a := actors.NewSimulationStatisticsActor(ac.Name)
		a.CountTrackTypes = true
		return a, nil
	case "Dose":
		return actors.NewDoseActor(ac.Name, ac.AttachedTo, ac.Bins, ac.Center, ac.HalfLength)
	case "PhaseSpace":
		return actors.NewPhaseSpaceActor(ac.Name, ac.AttachedTo), nil
	case "Kill":
		return actors.NewKillActor(ac.Name, ac.AttachedTo), nil
	default:
		return nil, fmt.Errorf("assembly: unknown actor type %q", ac.Type)
	}
}

func attachProcesses(plist *engine.PhysicsList, pc config.PhysicsConfig, world *geometry.World, db *geometry.MaterialDatabase, rng *engine.Rand) error {
	names := pc.Processes
	if len(names) == 0 {
		names = defaultProcesses
	}
	for _, name := range names {
		switch name {
		case "Transportation":
			plist.Attach(physics.NewTransportation(world))
		case "IonisationLoss":
			plist.Attach(physics.NewIonisationLoss(world, db, stepper.NewRK4()))
		case "MultipleScattering":
			plist.Attach(physics.NewMultipleScattering(world, db, rng))
		case "Decay":
			plist.Attach(physics.NewDecay(rng))
		case "Absorption":
			plist.Attach(physics.NewAbsorption(world, db, rng))
		case "StepLimiter":
			// attached below through max_step
		default:
			return fmt.Errorf("assembly: unknown process %q", name)
		}
	}
	if pc.MaxStep > 0 {
		plist.Attach(physics.NewStepLimiter(pc.MaxStep))
	}
	return nil
}

func vec3(v [3]float64) engine.Vec3 {
	return engine.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
