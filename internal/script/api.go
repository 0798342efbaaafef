package script

import (
	"context"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nkrah/opengate-nils/internal/bind"
	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
	"github.com/nkrah/opengate-nils/internal/physics"
	"github.com/nkrah/opengate-nils/internal/sources"
	"github.com/nkrah/opengate-nils/internal/stepper"
)

// Simulation is the scripting facade: one world, one physics list, one
// run manager, and the type registry that projects them into Lua.
type Simulation struct {
	world  *geometry.World
	db     *geometry.MaterialDatabase
	plist  *engine.PhysicsList
	rm     *engine.RunManager
	reg    *bind.Registry
	logger *log.Logger
	result *engine.Result
}

// NewSimulation assembles a simulation with the default physics list
// and a fully populated type registry. Registration order follows the
// base-before-derived requirement; any failure here is fatal to
// assembly and returned as-is.
func NewSimulation(worldHalfSize float64) (*Simulation, error) {
	db := geometry.NewMaterialDatabase()
	world := geometry.NewWorld(worldHalfSize, "Air")
	plist := engine.NewPhysicsList()
	rm := engine.NewRunManager(world, plist, engine.DefaultConfig())

	rng := rm.Rng()
	plist.Attach(physics.NewTransportation(world))
	plist.Attach(physics.NewIonisationLoss(world, db, stepper.NewRK4()))
	plist.Attach(physics.NewMultipleScattering(world, db, rng))
	plist.Attach(physics.NewDecay(rng))
	plist.Attach(physics.NewAbsorption(world, db, rng))
	plist.Attach(physics.NewStepLimiter(0))

	reg := bind.NewRegistry()
	for _, register := range []func(*bind.Registry) error{
		bind.RegisterProcessBase,
		bind.RegisterProcessTypes,
		bind.RegisterActorBase,
		bind.RegisterActorTypes,
		bind.RegisterSourceBase,
		bind.RegisterSourceTypes,
		bind.RegisterVolumeBase,
		bind.RegisterVolumeTypes,
	} {
		if err := register(reg); err != nil {
			return nil, err
		}
	}

	return &Simulation{
		world:  world,
		db:     db,
		plist:  plist,
		rm:     rm,
		reg:    reg,
		logger: log.Default(),
	}, nil
}

func (s *Simulation) Registry() *bind.Registry { return s.reg }

func (s *Simulation) World() *geometry.World { return s.world }

func (s *Simulation) RunManager() *engine.RunManager { return s.rm }

// Result returns the last run's result, nil before any run.
func (s *Simulation) Result() *engine.Result { return s.result }

// SetLogger replaces the default logger on the facade and the engine.
func (s *Simulation) SetLogger(l *log.Logger) {
	s.logger = l
	s.rm.SetLogger(l)
}

// Install materializes the registry in the Lua state and adds the
// module-level gate functions and unit constants.
func (s *Simulation) Install(st *State) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return ErrStateClosed
	}
	L := st.L

	mod, err := s.reg.Install(L)
	if err != nil {
		return err
	}

	funcs := map[string]lua.LGFunction{
		"set_seed":      s.luaSetSeed,
		"set_cut":       s.luaSetCut,
		"add_volume":    s.luaAddVolume,
		"add_source":    s.luaAddSource,
		"attach":        s.luaAttach,
		"process":       s.luaProcess,
		"run":           s.luaRun,
		"dump_geometry": s.luaDumpGeometry,
		"materials":     s.luaMaterials,
		"particles":     s.luaParticles,
		"log":           s.luaLog,
	}
	for name, fn := range funcs {
		mod.RawSetString(name, L.NewFunction(fn))
	}

	// unit constants, so scripts write 150 * gate.MeV
	for name, value := range map[string]float64{
		"mm": engine.MM, "cm": engine.CM, "m": engine.M,
		"keV": engine.KeV, "MeV": engine.MeV, "GeV": engine.GeV,
		"ns": engine.NS,
	} {
		mod.RawSetString(name, lua.LNumber(value))
	}

	L.SetGlobal("gate", mod)
	return nil
}

func (s *Simulation) luaSetSeed(L *lua.LState) int {
	seed := int64(L.CheckNumber(1))
	s.rm.Rng().Reseed(seed)
	s.rm.Config().Seed = seed
	return 0
}

func (s *Simulation) luaSetCut(L *lua.LState) int {
	cut := float64(L.CheckNumber(1))
	if cut < 0 {
		L.RaiseError("energy cut must be non-negative, got %f", cut)
		return 0
	}
	s.rm.Config().EnergyCut = cut
	return 0
}

func (s *Simulation) luaAddVolume(L *lua.LState) int {
	shapeType := L.CheckString(1)
	name := L.CheckString(2)
	opts := optsTable(L, 3)

	var shape geometry.Shape
	var entryName string
	switch shapeType {
	case "Box":
		size := optVec3(opts, "size", engine.Vec3{X: 10, Y: 10, Z: 10})
		shape = geometry.Box{HalfX: size.X / 2, HalfY: size.Y / 2, HalfZ: size.Z / 2}
		entryName = "BoxVolume"
	case "Sphere":
		shape = geometry.Sphere{Rmax: optNumber(opts, "rmax", 10)}
		entryName = "SphereVolume"
	case "Tubs":
		shape = geometry.Tubs{
			Rmax:  optNumber(opts, "rmax", 10),
			HalfZ: optNumber(opts, "half_z", 10),
		}
		entryName = "TubsVolume"
	default:
		L.RaiseError("unknown volume type %q", shapeType)
		return 0
	}

	material := optString(opts, "material", "Water")
	if _, err := s.db.Find(material); err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	v := &geometry.Volume{
		Name:        name,
		Shape:       shape,
		Translation: optVec3(opts, "translation", engine.Vec3{}),
		Material:    material,
	}
	if err := s.world.Add(v, optString(opts, "mother", geometry.WorldName)); err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	ud, err := s.reg.Wrap(L, entryName, v)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(ud)
	return 1
}

func (s *Simulation) luaAddSource(L *lua.LState) int {
	typeName := L.CheckString(1)
	name := L.CheckString(2)
	opts := optsTable(L, 3)

	spec := sources.Spec{
		Particle:  optString(opts, "particle", "proton"),
		N:         int(optNumber(opts, "n", 1)),
		Energy:    optNumber(opts, "energy", 1*engine.MeV),
		Sigma:     optNumber(opts, "sigma", 0),
		Diameter:  optNumber(opts, "diameter", 0),
		Position:  optVec3(opts, "position", engine.Vec3{}),
		Direction: optVec3(opts, "direction", engine.Vec3{Z: 1}),
	}
	src, err := sources.New(typeName, name, spec)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	s.rm.AddSource(src)

	ud, err := s.reg.Wrap(L, "GenericSource", src)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(ud)
	return 1
}

func (s *Simulation) luaAttach(L *lua.LState) int {
	value, err := s.reg.Unwrap(L.Get(1), bind.ActorBaseName)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	actor, err := bind.AsActor(value)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	s.rm.AddActor(actor)
	return 0
}

// luaProcess wraps a physics-list process into a non-owning handle.
// This is the native-to-script flow the process bindings exist for.
func (s *Simulation) luaProcess(L *lua.LState) int {
	name := L.CheckString(1)
	p := s.plist.Find(name)
	if p == nil {
		L.RaiseError("no process %q in the physics list", name)
		return 0
	}
	ud, err := s.reg.Wrap(L, p.Name(), p)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(ud)
	return 1
}

func (s *Simulation) luaRun(L *lua.LState) int {
	result, err := s.rm.Run(context.Background())
	s.result = result
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	tbl := L.NewTable()
	tbl.RawSetString("events", lua.LNumber(result.EventCount))
	tbl.RawSetString("tracks", lua.LNumber(result.TrackCount))
	tbl.RawSetString("steps", lua.LNumber(result.StepCount))
	tbl.RawSetString("edep", lua.LNumber(result.EdepTotal))
	tbl.RawSetString("seed", lua.LNumber(result.Seed))
	L.Push(tbl)
	return 1
}

func (s *Simulation) luaDumpGeometry(L *lua.LState) int {
	L.Push(lua.LString(s.world.Dump()))
	return 1
}

func (s *Simulation) luaMaterials(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range s.db.Names() {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

func (s *Simulation) luaParticles(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range engine.ParticleNames() {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

func (s *Simulation) luaLog(L *lua.LState) int {
	s.logger.Info(L.CheckString(1))
	return 0
}

// option helpers over the untyped tables FromLua produces

func optsTable(L *lua.LState, idx int) map[string]any {
	if L.GetTop() < idx {
		return map[string]any{}
	}
	m, ok := bind.FromLua(L.Get(idx)).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func optNumber(opts map[string]any, key string, def float64) float64 {
	if v, ok := opts[key].(float64); ok {
		return v
	}
	return def
}

func optString(opts map[string]any, key, def string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return def
}

func optVec3(opts map[string]any, key string, def engine.Vec3) engine.Vec3 {
	arr, ok := opts[key].([]any)
	if !ok || len(arr) != 3 {
		return def
	}
	out := def
	coords := [3]*float64{&out.X, &out.Y, &out.Z}
	for i, c := range coords {
		f, ok := arr[i].(float64)
		if !ok {
			return def
		}
		*c = f
	}
	return out
}
