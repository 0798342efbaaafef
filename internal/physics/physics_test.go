package physics

import (
	"math"
	"testing"

	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
)

func waterWorld(t *testing.T) (*geometry.World, *geometry.MaterialDatabase) {
	t.Helper()
	w := geometry.NewWorld(1000, "Water")
	return w, geometry.NewMaterialDatabase()
}

func protonTrack(energy float64) *engine.Track {
	p, _ := engine.ParticleByName("proton")
	return &engine.Track{
		Particle:  p,
		Energy:    energy,
		Direction: engine.Vec3{X: 0, Y: 0, Z: 1},
		Weight:    1,
		Alive:     true,
		Volume:    geometry.WorldName,
	}
}

func TestIonisation_StoppingPowerRises(t *testing.T) {
	w, db := waterWorld(t)
	il := NewIonisationLoss(w, db, nil)

	// the Bragg behavior: slower protons lose energy faster
	water, _ := db.Find("Water")
	high := il.dEdx(200*engine.MeV, protonTrack(0).Particle, water)
	low := il.dEdx(10*engine.MeV, protonTrack(0).Particle, water)
	if low <= high {
		t.Errorf("expected dE/dx to rise toward range end: %f at 10 MeV, %f at 200 MeV", low, high)
	}

	// 150 MeV protons in water lose roughly 0.5-0.6 MeV/mm
	mid := il.dEdx(150*engine.MeV, protonTrack(0).Particle, water)
	if mid < 0.3 || mid > 1.0 {
		t.Errorf("dE/dx at 150 MeV out of expected range: %f MeV/mm", mid)
	}
}

func TestIonisation_NeutralUnlimited(t *testing.T) {
	w, db := waterWorld(t)
	il := NewIonisationLoss(w, db, nil)

	g, _ := engine.ParticleByName("gamma")
	tr := &engine.Track{Particle: g, Energy: 1, Volume: geometry.WorldName}
	if got := il.StepLimit(tr); got != engine.Unlimited {
		t.Errorf("gamma should be unlimited, got %f", got)
	}
}

func TestIonisation_StepLimitBoundsLoss(t *testing.T) {
	w, db := waterWorld(t)
	il := NewIonisationLoss(w, db, nil)

	tr := protonTrack(150 * engine.MeV)
	limit := il.StepLimit(tr)
	if limit <= 0 || limit == engine.Unlimited {
		t.Fatalf("expected a finite limit, got %f", limit)
	}

	s := &engine.Step{Length: limit, PreVolume: geometry.WorldName}
	il.AlongStep(tr, s)

	lost := 150*engine.MeV - tr.Energy
	if lost <= 0 {
		t.Fatal("expected energy loss along the step")
	}
	// the limiter keeps the per-step loss near the configured fraction
	if lost > 0.1*150*engine.MeV {
		t.Errorf("per-step loss too large: %f MeV", lost)
	}
	if math.Abs(s.Edep-lost) > 1e-12 {
		t.Errorf("deposit %f does not match loss %f", s.Edep, lost)
	}
}

func TestIonisation_SetParam(t *testing.T) {
	w, db := waterWorld(t)
	il := NewIonisationLoss(w, db, nil)

	if err := il.SetParam("max_fraction", 0.01); err != nil {
		t.Fatalf("set: %v", err)
	}
	if il.Params()["max_fraction"] != 0.01 {
		t.Error("parameter not applied")
	}
	if err := il.SetParam("max_fraction", 1.5); err == nil {
		t.Error("expected range error")
	}
	if err := il.SetParam("nope", 1); err == nil {
		t.Error("expected unknown parameter error")
	}
}

func TestStepLimiter(t *testing.T) {
	sl := NewStepLimiter(2 * engine.MM)
	tr := protonTrack(100)

	if got := sl.StepLimit(tr); got != 2*engine.MM {
		t.Errorf("expected 2 mm, got %f", got)
	}

	if err := sl.SetParam("max_step", 0.5); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := sl.StepLimit(tr); got != 0.5 {
		t.Errorf("expected 0.5 mm after set_param, got %f", got)
	}

	// unset limiter does not constrain
	if got := NewStepLimiter(0).StepLimit(tr); got != engine.Unlimited {
		t.Errorf("expected Unlimited, got %f", got)
	}
}

func TestTransportation_LimitsAtBoundary(t *testing.T) {
	w, _ := waterWorld(t)
	box := &geometry.Volume{
		Name:        "target",
		Shape:       geometry.Box{HalfX: 50, HalfY: 50, HalfZ: 50},
		Translation: engine.Vec3{X: 0, Y: 0, Z: 100},
		Material:    "Water",
	}
	if err := w.Add(box, geometry.WorldName); err != nil {
		t.Fatalf("add: %v", err)
	}

	tp := NewTransportation(w)
	tr := protonTrack(100)

	// 50 mm from the origin to the target entry face
	limit := tp.StepLimit(tr)
	if math.Abs(limit-50) > 1e-3 {
		t.Errorf("expected ~50 mm to boundary, got %f", limit)
	}
	// the push carries the post-step point across the surface
	if limit <= 50 {
		t.Errorf("limit should land past the boundary, got %f", limit)
	}
}

func TestDecay_StableUnlimited(t *testing.T) {
	d := NewDecay(engine.NewRand(1))
	if got := d.StepLimit(protonTrack(100)); got != engine.Unlimited {
		t.Errorf("stable particle should not decay, got %f", got)
	}
}

func TestDecay_MuonSpawnsElectron(t *testing.T) {
	d := NewDecay(engine.NewRand(1))

	muon, _ := engine.ParticleByName("muon")
	tr := &engine.Track{Particle: muon, Energy: 300 * engine.MeV, Alive: true, Weight: 1}

	limit := d.StepLimit(tr)
	if limit <= 0 || limit == engine.Unlimited {
		t.Fatalf("expected a finite decay length, got %f", limit)
	}

	s := &engine.Step{}
	d.Execute(tr, s)

	if tr.Alive {
		t.Error("decayed muon should be dead")
	}
	if len(s.Secondaries) != 1 {
		t.Fatalf("expected 1 secondary, got %d", len(s.Secondaries))
	}
	sec := s.Secondaries[0]
	if sec.Particle.Name != "electron" {
		t.Errorf("expected electron, got %s", sec.Particle.Name)
	}
	if math.Abs(sec.Energy+s.Edep-300*engine.MeV) > 1e-9 {
		t.Errorf("energy not conserved: secondary %f + edep %f", sec.Energy, s.Edep)
	}
}

func TestDecay_LengthDistribution(t *testing.T) {
	d := NewDecay(engine.NewRand(2))
	muon, _ := engine.ParticleByName("muon")
	tr := &engine.Track{Particle: muon, Energy: 300 * engine.MeV}

	gamma := 1 + tr.Energy/muon.Mass
	beta := math.Sqrt(1 - 1/(gamma*gamma))
	mean := gamma * beta * 299.792458 * muon.MeanLife

	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		sum += d.StepLimit(tr)
	}
	got := sum / n
	if math.Abs(got-mean)/mean > 0.05 {
		t.Errorf("mean decay length %e deviates from %e", got, mean)
	}
}

func TestAbsorption_ChargedUnlimited(t *testing.T) {
	w, db := waterWorld(t)
	a := NewAbsorption(w, db, engine.NewRand(1))

	if got := a.StepLimit(protonTrack(100)); got != engine.Unlimited {
		t.Errorf("charged particle should pass through, got %f", got)
	}
}

func TestAbsorption_GammaMeanFreePath(t *testing.T) {
	w, db := waterWorld(t)
	a := NewAbsorption(w, db, engine.NewRand(3))

	g, _ := engine.ParticleByName("gamma")
	tr := &engine.Track{Particle: g, Energy: 1 * engine.MeV, Volume: geometry.WorldName}

	// mu/rho = 0.07 cm^2/g in water gives a 1/0.07 cm mean free path
	want := 10.0 / 0.07
	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		sum += a.StepLimit(tr)
	}
	got := sum / n
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("mean free path %f deviates from %f mm", got, want)
	}

	s := &engine.Step{}
	a.Execute(tr, s)
	if tr.Alive || s.Edep != 1*engine.MeV {
		t.Errorf("absorption should kill and deposit: alive=%v edep=%f", tr.Alive, s.Edep)
	}
}

func TestScattering_DeflectsCharged(t *testing.T) {
	w, db := waterWorld(t)
	ms := NewMultipleScattering(w, db, engine.NewRand(4))

	tr := protonTrack(150 * engine.MeV)
	before := tr.Direction
	s := &engine.Step{Length: 10 * engine.MM, PreVolume: geometry.WorldName}
	ms.AlongStep(tr, s)

	if tr.Direction == before {
		t.Error("expected a deflection")
	}
	if math.Abs(tr.Direction.Norm()-1) > 1e-9 {
		t.Errorf("direction must stay unit length, got %f", tr.Direction.Norm())
	}
	// at 150 MeV over 1 cm of water the deflection is small
	if tr.Direction.Dot(before) < 0.99 {
		t.Errorf("deflection implausibly large: cos = %f", tr.Direction.Dot(before))
	}
}

func TestScattering_NeutralUntouched(t *testing.T) {
	w, db := waterWorld(t)
	ms := NewMultipleScattering(w, db, engine.NewRand(5))

	g, _ := engine.ParticleByName("gamma")
	tr := &engine.Track{Particle: g, Energy: 1, Direction: engine.Vec3{X: 0, Y: 0, Z: 1}, Volume: geometry.WorldName}
	s := &engine.Step{Length: 10, PreVolume: geometry.WorldName}
	ms.AlongStep(tr, s)

	if tr.Direction != (engine.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Error("neutral particle should not scatter")
	}
}
