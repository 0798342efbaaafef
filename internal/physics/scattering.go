package physics

import (
	"math"

	"github.com/nkrah/opengate-nils/internal/engine"
	"github.com/nkrah/opengate-nils/internal/geometry"
)

// MultipleScattering smears the direction of charged particles after
// every step using the Highland approximation of the scattering angle.
type MultipleScattering struct {
	world *geometry.World
	db    *geometry.MaterialDatabase
	rng   *engine.Rand
}

func NewMultipleScattering(world *geometry.World, db *geometry.MaterialDatabase, rng *engine.Rand) *MultipleScattering {
	return &MultipleScattering{world: world, db: db, rng: rng}
}

func (ms *MultipleScattering) Name() string { return "MultipleScattering" }

func (ms *MultipleScattering) StepLimit(tr *engine.Track) float64 {
	return engine.Unlimited
}

func (ms *MultipleScattering) Execute(tr *engine.Track, s *engine.Step) {}

func (ms *MultipleScattering) AlongStep(tr *engine.Track, s *engine.Step) {
	if tr.Particle.Charge == 0 || tr.Energy <= 0 || s.Length <= 0 {
		return
	}
	mat := ms.material(s.PreVolume)
	if mat.RadLen <= 0 {
		return
	}
	x := s.Length / mat.RadLen
	if x <= 0 {
		return
	}

	// Highland: theta0 = 13.6 MeV / (beta c p) * z * sqrt(x) * (1 + 0.038 ln x)
	gamma := 1 + tr.Energy/tr.Particle.Mass
	beta := math.Sqrt(1 - 1/(gamma*gamma))
	p := math.Sqrt(tr.Energy * (tr.Energy + 2*tr.Particle.Mass))
	if beta*p < 1e-9 {
		return
	}
	theta0 := 13.6 / (beta * p) * math.Abs(tr.Particle.Charge) * math.Sqrt(x) * (1 + 0.038*math.Log(x))

	tr.Direction = deflect(tr.Direction, ms.rng.Gauss(0, theta0), ms.rng.Float64()*2*math.Pi)
}

func (ms *MultipleScattering) material(volume string) geometry.Material {
	if v, err := ms.world.Find(volume); err == nil {
		if m, err := ms.db.Find(v.Material); err == nil {
			return m
		}
	}
	m, _ := ms.db.Find("Vacuum")
	return m
}

// deflect rotates dir by polar angle theta around a random azimuth phi.
func deflect(dir engine.Vec3, theta, phi float64) engine.Vec3 {
	// build an orthonormal frame around dir
	var ortho engine.Vec3
	if math.Abs(dir.Z) < 0.99 {
		ortho = engine.Vec3{X: -dir.Y, Y: dir.X, Z: 0}.Unit()
	} else {
		ortho = engine.Vec3{X: 1, Y: 0, Z: 0}
	}
	ortho2 := engine.Vec3{
		X: dir.Y*ortho.Z - dir.Z*ortho.Y,
		Y: dir.Z*ortho.X - dir.X*ortho.Z,
		Z: dir.X*ortho.Y - dir.Y*ortho.X,
	}

	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return dir.Scale(cosT).
		Add(ortho.Scale(sinT * cosP)).
		Add(ortho2.Scale(sinT * sinP)).
		Unit()
}
