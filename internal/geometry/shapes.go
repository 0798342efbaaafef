package geometry

import (
	"math"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// Shape is a solid in its local frame (centered on the origin).
type Shape interface {
	Contains(p engine.Vec3) bool

	// Intersect returns the entry and exit distances of the ray
	// p + t*dir with the shape surface. ok is false when the ray
	// misses entirely.
	Intersect(p, dir engine.Vec3) (tin, tout float64, ok bool)
}

// Box is an axis-aligned box with the given half-lengths.
type Box struct {
	HalfX, HalfY, HalfZ float64
}

func (b Box) Contains(p engine.Vec3) bool {
	return math.Abs(p.X) <= b.HalfX &&
		math.Abs(p.Y) <= b.HalfY &&
		math.Abs(p.Z) <= b.HalfZ
}

func (b Box) Intersect(p, dir engine.Vec3) (float64, float64, bool) {
	tin := math.Inf(-1)
	tout := math.Inf(1)
	for _, axis := range [3][3]float64{
		{p.X, dir.X, b.HalfX},
		{p.Y, dir.Y, b.HalfY},
		{p.Z, dir.Z, b.HalfZ},
	} {
		pos, d, half := axis[0], axis[1], axis[2]
		if d == 0 {
			if math.Abs(pos) > half {
				return 0, 0, false
			}
			continue
		}
		t1 := (-half - pos) / d
		t2 := (half - pos) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tin = math.Max(tin, t1)
		tout = math.Min(tout, t2)
	}
	if tin > tout || tout < 0 {
		return 0, 0, false
	}
	return tin, tout, true
}

// Sphere is a full solid sphere of radius Rmax.
type Sphere struct {
	Rmax float64
}

func (s Sphere) Contains(p engine.Vec3) bool {
	return p.Dot(p) <= s.Rmax*s.Rmax
}

func (s Sphere) Intersect(p, dir engine.Vec3) (float64, float64, bool) {
	// |p + t*dir|^2 = Rmax^2, dir is unit length
	b := p.Dot(dir)
	c := p.Dot(p) - s.Rmax*s.Rmax
	disc := b*b - c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	tin, tout := -b-sq, -b+sq
	if tout < 0 {
		return 0, 0, false
	}
	return tin, tout, true
}

// Tubs is a solid cylinder along z with radius Rmax and half-length HalfZ.
type Tubs struct {
	Rmax  float64
	HalfZ float64
}

func (t Tubs) Contains(p engine.Vec3) bool {
	return p.X*p.X+p.Y*p.Y <= t.Rmax*t.Rmax && math.Abs(p.Z) <= t.HalfZ
}

func (t Tubs) Intersect(p, dir engine.Vec3) (float64, float64, bool) {
	// radial interval
	a := dir.X*dir.X + dir.Y*dir.Y
	rin := math.Inf(-1)
	rout := math.Inf(1)
	if a == 0 {
		if p.X*p.X+p.Y*p.Y > t.Rmax*t.Rmax {
			return 0, 0, false
		}
	} else {
		b := (p.X*dir.X + p.Y*dir.Y) / a
		c := (p.X*p.X + p.Y*p.Y - t.Rmax*t.Rmax) / a
		disc := b*b - c
		if disc < 0 {
			return 0, 0, false
		}
		sq := math.Sqrt(disc)
		rin, rout = -b-sq, -b+sq
	}

	// z interval
	zin := math.Inf(-1)
	zout := math.Inf(1)
	if dir.Z == 0 {
		if math.Abs(p.Z) > t.HalfZ {
			return 0, 0, false
		}
	} else {
		z1 := (-t.HalfZ - p.Z) / dir.Z
		z2 := (t.HalfZ - p.Z) / dir.Z
		if z1 > z2 {
			z1, z2 = z2, z1
		}
		zin, zout = z1, z2
	}

	tin := math.Max(rin, zin)
	tout := math.Min(rout, zout)
	if tin > tout || tout < 0 {
		return 0, 0, false
	}
	return tin, tout, true
}
