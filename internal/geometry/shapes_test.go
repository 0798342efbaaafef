package geometry

import (
	"math"
	"testing"

	"github.com/nkrah/opengate-nils/internal/engine"
)

func TestBox_Contains(t *testing.T) {
	b := Box{HalfX: 10, HalfY: 20, HalfZ: 30}

	tests := []struct {
		p    engine.Vec3
		want bool
	}{
		{engine.Vec3{X: 0, Y: 0, Z: 0}, true},
		{engine.Vec3{X: 10, Y: 20, Z: 30}, true},
		{engine.Vec3{X: 10.1, Y: 0, Z: 0}, false},
		{engine.Vec3{X: 0, Y: -20.1, Z: 0}, false},
		{engine.Vec3{X: 0, Y: 0, Z: 31}, false},
	}

	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestBox_Intersect(t *testing.T) {
	b := Box{HalfX: 5, HalfY: 5, HalfZ: 5}

	// ray entering along +z from outside
	tin, tout, ok := b.Intersect(engine.Vec3{X: 0, Y: 0, Z: -10}, engine.Vec3{X: 0, Y: 0, Z: 1})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(tin-5) > 1e-12 || math.Abs(tout-15) > 1e-12 {
		t.Errorf("expected [5, 15], got [%f, %f]", tin, tout)
	}

	// ray starting inside
	tin, tout, ok = b.Intersect(engine.Vec3{X: 0, Y: 0, Z: 0}, engine.Vec3{X: 0, Y: 0, Z: 1})
	if !ok {
		t.Fatal("expected hit from inside")
	}
	if tin > 0 || math.Abs(tout-5) > 1e-12 {
		t.Errorf("expected exit at 5, got [%f, %f]", tin, tout)
	}

	// parallel miss
	if _, _, ok := b.Intersect(engine.Vec3{X: 6, Y: 0, Z: -10}, engine.Vec3{X: 0, Y: 0, Z: 1}); ok {
		t.Error("expected miss")
	}

	// box entirely behind the ray
	if _, _, ok := b.Intersect(engine.Vec3{X: 0, Y: 0, Z: 10}, engine.Vec3{X: 0, Y: 0, Z: 1}); ok {
		t.Error("expected miss behind the ray")
	}
}

func TestSphere_Intersect(t *testing.T) {
	s := Sphere{Rmax: 5}

	tin, tout, ok := s.Intersect(engine.Vec3{X: 0, Y: 0, Z: -10}, engine.Vec3{X: 0, Y: 0, Z: 1})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(tin-5) > 1e-12 || math.Abs(tout-15) > 1e-12 {
		t.Errorf("expected [5, 15], got [%f, %f]", tin, tout)
	}

	if _, _, ok := s.Intersect(engine.Vec3{X: 0, Y: 6, Z: -10}, engine.Vec3{X: 0, Y: 0, Z: 1}); ok {
		t.Error("expected miss")
	}

	if !s.Contains(engine.Vec3{X: 3, Y: 4, Z: 0}) {
		t.Error("surface point should be contained")
	}
	if s.Contains(engine.Vec3{X: 3, Y: 4, Z: 1}) {
		t.Error("outside point should not be contained")
	}
}

func TestTubs_Intersect(t *testing.T) {
	tubs := Tubs{Rmax: 5, HalfZ: 10}

	// axial ray
	tin, tout, ok := tubs.Intersect(engine.Vec3{X: 0, Y: 0, Z: -20}, engine.Vec3{X: 0, Y: 0, Z: 1})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(tin-10) > 1e-12 || math.Abs(tout-30) > 1e-12 {
		t.Errorf("expected [10, 30], got [%f, %f]", tin, tout)
	}

	// radial ray through the barrel
	tin, tout, ok = tubs.Intersect(engine.Vec3{X: -10, Y: 0, Z: 0}, engine.Vec3{X: 1, Y: 0, Z: 0})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(tin-5) > 1e-12 || math.Abs(tout-15) > 1e-12 {
		t.Errorf("expected [5, 15], got [%f, %f]", tin, tout)
	}

	// axial ray outside the radius
	if _, _, ok := tubs.Intersect(engine.Vec3{X: 6, Y: 0, Z: -20}, engine.Vec3{X: 0, Y: 0, Z: 1}); ok {
		t.Error("expected miss")
	}

	if !tubs.Contains(engine.Vec3{X: 0, Y: 5, Z: 10}) {
		t.Error("edge point should be contained")
	}
	if tubs.Contains(engine.Vec3{X: 0, Y: 0, Z: 11}) {
		t.Error("beyond the cap should not be contained")
	}
}
