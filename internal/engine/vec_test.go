package engine

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot: expected 32, got %f", got)
	}
}

func TestVec3_Norm(t *testing.T) {
	v := Vec3{3, 4, 0}
	if got := v.Norm(); got != 5 {
		t.Errorf("expected norm 5, got %f", got)
	}

	u := v.Unit()
	if math.Abs(u.Norm()-1) > 1e-12 {
		t.Errorf("unit vector norm %f", u.Norm())
	}

	// near-zero vectors come back unchanged
	z := Vec3{0, 0, 0}
	if got := z.Unit(); got != z {
		t.Errorf("zero unit: got %v", got)
	}
}

func TestVec3_IsValid(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsValid() {
		t.Error("finite vector should be valid")
	}
	if (Vec3{math.NaN(), 0, 0}).IsValid() {
		t.Error("NaN component should be invalid")
	}
	if (Vec3{0, math.Inf(1), 0}).IsValid() {
		t.Error("Inf component should be invalid")
	}
}
