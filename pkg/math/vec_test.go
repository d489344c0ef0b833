package math

import (
	"math"
	"testing"
)

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	if got := v.Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
	if got := v.LengthSquared(); got != 49 {
		t.Errorf("Vec3.LengthSquared() = %v, want 49", got)
	}
}

func TestVec3Scale(t *testing.T) {
	deg := V3(90, -180, 0)
	rad := deg.Scale(math.Pi / 180)
	want := V3(math.Pi/2, -math.Pi, 0)
	if math.Abs(rad.X-want.X) > 1e-12 || math.Abs(rad.Y-want.Y) > 1e-12 || rad.Z != 0 {
		t.Errorf("Vec3.Scale() = %v, want %v", rad, want)
	}
}
