package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
	if !q.IsUnit(1e-9) {
		t.Error("identity should be unit length")
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()
	if math.Abs(n.Length()-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", n.Length())
	}

	// Degenerate input falls back to identity
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion should normalize to identity, got %v", got)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, math.Pi/2)

	expectedW := math.Cos(math.Pi / 4)
	expectedY := math.Sin(math.Pi / 4)

	if math.Abs(q.W-expectedW) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(q.Y-expectedY) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromEuler(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
		want    Quat
	}{
		{"zero", 0, 0, 0, QuatIdentity()},
		{"x only", math.Pi / 2, 0, 0, QuatFromAxisAngle(Vec3{X: 1}, math.Pi/2)},
		{"z only", 0, 0, math.Pi, QuatFromAxisAngle(Vec3{Z: 1}, math.Pi)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromEuler(tt.x, tt.y, tt.z)
			if math.Abs(got.Dot(tt.want)) < 0.9999 {
				t.Errorf("QuatFromEuler(%v,%v,%v) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
			}
			if !got.IsUnit(1e-9) {
				t.Errorf("QuatFromEuler should be unit length, got %v", got.Length())
			}
		})
	}
}

func TestQuatMul(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/4)
	got := a.Mul(a)
	want := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2)
	if math.Abs(got.W-want.W) > 0.0001 || math.Abs(got.Y-want.Y) > 0.0001 {
		t.Errorf("Mul: expected %v, got %v", want, got)
	}
}
