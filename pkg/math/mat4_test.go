package math

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func nearVec(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

// sameRotation treats q and -q as equal.
func sameRotation(a, b Quat) bool {
	return math.Abs(math.Abs(a.Dot(b))-1) < 1e-9
}

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M: got %v, want %v", result, m)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(V3(5, 10, 15))

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if got := m.Translation(); got != V3(5, 10, 15) {
		t.Errorf("Translation: got %v", got)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(V3(10, 20, 30)).Mul(Scale(V3(2, 2, 2)))
	result := m.TransformPoint(V3(1, 2, 3))

	if expected := V3(12, 24, 36); result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestFromQuatZ90(t *testing.T) {
	q := QuatFromAxisAngle(V3(0, 0, 1), math.Pi/2)
	result := FromQuat(q).TransformPoint(V3(1, 0, 0))

	// 90 degrees about Z takes +X to +Y
	if !nearVec(result, V3(0, 1, 0)) {
		t.Errorf("FromQuat Z90: got %v, want (0, 1, 0)", result)
	}
}

func TestRotationRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
	}{
		{"identity", QuatIdentity()},
		{"x 90", QuatFromAxisAngle(V3(1, 0, 0), math.Pi/2)},
		{"y 180", QuatFromAxisAngle(V3(0, 1, 0), math.Pi)},
		{"z 180", QuatFromAxisAngle(V3(0, 0, 1), math.Pi)},
		{"euler", QuatFromEuler(0.3, -1.2, 2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromTRS(V3(1, 2, 3), tt.q, V3(2, 0.5, 3))
			if got := m.Rotation(); !sameRotation(got, tt.q) {
				t.Errorf("Rotation: got %v, want %v", got, tt.q)
			}
			if got := m.ScaleFactors(); !nearVec(got, V3(2, 0.5, 3)) {
				t.Errorf("ScaleFactors: got %v", got)
			}
			if got := m.Translation(); got != V3(1, 2, 3) {
				t.Errorf("Translation: got %v", got)
			}
		})
	}
}

func TestRotationDegenerate(t *testing.T) {
	m := Scale(V3(1, 0, 1))
	if got := m.Rotation(); got != QuatIdentity() {
		t.Errorf("degenerate Rotation: got %v, want identity", got)
	}
}

func TestInverse(t *testing.T) {
	m := FromTRS(V3(4, -2, 7), QuatFromEuler(0.1, 0.2, 0.3), V3(1, 2, 1))
	result := m.Mul(m.Inverse())

	id := Identity()
	for i := range result {
		if math.Abs(result[i]-id[i]) > 1e-9 {
			t.Fatalf("M * M^-1 element %d: got %f, want %f", i, result[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if zero.Inverse() != Identity() {
		t.Error("singular matrix should invert to identity")
	}
}

func TestMat4IsFinite(t *testing.T) {
	m := Identity()
	if !m.IsFinite() {
		t.Error("identity should be finite")
	}
	m[7] = math.NaN()
	if m.IsFinite() {
		t.Error("NaN element should not be finite")
	}
}
