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
	if !q.ToBasis().ApproxEqual(Mat3Identity(), 1e-6) {
		t.Error("identity quaternion should produce identity basis")
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToBasisRotatesAxis(t *testing.T) {
	// 90 degrees around Y turns +X into -Z.
	b := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2)).ToBasis()
	if !b.R.ApproxEqual(Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("rotated X axis = %v, want (0,0,-1)", b.R)
	}
}

func TestQuatMul(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{0, 0, 1}, 0.3)
	b := QuatFromAxisAngle(Vec3{0, 0, 1}, 0.5)
	want := QuatFromAxisAngle(Vec3{0, 0, 1}, 0.8)

	got := a.Mul(b)
	if math.Abs(float64(got.Z-want.Z)) > 1e-5 || math.Abs(float64(got.W-want.W)) > 1e-5 {
		t.Errorf("Mul() = %+v, want %+v", got, want)
	}
}
