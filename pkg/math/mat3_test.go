package math

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
)

func TestMat3RotateUnrotate(t *testing.T) {
	basis := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/3)).ToBasis()
	v := Vec3{3, -2, 7}

	back := basis.Unrotate(basis.Rotate(v))
	if !back.ApproxEqual(v, 1e-4) {
		t.Errorf("Unrotate(Rotate(v)) = %v, want %v", back, v)
	}
}

func TestMat3UnrotateAxes(t *testing.T) {
	// Basis rotated 90 degrees around Y: local X points along world -Z.
	basis := Mat3{
		R: Vec3{0, 0, -1},
		U: Vec3{0, 1, 0},
		F: Vec3{1, 0, 0},
	}

	got := basis.Unrotate(Vec3{1, 0, 0})
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("Unrotate(X) = %v, want (0,0,-1)", got)
	}
	got = basis.Rotate(Vec3{1, 0, 0})
	if !got.ApproxEqual(Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("Rotate(X) = %v, want (0,0,1)", got)
	}
}

func TestMat3Compose(t *testing.T) {
	yaw := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2)).ToBasis()
	pitch := QuatFromAxisAngle(Vec3{1, 0, 0}, float32(math.Pi/4)).ToBasis()

	composed := yaw.Compose(pitch)
	v := Vec3{0.5, 1, -2}

	want := yaw.Unrotate(pitch.Unrotate(v))
	got := composed.Unrotate(v)
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Compose().Unrotate(v) = %v, want %v", got, want)
	}
}

func TestBasisFromForward(t *testing.T) {
	tests := []struct {
		name string
		fwd  Vec3
		up   *Vec3
	}{
		{"down z", Vec3{0, 0, 1}, nil},
		{"diagonal", Vec3{1, -1, 1}, &Vec3{0, 1, 0}},
		{"parallel hint", Vec3{0, 1, 0}, &Vec3{0, 1, 0}},
		{"zero hint", Vec3{1, 0, 0}, &Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BasisFromForward(tt.fwd, tt.up)

			if !b.F.ApproxEqual(tt.fwd.Normalize(), 1e-5) {
				t.Errorf("F = %v, want %v", b.F, tt.fwd.Normalize())
			}
			for _, row := range []Vec3{b.R, b.U, b.F} {
				if l := row.Length(); l < 0.999 || l > 1.001 {
					t.Errorf("row %v has length %v, want 1", row, l)
				}
			}
			if d := b.R.Dot(b.U); math32.Abs(d) > 1e-5 {
				t.Errorf("R.U = %v, want 0", d)
			}
			if d := b.R.Dot(b.F); math32.Abs(d) > 1e-5 {
				t.Errorf("R.F = %v, want 0", d)
			}
		})
	}
}
