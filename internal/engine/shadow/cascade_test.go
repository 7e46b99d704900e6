package shadow

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/uniform"
	"github.com/Faultbox/drawqueue/pkg/math"
)

var (
	eyeOrient = math.Mat3Identity()
	eyePos    = math.Vec3{X: 100, Y: 20, Z: -50}
	lightDir  = math.Vec3{X: 0.3, Y: -1, Z: 0.2}
	fov       = math32.Pi / 3
	aspect    = float32(16.0 / 9.0)
)

func TestCascadeContainment(t *testing.T) {
	orients := []math.Mat3{
		math.Mat3Identity(),
		math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.7).ToBasis(),
		math.QuatFromAxisAngle(math.Vec3{X: 1, Z: 1}.Normalize(), -1.2).ToBasis(),
	}

	for oi, eye := range orients {
		set := BuildCascades(lightDir, eye, eyePos, fov, aspect, DefaultSplits)
		if len(set.Cascades) != 4 {
			t.Fatalf("orient %d: %d cascades, want 4", oi, len(set.Cascades))
		}
		for ci, c := range set.Cascades {
			for k, p := range SlabCorners(eye, fov, aspect, c.Near, c.Far) {
				lp := set.Light.Rotate(p)
				if !c.Contains(lp, 0) {
					t.Errorf("orient %d cascade %d: corner %d %v outside [%v, %v]", oi, ci, k, lp, c.Min, c.Max)
				}
			}
		}
	}
}

func TestCascadeSplits(t *testing.T) {
	set := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, DefaultSplits)
	for i, c := range set.Cascades {
		if c.Near != DefaultSplits[i] || c.Far != DefaultSplits[i+1] {
			t.Errorf("cascade %d spans [%g, %g], want [%g, %g]", i, c.Near, c.Far, DefaultSplits[i], DefaultSplits[i+1])
		}
	}
	// Farther slabs are wider.
	if set.Cascades[3].Radius() <= set.Cascades[0].Radius() {
		t.Error("far cascade should be larger than the very-near one")
	}
}

func TestCascadeDeterministic(t *testing.T) {
	a := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, DefaultSplits)
	b := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, DefaultSplits)
	for i := range a.Cascades {
		if a.Cascades[i] != b.Cascades[i] {
			t.Errorf("cascade %d differs between identical builds", i)
		}
	}
	if a.Light != b.Light {
		t.Error("light orientation differs between identical builds")
	}
}

func TestCascadeProjMapsBox(t *testing.T) {
	set := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, DefaultSplits)
	c := set.Cascades[1]

	lo := transformPoint(c.Proj, c.Min)
	hi := transformPoint(c.Proj, c.Max)
	// x and y map min to -1 and max to +1; z is negated.
	want := []struct{ got, want float32 }{
		{lo.X, -1}, {lo.Y, -1}, {lo.Z, 1},
		{hi.X, 1}, {hi.Y, 1}, {hi.Z, -1},
	}
	for i, w := range want {
		if math32.Abs(w.got-w.want) > 1e-3 {
			t.Errorf("component %d = %g, want %g", i, w.got, w.want)
		}
	}
}

func TestLightOrientationForward(t *testing.T) {
	m := LightOrientation(lightDir, math.Vec3{Y: 1})
	if !m.F.ApproxEqual(lightDir.Normalize(), 1e-5) {
		t.Errorf("forward = %v, want %v", m.F, lightDir.Normalize())
	}
	if d := m.R.Dot(m.U); math32.Abs(d) > 1e-5 {
		t.Errorf("basis not orthogonal: R.U = %g", d)
	}
}

func TestObjectVisible(t *testing.T) {
	light := math.Mat3Identity()
	c := Cascade{Min: math.Vec3{X: -10, Y: -10, Z: 0}, Max: math.Vec3{X: 10, Y: 10, Z: 100}}

	tests := []struct {
		name   string
		pos    math.Vec3
		radius float32
		want   bool
	}{
		{"inside", math.Vec3{Z: 50}, 1, true},
		{"right of box", math.Vec3{X: 20, Z: 50}, 5, false},
		{"left of box", math.Vec3{X: -20, Z: 50}, 5, false},
		{"above box", math.Vec3{Y: 20, Z: 50}, 5, false},
		{"below box", math.Vec3{Y: -20, Z: 50}, 5, false},
		{"beyond far side", math.Vec3{Z: 120}, 5, false},
		{"overlapping edge", math.Vec3{X: 13, Z: 50}, 5, true},
		{"between light and box", math.Vec3{Z: -500}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectVisible(tt.pos, tt.radius, light, c); got != tt.want {
				t.Errorf("ObjectVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetVisibleUsesEye(t *testing.T) {
	set := BuildCascades(math.Vec3{Z: 1}, eyeOrient, eyePos, fov, aspect, []float32{1, 100})

	// A point in front of the eye is inside; the same offset from the
	// world origin is not when the eye is far away.
	inFront := eyePos.Add(math.Vec3{Z: 50})
	if !set.Visible(inFront, 1) {
		t.Error("object in front of the eye should be visible")
	}
	if set.Visible(math.Vec3{X: 10000, Z: 50}, 1) {
		t.Error("object far to the side should be culled")
	}
}

func TestTooFewSplits(t *testing.T) {
	set := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, []float32{10})
	if len(set.Cascades) != 0 {
		t.Errorf("got %d cascades from one split, want 0", len(set.Cascades))
	}
	if set.Visible(eyePos, 1) {
		t.Error("empty set should cull everything")
	}
}

func TestViewMatrixMatchesRotate(t *testing.T) {
	set := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, DefaultSplits)
	w := math.Vec3{X: 130, Y: -4, Z: 12}
	want := set.Light.Rotate(w.Sub(eyePos))
	got := transformPoint(set.ViewMatrix(), w)
	if !got.ApproxEqual(want, 1e-3) {
		t.Errorf("view matrix gives %v, rotate gives %v", got, want)
	}
}

type nopUploader struct{ n int }

func (u *nopUploader) UniformLocation(shader.Handle, string) int32 { return 0 }
func (u *nopUploader) Upload(int32, uniform.Value)                 { u.n++ }

func TestUniforms(t *testing.T) {
	set := BuildCascades(lightDir, eyeOrient, eyePos, fov, aspect, []float32{1, 50, 300})
	u := set.Uniforms()

	if len(u.Proj) != 2 {
		t.Fatalf("%d projections, want 2", len(u.Proj))
	}
	if u.Dists != [4]float32{50, 300, 300, 300} {
		t.Errorf("Dists = %v", u.Dists)
	}

	up := &nopUploader{}
	c := uniform.New(up, 1e-4)
	c.Bind(1)
	u.Apply(c)
	if got := c.Flush(); got != 6 {
		t.Errorf("first apply uploaded %d uniforms, want 6", got)
	}
	u.Apply(c)
	if got := c.Flush(); got != 0 {
		t.Errorf("repeat apply uploaded %d uniforms, want 0", got)
	}
}

// transformPoint applies m to p with w = 1, dividing by the resulting w.
func transformPoint(m math.Mat4, p math.Vec3) math.Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return math.Vec3{X: x / w, Y: y / w, Z: z / w}
	}
	return math.Vec3{X: x, Y: y, Z: z}
}
