package math

import "github.com/chewxy/math32"

// Mat3 is an orientation basis stored as three row vectors:
// R (right), U (up) and F (forward), each expressed in the parent space.
//
// Rotate maps a parent-space vector into the basis' local space;
// Unrotate maps a local vector back out to the parent space.
type Mat3 struct {
	R, U, F Vec3
}

// Mat3Identity returns the identity basis.
func Mat3Identity() Mat3 {
	return Mat3{
		R: Vec3{1, 0, 0},
		U: Vec3{0, 1, 0},
		F: Vec3{0, 0, 1},
	}
}

// Rotate returns v expressed in the basis' local space.
func (m Mat3) Rotate(v Vec3) Vec3 {
	return Vec3{m.R.Dot(v), m.U.Dot(v), m.F.Dot(v)}
}

// Unrotate returns the local vector v expressed in the parent space.
func (m Mat3) Unrotate(v Vec3) Vec3 {
	return Vec3{
		m.R.X*v.X + m.U.X*v.Y + m.F.X*v.Z,
		m.R.Y*v.X + m.U.Y*v.Y + m.F.Y*v.Z,
		m.R.Z*v.X + m.U.Z*v.Y + m.F.Z*v.Z,
	}
}

// Compose returns the basis of child, given relative to m, expressed in
// m's parent space.
func (m Mat3) Compose(child Mat3) Mat3 {
	return Mat3{
		R: m.Unrotate(child.R),
		U: m.Unrotate(child.U),
		F: m.Unrotate(child.F),
	}
}

// ApproxEqual reports whether all rows match within eps.
func (m Mat3) ApproxEqual(other Mat3, eps float32) bool {
	return m.R.ApproxEqual(other.R, eps) &&
		m.U.ApproxEqual(other.U, eps) &&
		m.F.ApproxEqual(other.F, eps)
}

// BasisFromForward builds an orthonormal basis whose forward row is fwd.
// up is a hint for the up row; when it is nil, zero or parallel to fwd a
// world axis is chosen instead.
func BasisFromForward(fwd Vec3, up *Vec3) Mat3 {
	f := fwd.Normalize()
	if f == (Vec3{}) {
		return Mat3Identity()
	}

	hint := Vec3{0, 1, 0}
	if up != nil {
		hint = *up
	}

	r := hint.Cross(f)
	if r.Length() < 1e-6 {
		// Hint parallel to forward: fall back to whichever world axis is
		// least aligned with it.
		hint = Vec3{0, 1, 0}
		if math32.Abs(f.Y) > 0.99 {
			hint = Vec3{0, 0, 1}
		}
		r = hint.Cross(f)
	}
	r = r.Normalize()
	u := f.Cross(r)

	return Mat3{R: r, U: u, F: f}
}
