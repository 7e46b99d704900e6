// Package shadow builds the light-space frustums of cascaded shadow maps.
//
// Each cascade covers the slab of the eye frustum between two split
// distances. The slab's corners are taken relative to the eye, rotated
// into light space and bounded by an axis-aligned box; the box defines the
// cascade's orthographic projection.
package shadow

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/invariant"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// DefaultSplits are the eye distances bounding the very-near, near, mid
// and far cascades.
var DefaultSplits = []float32{1, 200, 500, 2000, 10000}

// Cascade is one light-space box and its projection.
type Cascade struct {
	Min, Max  math.Vec3
	Near, Far float32 // eye-space split distances
	Proj      math.Mat4
}

// Center returns the box center in light space.
func (c Cascade) Center() math.Vec3 {
	return c.Min.Add(c.Max).Scale(0.5)
}

// Radius returns the half-diagonal of the box.
func (c Cascade) Radius() float32 {
	return c.Max.Sub(c.Min).Scale(0.5).Length()
}

// Contains reports whether the light-space point p lies in the box,
// allowing eps of slack on every side.
func (c Cascade) Contains(p math.Vec3, eps float32) bool {
	return p.X >= c.Min.X-eps && p.X <= c.Max.X+eps &&
		p.Y >= c.Min.Y-eps && p.Y <= c.Max.Y+eps &&
		p.Z >= c.Min.Z-eps && p.Z <= c.Max.Z+eps
}

// Set is the cascades of one frame.
type Set struct {
	Light    math.Mat3 // forward is the direction the light travels
	Eye      math.Vec3
	Cascades []Cascade
}

// LightOrientation returns the basis looking along lightDir, the direction
// the light travels, using the eye's up vector to fix the roll.
func LightOrientation(lightDir, eyeUp math.Vec3) math.Mat3 {
	return math.BasisFromForward(lightDir, &eyeUp)
}

// SlabCorners returns the eight corners of the eye frustum between near
// and far, relative to the eye position. fov is the full vertical angle in
// radians.
func SlabCorners(eyeOrient math.Mat3, fov, aspect, near, far float32) [8]math.Vec3 {
	t := math32.Tan(fov * 0.5)
	nh, fh := t*near, t*far
	nw, fw := nh*aspect, fh*aspect

	corner := func(dist, h, w, sy, sx float32) math.Vec3 {
		return eyeOrient.F.Scale(dist).
			Add(eyeOrient.U.Scale(sy * h)).
			Add(eyeOrient.R.Scale(sx * w))
	}

	return [8]math.Vec3{
		corner(near, nh, nw, 1, -1),
		corner(near, nh, nw, 1, 1),
		corner(near, nh, nw, -1, 1),
		corner(near, nh, nw, -1, -1),
		corner(far, fh, fw, -1, -1),
		corner(far, fh, fw, -1, 1),
		corner(far, fh, fw, 1, 1),
		corner(far, fh, fw, 1, -1),
	}
}

// BuildCascade bounds the slab between near and far in light space.
func BuildCascade(light, eyeOrient math.Mat3, fov, aspect, near, far float32) Cascade {
	pts := SlabCorners(eyeOrient, fov, aspect, near, far)

	lo := light.Rotate(pts[0])
	hi := lo
	for _, p := range pts[1:] {
		r := light.Rotate(p)
		lo = lo.Min(r)
		hi = hi.Max(r)
	}

	return Cascade{
		Min:  lo,
		Max:  hi,
		Near: near,
		Far:  far,
		Proj: boxProjection(lo, hi),
	}
}

// boxProjection maps the light-space box onto the clip cube with z
// negated: Min.Z lands on +1 and Max.Z on -1. Casters nearest the light
// therefore write the largest depth.
func boxProjection(lo, hi math.Vec3) math.Mat4 {
	return math.Ortho(lo.X, hi.X, lo.Y, hi.Y, -hi.Z, -lo.Z)
}

// BuildCascades builds one cascade per consecutive pair of splits. The
// result depends only on its arguments.
func BuildCascades(lightDir math.Vec3, eyeOrient math.Mat3, eyePos math.Vec3, fov, aspect float32, splits []float32) Set {
	set := Set{
		Light: LightOrientation(lightDir, eyeOrient.U),
		Eye:   eyePos,
	}
	if len(splits) < 2 {
		return set
	}

	set.Cascades = make([]Cascade, 0, len(splits)-1)
	for i := 1; i < len(splits); i++ {
		near, far := splits[i-1], splits[i]
		invariant.Check(far > near, "shadow", "split distances must increase",
			zap.Float32("near", near), zap.Float32("far", far))
		set.Cascades = append(set.Cascades, BuildCascade(set.Light, eyeOrient, fov, aspect, near, far))
	}
	return set
}

// ObjectVisible reports whether a sphere at relPos (relative to the eye)
// may cast into the cascade. It is false only when the sphere is outside
// the box on x, on y, or entirely beyond its far z side. Casters between
// the light and the box are kept.
func ObjectVisible(relPos math.Vec3, radius float32, light math.Mat3, c Cascade) bool {
	p := light.Rotate(relPos)
	switch {
	case p.X-radius > c.Max.X, p.X+radius < c.Min.X:
		return false
	case p.Y-radius > c.Max.Y, p.Y+radius < c.Min.Y:
		return false
	case p.Z-radius > c.Max.Z:
		return false
	}
	return true
}

// Visible reports whether a world-space sphere may cast into any cascade.
func (s Set) Visible(pos math.Vec3, radius float32) bool {
	rel := pos.Sub(s.Eye)
	for _, c := range s.Cascades {
		if ObjectVisible(rel, radius, s.Light, c) {
			return true
		}
	}
	return false
}

// ViewMatrix maps world space into the light space the boxes live in.
func (s Set) ViewMatrix() math.Mat4 {
	return math.ViewFromBasis(s.Light, s.Eye)
}

