// Package transform composes nested object placements into world space.
package transform

import (
	"github.com/Faultbox/drawqueue/internal/invariant"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Transform is an object-to-world placement.
type Transform struct {
	Basis  math.Mat3
	Origin math.Vec3
}

// Identity returns the placement at the world origin with no rotation.
func Identity() Transform {
	return Transform{Basis: math.Mat3Identity()}
}

// Apply maps a local point into the space the transform is expressed in.
func (t Transform) Apply(p math.Vec3) math.Vec3 {
	return t.Origin.Add(t.Basis.Unrotate(p))
}

// Child returns the transform of (pos, orient) given relative to t.
func (t Transform) Child(pos math.Vec3, orient math.Mat3) Transform {
	return Transform{
		Basis:  t.Basis.Compose(orient),
		Origin: t.Apply(pos),
	}
}

// Matrix returns the column-major model matrix with the given scale.
func (t Transform) Matrix(scale math.Vec3) math.Mat4 {
	return math.FromBasis(t.Basis, t.Origin, scale)
}

// Stack holds the composed transforms of a hierarchy walk. The top is the
// composition of every transform pushed since the stack was last empty.
// The zero value is an empty stack.
type Stack struct {
	items []Transform
}

// Push enters a hierarchy level. pos and orient are relative to the current
// top, or absolute when the stack is empty.
func (s *Stack) Push(pos math.Vec3, orient math.Mat3) {
	if len(s.items) == 0 {
		s.items = append(s.items, Transform{Basis: orient, Origin: pos})
		return
	}
	s.items = append(s.items, s.items[len(s.items)-1].Child(pos, orient))
}

// Pop leaves a hierarchy level. Popping an empty stack is a caller bug; it
// is reported and the stack stays empty.
func (s *Stack) Pop() bool {
	if !invariant.Check(len(s.items) > 0, "transform", "pop on empty stack") {
		return false
	}
	s.items = s.items[:len(s.items)-1]
	return true
}

// Top returns the current world transform, or identity when empty.
func (s *Stack) Top() Transform {
	if len(s.items) == 0 {
		return Identity()
	}
	return s.items[len(s.items)-1]
}

// Len returns the stack depth.
func (s *Stack) Len() int {
	return len(s.items)
}

// Reset empties the stack, keeping its storage.
func (s *Stack) Reset() {
	s.items = s.items[:0]
}
