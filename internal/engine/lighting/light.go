// Package lighting selects the scene lights that affect each draw.
package lighting

import (
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Kind identifies how a light's influence is shaped.
type Kind uint8

const (
	// Directional lights have no position and reach everything.
	Directional Kind = iota
	// Point lights influence a sphere of Radius around Position.
	Point
	// Tube lights influence a capsule of Radius around the segment
	// Position..End.
	Tube
)

// Light is one active scene light.
type Light struct {
	Kind      Kind
	Position  math.Vec3
	End       math.Vec3 // tube lights only
	Direction math.Vec3 // directional lights only, points toward the light
	Color     math.Vec3
	Radius    float32
	Intensity float32
}

// closestPoint returns the point of the light's influence centre nearest p.
func (l Light) closestPoint(p math.Vec3) math.Vec3 {
	if l.Kind != Tube {
		return l.Position
	}
	seg := l.End.Sub(l.Position)
	lenSq := seg.Dot(seg)
	if lenSq == 0 {
		return l.Position
	}
	t := p.Sub(l.Position).Dot(seg) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return l.Position.Add(seg.Scale(t))
}

// distance returns how far p is from the light's influence centre.
func (l Light) distance(p math.Vec3) float32 {
	return l.closestPoint(p).Distance(p)
}

// Range is a contiguous run of the per-frame light buffer.
type Range struct {
	Start int
	Count int
}

// Empty reports whether the range selects no lights.
func (r Range) Empty() bool {
	return r.Count == 0
}
