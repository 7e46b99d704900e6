// Package camera provides the viewer used to build frame matrices and
// shadow cascades.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/drawqueue/pkg/math"
)

// Orbit orbits around a center point.
type Orbit struct {
	Center math.Vec3

	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	// FOV is the vertical field of view in radians.
	FOV  float32
	Near float32
	Far  float32
}

// NewOrbit creates an orbit camera with default settings.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        60,
		Pitch:           0.5,
		MinDistance:     5,
		MaxDistance:     5000,
		MinPitch:        -1.4,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             math32.Pi / 3,
		Near:            1,
		Far:             10000,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * sy,
		Y: c.Distance * sp,
		Z: c.Distance * cp * cy,
	})
}

// Orientation returns the viewer basis, forward toward the center.
func (c *Orbit) Orientation() math.Mat3 {
	up := math.Vec3{Y: 1}
	return math.BasisFromForward(c.Center.Sub(c.Position()), &up)
}

// ViewMatrix returns the view matrix for this camera.
func (c *Orbit) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for aspect.
func (c *Orbit) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = min(max(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}
