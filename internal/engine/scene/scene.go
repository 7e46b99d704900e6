// Package scene holds the demo world and walks it into a draw list each
// frame.
package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/drawqueue/internal/engine/drawlist"
	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/shadow"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Part draws one batch of an object's geometry with its own overrides.
type Part struct {
	Batch    int
	Textured bool
	Thruster bool // stretched by Object.ThrustScale
	Animated bool
}

// Object is a drawable node. Children are positioned relative to it.
type Object struct {
	ID       int
	Geometry *drawlist.Geometry
	Parts    []Part

	Position math.Vec3
	Orient   math.Mat3
	Scale    math.Vec3
	Radius   float32

	Textures [drawlist.NumSlots]drawlist.Texture
	Blend    drawlist.BlendMode
	Alpha    float32
	Depth    drawlist.DepthMode
	Cull     drawlist.CullMode
	ZBias    int

	Lit         bool
	CastsShadow bool

	// Clip, when set, hides the part of the object behind the plane.
	Clip *drawlist.ClipPlane

	TeamColor      *drawlist.TeamColor
	AnimatedEffect int
	ThrustScale    float32

	// TransformOffset selects batched submodel matrices, -1 for none.
	TransformOffset int

	// SpinRate turns the object around its local up axis, radians per second.
	SpinRate float32

	// ArcRate emits electrical arcs across the object when positive.
	ArcRate float32
	ArcKind drawlist.ArcKind

	Children []*Object
}

// NewObject returns an object with neutral state.
func NewObject(id int, g *drawlist.Geometry, radius float32) *Object {
	o := &Object{
		ID:              id,
		Geometry:        g,
		Orient:          math.Mat3Identity(),
		Scale:           math.Vec3{X: 1, Y: 1, Z: 1},
		Radius:          radius,
		Alpha:           1,
		Lit:             true,
		CastsShadow:     true,
		TransformOffset: -1,
	}
	if g != nil {
		for i := range g.Batches {
			o.Parts = append(o.Parts, Part{Batch: i, Textured: true})
		}
	}
	return o
}

// Fog is the scene's linear fog, disabled when Far <= Near.
type Fog struct {
	R, G, B   uint8
	Near, Far float32
}

// Scene is the demo world.
type Scene struct {
	Objects []*Object
	Lights  []lighting.Light
	Fog     Fog

	Wireframe bool
	Arcs      bool

	time float32
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{Arcs: true}
}

// Add appends top-level objects.
func (s *Scene) Add(objs ...*Object) {
	s.Objects = append(s.Objects, objs...)
}

// Time returns the animation clock in seconds.
func (s *Scene) Time() float32 {
	return s.time
}

// Update advances animation by dt seconds.
func (s *Scene) Update(dt float32) {
	s.time += dt
	for _, o := range s.Objects {
		spin(o, dt)
	}
}

func spin(o *Object, dt float32) {
	if o.SpinRate != 0 {
		q := math.QuatFromAxisAngle(o.Orient.U, o.SpinRate*dt)
		r := q.ToBasis()
		o.Orient = math.Mat3{R: r.Unrotate(o.Orient.R), U: o.Orient.U, F: r.Unrotate(o.Orient.F)}
	}
	for _, c := range o.Children {
		spin(c, dt)
	}
}

// Sun returns the first directional light, if any.
func (s *Scene) Sun() (lighting.Light, bool) {
	for _, l := range s.Lights {
		if l.Kind == lighting.Directional {
			return l, true
		}
	}
	return lighting.Light{}, false
}

// Pass selects what Submit queues.
type Pass struct {
	// Shadows, when set, limits the pass to casters visible to the
	// cascades.
	Shadows *shadow.Set
}

// Submit walks the scene into q. The caller has already begun q's frame.
func (s *Scene) Submit(q *drawlist.Queue, pass Pass) {
	for _, l := range s.Lights {
		q.AddLight(l)
	}
	if s.Fog.Far > s.Fog.Near {
		q.SetFog(drawlist.FogLinear, s.Fog.R, s.Fog.G, s.Fog.B, s.Fog.Near, s.Fog.Far)
	} else {
		q.SetFog(drawlist.FogNone, 0, 0, 0, 0, 0)
	}
	if s.Wireframe {
		q.SetFillMode(drawlist.FillWire)
	} else {
		q.SetFillMode(drawlist.FillSolid)
	}
	q.SetAnimatedTimer(s.time)

	for _, o := range s.Objects {
		s.submitObject(q, o, pass)
	}
}

func (s *Scene) submitObject(q *drawlist.Queue, o *Object, pass Pass) {
	q.PushTransform(o.Position, o.Orient)
	defer q.PopTransform()

	world := q.CurrentTransform()
	if pass.Shadows != nil && (!o.CastsShadow || !pass.Shadows.Visible(world.Origin, o.Radius)) {
		s.submitChildren(q, o, pass)
		return
	}

	if o.Geometry != nil && len(o.Parts) > 0 {
		s.applyObjectState(q, o, world.Origin)
		for _, p := range o.Parts {
			thrust := float32(0)
			if p.Thruster {
				thrust = o.ThrustScale
			}
			q.SetThrustScale(thrust)

			var flags drawlist.DrawFlags
			if p.Textured {
				flags |= drawlist.DrawTextured
			}
			if p.Animated {
				flags |= drawlist.DrawAnimated
			}
			if o.TransformOffset >= 0 {
				flags |= drawlist.DrawBatchTransforms
			}
			q.SubmitDraw(o.Geometry, p.Batch, flags)
		}
		if pass.Shadows == nil && s.Arcs && o.ArcRate > 0 {
			s.addArcs(q, o)
		}
	}
	s.submitChildren(q, o, pass)
}

func (s *Scene) submitChildren(q *drawlist.Queue, o *Object, pass Pass) {
	for _, c := range o.Children {
		s.submitObject(q, c, pass)
	}
}

func (s *Scene) applyObjectState(q *drawlist.Queue, o *Object, origin math.Vec3) {
	for slot, tex := range o.Textures {
		q.SetTexture(drawlist.Slot(slot), tex)
	}
	q.SetBuffer(o.Geometry.Buffer)
	q.SetBlendFilter(o.Blend, o.Alpha)
	q.SetDepthMode(o.Depth)
	q.SetCullMode(o.Cull)
	q.SetZBias(o.ZBias)
	q.SetScale(o.Scale)
	q.SetTransformBufferOffset(o.TransformOffset)
	q.SetAnimatedEffect(o.AnimatedEffect)

	q.SetLighting(o.Lit)
	if o.Lit {
		q.SetLightFilter(o.ID, origin, o.Radius)
	}

	if o.Clip != nil {
		q.SetClipPlane(o.Clip.Point, o.Clip.Normal)
	} else {
		q.ClearClipPlane()
	}

	if o.TeamColor != nil {
		q.SetTeamColor(o.TeamColor.Base, o.TeamColor.Stripe)
	} else {
		q.ClearTeamColor()
	}
}

// addArcs emits a deterministic crawl of arcs across the object's
// bounding sphere, in the object's space.
func (s *Scene) addArcs(q *drawlist.Queue, o *Object) {
	n := int(o.ArcRate)
	step := int(s.time * 20)
	flicker := step%2 == 1
	primary, secondary := drawlist.ArcColors(o.ArcKind, flicker)
	width := drawlist.ArcWidth(o.Radius)

	for i := range n {
		a := float32(step+i*7) * 0.61803
		b := a + 0.9
		sa, ca := math32.Sincos(a)
		sb, cb := math32.Sincos(b)
		r := o.Radius * 0.8
		v1 := math.Vec3{X: ca * r, Y: sa * r * 0.5, Z: sa * ca * r}
		v2 := math.Vec3{X: cb * r, Y: sb * r * 0.5, Z: sb * cb * r}
		q.AddArc(v1, v2, primary, secondary, width)
	}
}
