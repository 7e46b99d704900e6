// Package drawlist queues a frame's draws and dispatches them with as few
// pipeline state changes as possible.
//
// Scene traversal sets state through the mutators and calls SubmitDraw for
// each batch. At the end of the frame SortForDispatch resolves a program
// variant per draw and orders the draws so that expensive state is shared
// by runs of consecutive draws. Dispatch then walks that order, issuing
// only the state that changed since the previous draw.
package drawlist

import (
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/shadow"
	"github.com/Faultbox/drawqueue/internal/engine/transform"
	"github.com/Faultbox/drawqueue/internal/engine/uniform"
	"github.com/Faultbox/drawqueue/internal/invariant"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// VariantResolver maps feature flags to programs.
type VariantResolver interface {
	Effective(f shader.Flags) shader.Flags
	Resolve(f shader.Flags) shader.Variant
}

// FrameOptions carry per-frame inputs shared by every draw.
type FrameOptions struct {
	View   math.Mat4
	Proj   math.Mat4
	EyePos math.Vec3

	// ShadowPass renders depth into cascade ShadowCascade.
	ShadowPass    bool
	ShadowCascade int
	// Shadows enables shadow receiving when set and not in a shadow pass.
	Shadows *shadow.Uniforms

	// EnvMap is the scene environment map, NoTexture for none.
	EnvMap Texture
	// EnvMapAlpha marks an environment map whose alpha scales reflection.
	EnvMapAlpha bool
}

// Queue is the draw list of one frame. It is not safe for concurrent use.
type Queue struct {
	backend  Backend
	resolver VariantResolver
	uniforms *uniform.Cache
	lights   *lighting.Index
	packed   *lighting.Packed

	frame FrameOptions

	// Accumulated state for the next SubmitDraw.
	current         RenderState
	textures        [NumSlots]Texture
	blend           BlendMode
	alpha           float32
	depth           DepthMode
	scale           math.Vec3
	thrustScale     float32
	lightFactor     float32
	lightRange      lighting.Range
	transformOffset int
	transforms      transform.Stack

	clipPlanes []ClipPlane
	states     []RenderState
	records    []DrawRecord
	order      []int
	resolved   bool
	arcs       []Arc

	log *zap.Logger
}

// NewQueue creates a queue. lights may be nil for a queue that never
// lights its draws.
func NewQueue(b Backend, r VariantResolver, u *uniform.Cache, lights *lighting.Index, log *zap.Logger) *Queue {
	if lights == nil {
		lights = lighting.NewIndex(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	q := &Queue{
		backend:  b,
		resolver: r,
		uniforms: u,
		lights:   lights,
		packed:   lighting.NewPacked(lights.MaxPerDraw()),
		log:      log,
	}
	q.BeginFrame(FrameOptions{View: math.Identity(), Proj: math.Identity()})
	return q
}

// BeginFrame drops everything queued for the previous frame and resets
// the accumulated state.
func (q *Queue) BeginFrame(opts FrameOptions) {
	if opts.ShadowPass && opts.Shadows != nil && len(opts.Shadows.Proj) > 0 {
		opts.ShadowCascade = invariant.Clamp(opts.ShadowCascade, len(opts.Shadows.Proj), "drawlist", "shadow cascade")
	}
	q.frame = opts

	q.current = defaultState()
	q.textures = [NumSlots]Texture{}
	q.blend = BlendNone
	q.alpha = 1
	q.depth = DepthFull
	q.scale = math.Vec3{X: 1, Y: 1, Z: 1}
	q.thrustScale = 0
	q.lightFactor = 1
	q.lightRange = lighting.Range{}
	q.transformOffset = -1
	q.transforms.Reset()
	q.lights.Reset()

	q.clipPlanes = q.clipPlanes[:0]
	q.states = q.states[:0]
	q.records = q.records[:0]
	q.order = q.order[:0]
	q.resolved = false
	q.arcs = q.arcs[:0]
}

// Frame returns the options of the current frame.
func (q *Queue) Frame() FrameOptions {
	return q.frame
}

// Len returns the number of queued draws.
func (q *Queue) Len() int {
	return len(q.records)
}

// Record returns the i-th draw in submission order.
func (q *Queue) Record(i int) DrawRecord {
	return q.records[i]
}

// State returns the state block a record refers to.
func (q *Queue) State(i int) RenderState {
	return q.states[i]
}

// States returns the number of distinct state blocks stored this frame.
func (q *Queue) States() int {
	return len(q.states)
}

// AddLight registers an active light for this frame.
func (q *Queue) AddLight(l lighting.Light) {
	q.lights.Add(l)
}

// SetLightFilter selects the lights for the object about to be drawn.
// Draws submitted with lighting on use the selected range.
func (q *Queue) SetLightFilter(objectID int, pos math.Vec3, radius float32) {
	q.lightRange = q.lights.Filter(objectID, pos, radius)
}

// SetClipPlane starts clipping subsequent draws against a plane.
func (q *Queue) SetClipPlane(point, normal math.Vec3) {
	q.clipPlanes = append(q.clipPlanes, ClipPlane{Point: point, Normal: normal})
	q.current.ClipPlane = len(q.clipPlanes) - 1
}

// ClearClipPlane stops clipping subsequent draws.
func (q *Queue) ClearClipPlane() {
	q.current.ClipPlane = -1
}

// SetTexture binds tex to a slot for subsequent draws.
func (q *Queue) SetTexture(slot Slot, tex Texture) {
	if !invariant.Check(slot < NumSlots, "drawlist", "texture slot out of range", zap.Uint8("slot", uint8(slot))) {
		return
	}
	q.textures[slot] = tex
}

// SetBlendFilter sets the blend mode and constant alpha.
func (q *Queue) SetBlendFilter(mode BlendMode, alpha float32) {
	q.blend = mode
	q.alpha = alpha
}

// SetDepthMode sets depth test and write behaviour.
func (q *Queue) SetDepthMode(mode DepthMode) {
	q.depth = mode
}

// SetTextureAddressing sets the texture coordinate wrap mode.
func (q *Queue) SetTextureAddressing(a TextureAddressing) {
	q.current.Addressing = a
}

// SetFog sets fog parameters. near and far are ignored for FogNone.
func (q *Queue) SetFog(mode FogMode, r, g, b uint8, near, far float32) {
	if mode == FogNone {
		q.current.Fog = Fog{Mode: FogNone, Near: -1, Far: -1}
		return
	}
	q.current.Fog = Fog{Mode: mode, R: r, G: g, B: b, Near: near, Far: far}
}

// SetFillMode sets polygon fill.
func (q *Queue) SetFillMode(m FillMode) {
	q.current.Fill = m
}

// SetCullMode sets face culling.
func (q *Queue) SetCullMode(m CullMode) {
	q.current.Cull = m
}

// SetZBias sets the depth bias.
func (q *Queue) SetZBias(bias int) {
	q.current.ZBias = bias
}

// SetCenterAlpha sets the center-alpha mode.
func (q *Queue) SetCenterAlpha(mode int) {
	q.current.CenterAlpha = mode
}

// SetLighting turns lighting on or off for subsequent draws.
func (q *Queue) SetLighting(on bool) {
	q.current.Lighting = on
}

// SetBuffer selects the geometry buffer for subsequent draws. SubmitDraw
// replaces it with the submitted geometry's buffer.
func (q *Queue) SetBuffer(id int) {
	q.current.Buffer = id
}

// SetTeamColor sets the team tint for subsequent draws.
func (q *Queue) SetTeamColor(base, stripe math.Vec3) {
	q.current.TeamColor = TeamColor{Set: true, Base: base, Stripe: stripe}
}

// ClearTeamColor removes the team tint.
func (q *Queue) ClearTeamColor() {
	q.current.TeamColor = TeamColor{}
}

// SetAnimatedEffect selects the animated shader effect.
func (q *Queue) SetAnimatedEffect(effect int) {
	q.current.AnimatedEffect = effect
}

// SetAnimatedTimer sets the animated effect clock.
func (q *Queue) SetAnimatedTimer(t float32) {
	q.current.AnimatedTimer = t
}

// SetScale sets the per-axis model scale.
func (q *Queue) SetScale(s math.Vec3) {
	q.scale = s
}

// SetThrustScale sets the thruster stretch. Zero disables it.
func (q *Queue) SetThrustScale(s float32) {
	q.thrustScale = s
}

// SetLightFactor scales lighting intensity.
func (q *Queue) SetLightFactor(f float32) {
	q.lightFactor = f
}

// SetTransformBufferOffset sets where the batched submodel matrices of the
// next draws start. -1 disables batched transforms.
func (q *Queue) SetTransformBufferOffset(offset int) {
	q.transformOffset = offset
}

// PushTransform enters a hierarchy level relative to the current one.
func (q *Queue) PushTransform(pos math.Vec3, orient math.Mat3) {
	q.transforms.Push(pos, orient)
}

// PopTransform leaves a hierarchy level.
func (q *Queue) PopTransform() bool {
	return q.transforms.Pop()
}

// CurrentTransform returns the world transform draws are submitted with.
func (q *Queue) CurrentTransform() transform.Transform {
	return q.transforms.Top()
}

// features derives a draw's shader requirements from the accumulated state.
func (q *Queue) features(st *RenderState, g *Geometry, flags DrawFlags) shader.Features {
	tex := q.textures
	return shader.Features{
		Lighting:         st.Lighting,
		Fog:              st.Fog.Mode != FogNone,
		Textured:         flags&DrawTextured != 0 && g.HasUV,
		ShadowPass:       q.frame.ShadowPass,
		Shadows:          q.frame.Shadows != nil && !q.frame.ShadowPass,
		Thruster:         q.thrustScale > 0,
		BatchedTransform: flags&DrawBatchTransforms != 0 && q.transformOffset >= 0 && g.HasModelID,
		TeamColor:        st.TeamColor.Set,
		Animated:         flags&DrawAnimated != 0,
		Clip:             st.ClipPlane >= 0,
		GlowMap:          tex[SlotGlow] != NoTexture,
		SpecMap:          tex[SlotSpecular] != NoTexture,
		NormalMap:        tex[SlotNormal] != NoTexture,
		HeightMap:        tex[SlotHeight] != NoTexture,
		EnvMap:           q.frame.EnvMap != NoTexture,
		MiscMap:          tex[SlotMisc] != NoTexture,
	}
}

// SubmitDraw queues batch of g with the accumulated state. The draw is
// keyed by g's buffer. A batch index outside g is a caller bug; the draw
// is dropped.
func (q *Queue) SubmitDraw(g *Geometry, batch int, flags DrawFlags) bool {
	if !invariant.Check(g != nil, "drawlist", "draw without geometry") {
		return false
	}
	if !invariant.Check(batch >= 0 && batch < len(g.Batches), "drawlist", "batch index out of range",
		zap.Int("batch", batch), zap.Int("batches", len(g.Batches))) {
		return false
	}

	q.current.Buffer = g.Buffer
	st := q.current
	if st.Lighting {
		st.Lights = q.lightRange
	} else {
		st.Lights = lighting.Range{}
	}

	stateIdx := len(q.states) - 1
	if stateIdx < 0 || q.states[stateIdx] != st {
		q.states = append(q.states, st)
		stateIdx = len(q.states) - 1
	}

	f := q.resolver.Effective(q.features(&st, g, flags).Flags())

	q.records = append(q.records, DrawRecord{
		State:           stateIdx,
		Geometry:        g,
		Batch:           batch,
		Textures:        q.textures,
		Blend:           q.blend,
		Alpha:           q.alpha,
		Depth:           q.depth,
		Flags:           f,
		Transform:       q.transforms.Top(),
		Scale:           q.scale,
		ThrustScale:     q.thrustScale,
		LightFactor:     q.lightFactor,
		TransformOffset: q.transformOffset,
	})
	q.order = append(q.order, len(q.records)-1)
	q.resolved = false
	return true
}
